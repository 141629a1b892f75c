package configs

import "github.com/google/wire"

// ConfigSet loads the run configuration from the environment.
var ConfigSet = wire.NewSet(
	LoadRunConfigFromEnv,
)
