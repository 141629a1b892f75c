package runner

import "github.com/google/wire"

var RunnerSet = wire.NewSet(
	NewRunner,
)
