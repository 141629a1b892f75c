package browser

import "github.com/google/wire"

var BrowserSet = wire.NewSet(
	NewSessionFactory,
)
