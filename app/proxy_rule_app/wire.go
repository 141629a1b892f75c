package proxy_rule_app

import "github.com/google/wire"

var AppSet = wire.NewSet(
	NewProxyRuleSuite,
)
