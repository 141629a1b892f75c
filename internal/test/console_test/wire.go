//go:build wireinject
// +build wireinject

package consoletest

import (
	"go_mock_console/app/proxy_rule_app"
	"go_mock_console/internal/domain/services"
	"go_mock_console/internal/infra/browser"
	configs "go_mock_console/internal/infra/config"
	"go_mock_console/internal/runner"

	"github.com/google/wire"
)

type ConsoleTestSuite struct {
	Config *configs.RunConfig
	Runner *runner.Runner
	Suite  *proxy_rule_app.ProxyRuleSuite
}

func NewConsoleTestSuite(c *configs.RunConfig, r *runner.Runner, s *proxy_rule_app.ProxyRuleSuite) *ConsoleTestSuite {
	return &ConsoleTestSuite{Config: c, Runner: r, Suite: s}
}

func InitializeConsoleTest() (*ConsoleTestSuite, error) {
	wire.Build(
		configs.ConfigSet,
		browser.BrowserSet,
		services.ServiceSet,
		runner.RunnerSet,
		proxy_rule_app.AppSet,
		NewConsoleTestSuite,
	)
	return &ConsoleTestSuite{}, nil
}
