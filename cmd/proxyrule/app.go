package main

import (
	"go_mock_console/app/proxy_rule_app"
	"go_mock_console/internal/runner"
)

// App 命令行运行所需的组件
type App struct {
	Runner *runner.Runner
	Suite  *proxy_rule_app.ProxyRuleSuite
}

func NewApp(r *runner.Runner, suite *proxy_rule_app.ProxyRuleSuite) *App {
	return &App{Runner: r, Suite: suite}
}
