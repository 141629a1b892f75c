//go:build wireinject
// +build wireinject

package main

import (
	"go_mock_console/app/proxy_rule_app"
	"go_mock_console/internal/domain/services"
	"go_mock_console/internal/infra/browser"
	configs "go_mock_console/internal/infra/config"
	"go_mock_console/internal/runner"

	"github.com/google/wire"
)

func InitializeApp(c *configs.RunConfig) (*App, error) {
	wire.Build(
		browser.BrowserSet,
		services.ServiceSet,
		runner.RunnerSet,
		proxy_rule_app.AppSet,
		NewApp,
	)
	return &App{}, nil
}
