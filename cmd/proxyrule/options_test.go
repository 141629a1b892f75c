package main

import (
	"testing"

	model "go_mock_console/internal/domain/model/proxy_rule"
	configs "go_mock_console/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overridden(t *testing.T, flags map[string]string) (*configs.RunConfig, error) {
	t.Helper()
	cmd := runCmd()
	for k, v := range flags {
		require.NoError(t, cmd.Flags().Set(k, v))
	}
	v, err := newViper(cmd)
	require.NoError(t, err)

	c := configs.DefaultRunConfig()
	return c, applyOverrides(c, v)
}

func TestApplyOverridesKeepsDefaults(t *testing.T) {
	c, err := overridden(t, nil)
	require.NoError(t, err)
	assert.Equal(t, configs.DefaultRunConfig(), c)
}

func TestApplyOverridesFromFlags(t *testing.T) {
	c, err := overridden(t, map[string]string{
		"headless": "false",
		"retries":  "0",
		"workers":  "2",
		"reporter": "list",
		"endpoint": "myendpoint",
	})
	require.NoError(t, err)

	assert.False(t, c.Browser.Headless)
	assert.Equal(t, 0, c.Runner.Retries)
	assert.Equal(t, 2, c.Runner.Workers)
	assert.Equal(t, []string{"list"}, c.Runner.Reporters)
	assert.Equal(t, "https://app.beeceptor.com/console/myendpoint", c.Console.ConsoleURL())
	assert.Equal(t, model.AnimechanSpec(), c.Rule)
}

func TestApplyOverridesFromEnv(t *testing.T) {
	t.Setenv("PROXYRULE_WORKERS", "3")
	t.Setenv("PROXYRULE_REPORTER", "list,html")
	t.Setenv("PROXYRULE_METHOD", "post")

	c, err := overridden(t, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Runner.Workers)
	assert.Equal(t, []string{"list", "html"}, c.Runner.Reporters)
	assert.Equal(t, model.MethodPost, c.Rule.Method)
}

func TestApplyOverridesRule(t *testing.T) {
	c, err := overridden(t, map[string]string{
		"operator":    "SW",
		"path":        "/orders",
		"target":      "https://example.com/orders",
		"description": "Orders Proxy",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MethodGet, c.Rule.Method)
	assert.Equal(t, model.PathOperatorStartsWith, c.Rule.PathOperator)
	assert.Equal(t, "/orders", c.Rule.Path)
	assert.Equal(t, "https://example.com/orders", c.Rule.TargetEndpoint)
	assert.Equal(t, "Orders Proxy", c.Rule.Description)
	assert.Equal(t, model.DefaultCalloutSettings(), c.Rule.Callout)
}

func TestApplyOverridesRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
	}{
		{name: "bad method", flags: map[string]string{"method": "FETCH"}},
		{name: "bad target", flags: map[string]string{"target": "nope"}},
		{name: "no workers", flags: map[string]string{"workers": "0"}},
		{name: "unknown reporter", flags: map[string]string{"reporter": "junit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := overridden(t, tt.flags)
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"list", "html"}, splitList([]string{"list,html"}))
	assert.Equal(t, []string{"list", "html"}, splitList([]string{"list", " html "}))
	assert.Nil(t, splitList(nil))
}
