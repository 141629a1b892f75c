package main

import (
	"fmt"
	"strings"

	"go_mock_console/app/proxy_rule_app"
	configs "go_mock_console/internal/infra/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "PROXYRULE"

// overrideKeys are the flags that may also come from PROXYRULE_* variables.
var overrideKeys = []string{
	"headless", "retries", "workers", "reporter", "endpoint",
	"method", "operator", "path", "target", "description",
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("headless", true, "Run the browser without a window")
	f.Int("retries", 2, "Retries per scenario after a failed run")
	f.Int("workers", 1, "Scenarios run concurrently")
	f.StringSlice("reporter", nil, "Reporters to use (list,html)")
	f.String("endpoint", "", "Beeceptor endpoint name")
	f.String("method", "", "HTTP method the rule matches")
	f.String("operator", "", "Path operator: EM, SW, CO or RE")
	f.String("path", "", "Request path (or pattern) the rule matches")
	f.String("target", "", "Upstream endpoint requests are proxied to")
	f.String("description", "", "Rule description shown in the console")
}

// newViper binds the run flags and the PROXYRULE_ environment.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range overrideKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return v, nil
}

// applyOverrides layers explicitly set flags and environment variables over
// the file configuration and validates the result.
func applyOverrides(c *configs.RunConfig, v *viper.Viper) error {
	if v.IsSet("headless") {
		c.Browser.Headless = v.GetBool("headless")
	}
	if v.IsSet("retries") {
		c.Runner.Retries = v.GetInt("retries")
	}
	if v.IsSet("workers") {
		c.Runner.Workers = v.GetInt("workers")
	}
	if v.IsSet("reporter") {
		c.Runner.Reporters = splitList(v.GetStringSlice("reporter"))
	}
	if v.IsSet("endpoint") {
		c.Console.Endpoint = v.GetString("endpoint")
	}

	req := proxy_rule_app.NewCreateProxyRuleRequest(c.Rule)
	ruleChanged := false
	for key, field := range map[string]*string{
		"method":      &req.Method,
		"operator":    &req.PathOperator,
		"path":        &req.Path,
		"target":      &req.TargetEndpoint,
		"description": &req.Description,
	} {
		if v.IsSet(key) {
			*field = v.GetString(key)
			ruleChanged = true
		}
	}
	if ruleChanged {
		spec, err := req.ConvertToProxyRuleSpec()
		if err != nil {
			return err
		}
		spec.Callout = c.Rule.Callout
		c.Rule = spec
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// splitList accepts both repeated flags and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}
