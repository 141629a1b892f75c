package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	configs "go_mock_console/internal/infra/config"
	"go_mock_console/utils"

	"github.com/spf13/cobra"
)

var (
	configFile string

	errScenariosFailed = errors.New("one or more scenarios failed")
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "proxyrule",
		Short: "Beeceptor proxy rule automation",
		Long:  "Creates a proxy/callout rule in the Beeceptor console through a real browser and verifies the saved rule",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (defaults to PROXYRULE_CONFIG_PATH or configs/proxyrule.<env>.yaml)")
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run",
		Short:         "Create and verify the configured proxy rule",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}

			c, err := configs.LoadRunConfig(configs.ConfigPath(configFile))
			if err != nil {
				return err
			}
			if err := applyOverrides(c, v); err != nil {
				return err
			}

			if err := utils.InitLogger(c.Log.FilePath, c.Log.Level); err != nil {
				return err
			}
			logger := utils.GetLogger()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			app, err := InitializeApp(c)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			logger.Infof("Creating rule %s on %s", c.Rule, c.Console.ConsoleURL())
			report, err := app.Runner.Run(ctx, app.Suite.Scenarios()...)
			if err != nil {
				return err
			}
			if !report.OK() {
				return errScenariosFailed
			}
			return nil
		},
	}
	addRunFlags(cmd)
	return cmd
}
