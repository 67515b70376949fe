package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/cmd/cli/commands"
	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	app        = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster engine CLI - match staff to shifts and check pay-rule compliance",
		Long: `A CLI tool for allocating staff to shifts, pricing worked hours under award
pay rules and validating timesheets before approval.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "local", "Environment (selects roster_config.<env>.yaml and prefixes log files)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (overrides --env lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.PriceShiftCmd(app))
	rootCmd.AddCommand(commands.ValidateTimesheetCmd(app))
	rootCmd.AddCommand(commands.PresetsCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger and config
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, _, err = logging.New(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	// Load configuration
	app.Cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("award", app.Cfg.Award),
		zap.String("preset", app.Cfg.Preset))

	return nil
}

// loadConfig reads the explicit config file if given, otherwise the environment's
// file, otherwise falls back to the built-in defaults
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}

	cfg, err := config.LoadWithEnv(env)
	if errors.Is(err, config.ErrConfigNotFound) {
		app.Logger.Info("No config file found, using defaults")
		return config.Default(), nil
	}
	return cfg, err
}
