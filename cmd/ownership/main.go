// Command ownership runs and explores single-owner handle scenarios.
//
// Examples:
//
//	# Run the built-in make/move/reset/release scenario
//	ownership run
//
//	# Run a script file (.yaml, .toml or plain text)
//	ownership run transfer.yaml
//
//	# Type commands interactively
//	ownership interactive
//
//	# Compile a wasm module inside an owned wazero runtime
//	ownership sandbox module.wasm
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/owned/engine"
	"github.com/wippyai/owned/resource"
	"github.com/wippyai/owned/scenario"
)

// App holds the CLI application state.
type App struct {
	config  *Config
	logger  *zap.Logger
	rootCmd *cobra.Command
}

func main() {
	app := newApp()
	err := app.rootCmd.Execute()
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *App {
	app := &App{config: &Config{}}

	app.rootCmd = &cobra.Command{
		Use:   "ownership",
		Short: "Single-owner handle scenarios",
		Long: `Run and explore single-owner handle scenarios.

Every value is owned by exactly one handle. Moving a handle empties the
source, dropping a handle destroys what it holds, and releasing hands the
raw value back to the caller. Each run reports values destroyed more than
once or never.

Configuration priority:
  1. Command-line flags (highest)
  2. Config file given with --config (lowest)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(cmd); err != nil {
				return err
			}
			return app.setupLogger()
		},
	}

	app.addGlobalFlags()
	app.addCommands()
	return app
}

// addGlobalFlags adds flags that are available to all commands.
func (app *App) addGlobalFlags() {
	flags := app.rootCmd.PersistentFlags()

	flags.StringVar(&app.config.File, "config", "", "Config file (YAML)")
	flags.StringVar(&app.config.Color, "color", "auto", "Colorize output (auto, always, never)")
	flags.BoolVar(&app.config.Verbose, "verbose", false, "Debug logging to stderr")
}

// addCommands registers all CLI commands.
func (app *App) addCommands() {
	app.rootCmd.AddCommand(
		app.runCmd(),
		app.interactiveCmd(),
		app.sandboxCmd(),
	)
}

func (app *App) setupLogger() error {
	if !app.config.Verbose {
		app.logger = zap.NewNop()
		return nil
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	app.logger = l
	resource.SetLogger(l.Named("resource"))
	scenario.SetLogger(l.Named("scenario"))
	engine.SetLogger(l.Named("engine"))
	l.Debug("config loaded", zap.Stringer("config", app.config))
	return nil
}
