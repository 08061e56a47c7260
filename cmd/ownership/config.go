package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/owned/errors"
)

// Config holds all configuration options for the CLI.
type Config struct {
	Color            string `yaml:"color"`
	Verbose          bool   `yaml:"verbose"`
	MemoryLimitPages uint32 `yaml:"memory_limit_pages"`
	ContinueOnError  bool   `yaml:"continue_on_error"`

	File string `yaml:"-"`
}

// loadConfig reads the config file, if any. Values given on the command
// line win over values from the file.
func (app *App) loadConfig(cmd *cobra.Command) error {
	if app.config.File == "" {
		return app.config.validate()
	}

	data, err := os.ReadFile(app.config.File)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read config file "+app.config.File)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config file "+app.config.File)
	}

	flags := cmd.Flags()
	if !flags.Changed("color") && file.Color != "" {
		app.config.Color = file.Color
	}
	if !flags.Changed("verbose") {
		app.config.Verbose = app.config.Verbose || file.Verbose
	}
	if f := flags.Lookup("memory-limit-pages"); (f == nil || !f.Changed) && file.MemoryLimitPages > 0 {
		app.config.MemoryLimitPages = file.MemoryLimitPages
	}
	if f := flags.Lookup("continue"); (f == nil || !f.Changed) && file.ContinueOnError {
		app.config.ContinueOnError = true
	}

	return app.config.validate()
}

func (c *Config) validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
		return nil
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Color).
			Detail("color must be auto, always or never, got %q", c.Color).
			Build()
	}
}

// colorEnabled reports whether output to w should be styled.
func (c *Config) colorEnabled(w io.Writer) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (c *Config) String() string {
	return fmt.Sprintf("color=%s verbose=%v memory_limit_pages=%d continue_on_error=%v",
		c.Color, c.Verbose, c.MemoryLimitPages, c.ContinueOnError)
}
