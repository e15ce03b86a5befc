// Package cli builds the cobra commands behind the scrape, stadium-manifest
// and ingest binaries.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"huskers-schedule/internal/config"
	"huskers-schedule/internal/logging"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// commonFlags are registered on every command.
type commonFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "YAML or TOML config file")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&f.logFormat, "log-format", "", "log format: console or json")
}

// setup loads the config, applies the logging flags and installs the
// default logger writing to stderr.
func (f *commonFlags) setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Logging.Format = f.logFormat
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return cfg, nil
}

// Execute runs cmd and exits non-zero with an "Error:" line on failure.
func Execute(cmd *cobra.Command) {
	os.Exit(run(cmd, os.Stderr))
}

func run(cmd *cobra.Command, stderr io.Writer) int {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// stringFlag copies a flag value over dst when the user set it.
func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String()
	}
}
