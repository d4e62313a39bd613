package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/policy/store"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "saturn",
	Short: "Saturn - deterministic policy and routing decision engine",
	Long: `Saturn decides where an assistant question should run: on the local
model or in the cloud. Decisions are policy-first and deterministic:

  - Policy rules can block questions, force a route, require user
    confirmation, or attach warnings
  - Privacy preferences are absolute: a local question never touches
    the network
  - Auto mode weighs token estimates, model capability, and network
    state
  - Every decision leaves an audit record with a content hash, never
    the question text`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "saturn.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json)")
}

// loadConfig loads configuration with env overrides and wires the
// default logger. A missing config file falls back to defaults.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.LoadWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		AddSource:     cfg.Logging.AddSource,
		RedactContent: cfg.Logging.RedactContent,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return cfg, nil
}

// newProvider builds the configured rule provider. The returned
// cleanup releases backend resources.
func newProvider(cfg *config.Config) (store.Provider, func() error, error) {
	switch cfg.Rules.Source {
	case config.RuleSourceSQLite:
		s, err := store.OpenSQLiteStore(cfg.Rules.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.RuleSourceFile:
		p, err := store.NewFileProvider(store.FileProviderConfig{
			Path:             cfg.Rules.Path,
			DebounceInterval: cfg.Rules.DebounceInterval,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown rule source %q", cfg.Rules.Source)
	}
}

func formatter() cli.Formatter {
	return cli.NewFormatter(cli.OutputFormat(outputFormat))
}
