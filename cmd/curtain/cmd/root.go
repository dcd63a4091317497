// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/Curtain/pkg/config"
	"github.com/ChrisMcGann/Curtain/pkg/store"
)

var (
	// Persistent flags
	configFile string
	storeDSN   string
	storeKey   string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "curtain",
	Short: "Curtain - differential proteomics volcano plots",
	Long: `Curtain maps raw abundance samples to experimental conditions, processes
differential analysis tables and builds colored volcano plots.

Session settings (condition colors, sample order, cutoffs) are kept in a
settings store so repeated imports stay visually stable:
- SQLite file (default curtain.db, or sqlite://path)
- Postgres (postgres://...)`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.DSN = storeDSN
		}
		if cmd.Flags().Changed("key") {
			cfg.Store.Key = storeKey
		}
		logger = newLogger()
		logger.Debug("loaded config", "file", configFile, "store", cfg.Store.DSN, "key", cfg.Store.Key, "log_level", cfg.LogLevel)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "store", "", "Settings store: SQLite path, sqlite://path or postgres://... (default from config, curtain.db)")
	rootCmd.PersistentFlags().StringVarP(&storeKey, "key", "k", "", "Settings record key (default from config, \"default\")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(settingsCmd)
}

// newLogger builds the stderr logger. --verbose overrides the configured level.
func newLogger() *log.Logger {
	l := log.New(os.Stderr)
	if verbose {
		l.SetLevel(log.DebugLevel)
		return l
	}
	lvl, err := cfg.Level()
	l.SetLevel(lvl)
	if err != nil {
		l.Warn("unknown log_level in config, defaulting to info", "provided", cfg.LogLevel)
	}
	return l
}

// openStore opens the configured settings store.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return s, nil
}
