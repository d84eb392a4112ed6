package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gravitydb/gravity/database/escaper"
	"github.com/gravitydb/gravity/dlog"
	"github.com/gravitydb/gravity/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *dlog.Logger

	// Persistent flags
	cfgFile string
	dialect string
	verbose int
)

var rootCmd = &cobra.Command{
	Use:   "gravity",
	Short: "Incremental SQL DML statement builder",
	Long: `gravity - incremental SQL DML statement builder

Gravity assembles SELECT, UPDATE, DELETE, INSERT and REPLACE statements from
YAML query documents, using the same clause accumulation and grouping rules
as the database/dmlbuilder package.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		if dialect != "" {
			if _, err := escaper.ForDialect(dialect); err != nil {
				return cli.ConfigError("invalid --dialect", err)
			}
			cfg.Dialect = dialect
		}

		console := dlog.NewConsole(
			cmd.ErrOrStderr(),
			cfg.Log.BufferSize,
			cfg.Log.FlushInterval)
		logger = dlog.NewLogger(console, "gravity: ", verbose)
		if configPath != "" {
			logger.Debugf("using config file %s", configPath)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover gravity.yaml)")
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "", "SQL dialect for quoting: mysql or postgres (overrides config)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func closeLogger() error {
	if logger == nil {
		return nil
	}
	err := logger.Close()
	logger = nil
	return err
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		// PersistentPostRunE is skipped when RunE fails.
		_ = closeLogger()
	}
	return cli.ReportError(os.Stderr, err)
}
