// cadence plans a week of simulated community activity: when posts go
// out, which community each targets, which personas write and react, and
// whether the generated batch passes the organic-quality bar.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cadence/internal/config"
	"cadence/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	dbPath    string
	ownerID   string

	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "cadence - constraint-driven weekly activity planner",
	Long: `cadence plans a week of simulated social activity: it allocates
time slots, matches communities and topics, casts personas under
anti-collusion rules, generates thread content through a text backend,
and scores the batch with a multi-pass quality engine.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(filepath.Join(workspace, ".cadence", "config.yaml"))
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Store.DatabasePath = dbPath
		}
		if err := logging.Initialize(workspace, cfg.Logging.Settings()); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default <workspace>/.cadence/cadence.db)")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "default", "owning entity id")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// databasePath resolves the effective database location.
func databasePath() string {
	if dbPath != "" {
		return dbPath
	}
	if filepath.IsAbs(cfg.Store.DatabasePath) {
		return cfg.Store.DatabasePath
	}
	return filepath.Join(workspace, cfg.Store.DatabasePath)
}
