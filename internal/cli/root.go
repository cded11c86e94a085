package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebmor/drivecat/internal/config"
	"github.com/calebmor/drivecat/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "drivecat",
	Short: "Scan Google Drive and build a CSV catalog of file metadata",
	Long: `drivecat walks a Google Drive tree, resolves the full path of every
file and writes a flat CSV catalog keyed by file identifier. Repeated
scans can update an existing catalog incrementally.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		return initLogger(cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Shutdown()
	},
}

// initLogger wires the config's log section into the global logger
func initLogger(cfg *config.Config) error {
	logConfig := logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		Outputs: []logger.OutputConfig{
			{Type: logger.OutputStderr},
		},
	}

	if cfg.Log.File != "" {
		logConfig.Outputs = append(logConfig.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		logConfig.File = logger.FileConfig{
			Enabled:    true,
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			MaxBackups: cfg.Log.MaxBackups,
		}
	}

	return logger.Init(logConfig)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context, so an interrupt
// cancels an in-flight scan
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ., ~/.config/drivecat)")
}
