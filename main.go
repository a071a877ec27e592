package main

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/farmfresh-api/config"
	"github.com/junaidrashid-git/farmfresh-api/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg      *config.Config
	zlog     *zap.Logger
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "farmfresh",
	Short:         "Farm-to-table marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if zlog, err = logger.New(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if zlog != nil {
			zlog.Error("command failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
