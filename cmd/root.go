package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yanoback/config"
	"yanoback/logger"
	"yanoback/server"
)

var rootCmd = &cobra.Command{
	Use:   "yanoback",
	Short: "yanoback is the portfolio site backend: a caching Spotify now-playing proxy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})

		server.Start(cfg)
		return nil
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
