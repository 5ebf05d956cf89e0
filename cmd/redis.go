package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"yanoback/cache"
	"yanoback/config"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check durable store connectivity",
	Long:  `Connects to the configured Redis instance and verifies it responds.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("configuration invalid: %v", err)
		}
		if cfg.LocalDevelopment() {
			fmt.Println("REDIS_HOST is not set: running in local development mode, no durable store to check.")
			return
		}

		fmt.Printf("Checking Redis at %s (db %d)...\n", cfg.RedisAddr(), cfg.RedisDB)
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Redis check failed: %v", err)
		}
		defer client.Close()
		fmt.Println("Redis connection OK.")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
