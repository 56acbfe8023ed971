package cmd

import (
	"fmt"

	"lyricsync/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection used for session presence",
	Long:  `Connect to Redis with the configured settings and run a set/get/del round trip.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		fmt.Printf("Redis: %s, DB: %d\n", cfg.RedisAddr(), cfg.RedisDB)

		if err := db.ConnectRedis(cfg); err != nil {
			return err
		}
		defer db.CloseRedis()
		fmt.Println("Redis connection OK")

		if err := db.TestRedis(); err != nil {
			return fmt.Errorf("Redis round trip failed: %w", err)
		}
		fmt.Println("Redis round trip OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
