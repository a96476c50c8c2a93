// ABOUTME: CLI command writing server address and auth token to the config file.
// ABOUTME: The auth service issues tokens; gymlog only stores and presents them.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/config"
)

var (
	configureServer  string
	configureToken   string
	configureDataDir string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure the workout service connection",
	Long: `Configure gymlog's connection to the workout service.

Examples:
  gymlog configure --server https://gym.example.com --token abc123
  gymlog configure --data-dir ~/gym-data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		changed := false
		if cmd.Flags().Changed("server") {
			c.Server = configureServer
			changed = true
		}
		if cmd.Flags().Changed("token") {
			c.Token = configureToken
			changed = true
		}
		if cmd.Flags().Changed("data-dir") {
			c.DataDir = configureDataDir
			changed = true
		}

		if !changed {
			fmt.Printf("Server:   %s\n", c.GetServer())
			fmt.Printf("Data dir: %s\n", c.GetDataDir())
			if c.Token == "" {
				color.Yellow("⚠ No token configured. Run with --token.")
			}
			return nil
		}

		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Config saved to %s", config.GetConfigPath())
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVar(&configureServer, "server", "", "workout service base URL")
	configureCmd.Flags().StringVar(&configureToken, "token", "", "auth token")
	configureCmd.Flags().StringVar(&configureDataDir, "data-dir", "", "local data directory")
	rootCmd.AddCommand(configureCmd)
}
