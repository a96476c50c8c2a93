// ABOUTME: Root Cobra command for gymlog CLI.
// ABOUTME: Builds the service client, session store, and file logger per invocation.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/config"
	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/store"
)

var (
	cfg          *config.Config
	apiClient    *api.Client
	sessionStore *store.Store
	logger       *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gymlog",
	Short: "Gym workout session tracker",
	Long: `Gymlog tracks gym workouts against a workout service.

WORKFLOW:

  $ gymlog template list                # Pick a workout plan
  $ gymlog start <template-id>          # Begin a session
  $ gymlog status                       # What set is next?
  $ gymlog complete <set-id> 10         # Log 10 reps on a set
  $ gymlog skip <exercise-id>           # Come back to this one later
  $ gymlog resume <exercise-id>         # Make it current again
  $ gymlog finish                       # Close the session early

The service computes every transition: completing the last set of an
exercise advances to the next one, and completing the last exercise
finishes the session on its own. 'gymlog watch' follows along live.

HISTORY AND STATS:

  $ gymlog history                      # Finished sessions, newest first
  $ gymlog stats <exercise-id>          # PR, volume, averages, progression
  $ gymlog exercise list --muscle legs  # Browse the library

MCP INTEGRATION:

  Run 'gymlog mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants.

CONFIGURATION:

  $ gymlog configure --server https://gym.example.com --token <token>

  Config lives at ~/.config/gymlog/config.json. Local cache and logs go
  under ~/.local/share/gymlog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never touch the service skip client setup
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "configure" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = logging.New(cfg.GetDataDir())
		apiClient = api.NewClient(cfg.GetServer(), cfg.Token)
		sessionStore = store.New(apiClient, logger)
		return nil
	},
}
