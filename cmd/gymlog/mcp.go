// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server communicates via stdin/stdout.

AVAILABLE TOOLS:

  start_workout     Start a session from a template
  active_session    Get the in-progress session with derived progress
  complete_set      Mark a set completed with actual reps/weight
  add_set           Append an extra set to an exercise
  skip_exercise     Skip the current exercise
  resume_exercise   Make a skipped exercise current again
  finish_workout    Finish the active session
  list_history      List finished sessions
  list_exercises    Browse the exercise library
  exercise_stats    PR, volume, and usage statistics

AVAILABLE RESOURCES:

  gymlog://session/active    Active session with progress and elapsed time
  gymlog://history/recent    Last 10 finished sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(apiClient, sessionStore)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
