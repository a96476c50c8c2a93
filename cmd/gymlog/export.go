// ABOUTME: CLI command exporting history and templates as JSON.
// ABOUTME: Writes to stdout or a file for backup and analysis elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/models"
)

var exportOutput string

// exportData is the versioned export envelope.
type exportData struct {
	Version    int                       `json:"version"`
	ExportedAt time.Time                 `json:"exported_at"`
	Templates  []*models.WorkoutTemplate `json:"templates"`
	Sessions   []*models.WorkoutSession  `json:"sessions"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export templates and session history as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := apiClient.ListTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		sessions, err := apiClient.ListSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		data, err := json.MarshalIndent(exportData{
			Version:    1,
			ExportedAt: time.Now(),
			Templates:  templates,
			Sessions:   sessions,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		color.Green("✓ Exported %d templates and %d sessions to %s",
			len(templates), len(sessions), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
