// ABOUTME: CLI commands for workout template reference data.
// ABOUTME: list, show, create-from-file, and delete with the server's referential guard.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/models"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage workout templates",
	Long: `Workout templates are reusable plans: ordered exercises with target
sets, reps, and weight. Starting a session copies the template as a
frozen snapshot; later edits never change past or running sessions.`,
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := apiClient.ListTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates yet.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, t := range templates {
			fmt.Printf("%s %s (%d exercises)\n",
				faint.Sprint(t.ID.String()[:8]), t.Name, len(t.Exercises))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show a template's exercises and targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id: %s", args[0])
		}

		t, err := apiClient.GetTemplate(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get template: %w", err)
		}

		fmt.Printf("Template: %s\n", t.Name)
		if t.Description != nil {
			fmt.Printf("Description: %s\n", *t.Description)
		}
		for _, ex := range t.Exercises {
			fmt.Printf("\n%d. %s\n", ex.OrderIndex+1, ex.Name)
			if ex.Notes != "" {
				fmt.Printf("   Notes: %s\n", ex.Notes)
			}
			for _, set := range ex.Sets {
				fmt.Printf("   set %d: %.1f x %d\n", set.Number, set.TargetWeight, set.TargetReps)
			}
		}
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <file.json>",
	Short: "Create a template from a JSON file",
	Long: `Create a template from a JSON definition.

Example file:

  {
    "name": "Push Day",
    "exercises": [
      {
        "exercise_id": "7f4c9e1a-...",
        "name": "Bench Press",
        "sets": [
          {"number": 1, "target_weight": 60, "target_reps": 8},
          {"number": 2, "target_weight": 60, "target_reps": 8}
        ]
      }
    ]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var t models.WorkoutTemplate
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse template: %w", err)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}

		created, err := apiClient.CreateTemplate(cmd.Context(), &t)
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		color.Green("✓ Created template %s", created.Name)
		fmt.Printf("  ID: %s\n", created.ID.String()[:8])
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <template-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id: %s", args[0])
		}

		if err := apiClient.DeleteTemplate(cmd.Context(), id); err != nil {
			if api.IsConflict(err) {
				color.Yellow("⚠ Template is referenced by past sessions and cannot be deleted.")
				return nil
			}
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Green("✓ Deleted template %s", args[0])
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
