// ABOUTME: CLI commands for browsing the exercise library.
// ABOUTME: Read-through cached so the library stays browsable offline.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/cache"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/stats"
)

var exerciseMuscle string

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Browse the exercise library",
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exerciseMuscle != "" && !models.IsValidMuscleGroup(exerciseMuscle) {
			return fmt.Errorf("unknown muscle group: %s (valid: %v)", exerciseMuscle, models.AllMuscleGroups)
		}

		exercises, err := apiClient.ListExercises(cmd.Context(), exerciseMuscle)
		if err != nil {
			if !api.IsTransient(err) {
				return fmt.Errorf("failed to list exercises: %w", err)
			}
			// Service unreachable; fall back to the local cache
			exercises, err = cachedExercises(exerciseMuscle)
			if err != nil {
				return err
			}
			color.Yellow("⚠ Service unreachable, showing cached library")
		} else {
			cacheExercises(exercises)
		}

		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, ex := range exercises {
			active := ""
			if !ex.IsActive {
				active = faint.Sprint(" (retired)")
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(ex.ID.String()[:8]),
				padRight(string(ex.MuscleGroup), 10),
				ex.Name, active)
		}
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <exercise-id>",
	Short: "Show an exercise with usage statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid exercise id: %s", args[0])
		}

		ex, err := apiClient.GetExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}

		fmt.Printf("Exercise: %s\n", ex.Name)
		fmt.Printf("Muscle group: %s\n", ex.MuscleGroup)
		if ex.Description != "" {
			fmt.Printf("Description: %s\n", ex.Description)
		}
		if ex.MediaURL != nil {
			fmt.Printf("Demo: %s\n", *ex.MediaURL)
		}

		history, err := apiClient.ListSessions(cmd.Context())
		if err != nil {
			color.Yellow("⚠ Could not fetch history for statistics: %v", err)
			return nil
		}
		printStats(stats.ForExercise(history, id))
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().StringVarP(&exerciseMuscle, "muscle", "m", "", "filter by muscle group")

	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseShowCmd)
	rootCmd.AddCommand(exerciseCmd)
}

// cacheExercises best-effort stores the library locally.
func cacheExercises(exercises []*models.Exercise) {
	c, err := cache.Open(cache.DefaultDir(cfg.GetDataDir()))
	if err != nil {
		logger.WithError(err).Warn("open cache")
		return
	}
	defer c.Close()
	if err := c.PutExercises(exercises); err != nil {
		logger.WithError(err).Warn("cache exercises")
	}
}

// cachedExercises reads the library from the local cache.
func cachedExercises(muscle string) ([]*models.Exercise, error) {
	c, err := cache.Open(cache.DefaultDir(cfg.GetDataDir()))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()
	exercises, err := c.Exercises()
	if err != nil {
		return nil, err
	}
	if muscle == "" {
		return exercises, nil
	}
	var filtered []*models.Exercise
	for _, ex := range exercises {
		if string(ex.MuscleGroup) == muscle {
			filtered = append(filtered, ex)
		}
	}
	return filtered, nil
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
