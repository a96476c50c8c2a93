// ABOUTME: CLI command for per-exercise statistics.
// ABOUTME: Personal record, volume, averages, and the progression series.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats <exercise-id>",
	Short: "Show statistics for an exercise",
	Long: `Show aggregate statistics for an exercise across your whole history:
personal record, total volume (weight x reps), set and rep counts,
averages, and a per-session progression table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid exercise id: %s", args[0])
		}

		history, err := apiClient.ListSessions(cmd.Context())
		if err != nil {
			if !api.IsTransient(err) {
				return fmt.Errorf("failed to fetch history: %w", err)
			}
			history, err = cachedSessions()
			if err != nil {
				return err
			}
			color.Yellow("⚠ Service unreachable, computing from cached history")
		}

		st := stats.ForExercise(history, id)
		printStats(st)

		series := stats.Progression(history, id)
		if len(series) == 0 {
			return nil
		}
		fmt.Println("\nProgression (oldest last):")
		for _, p := range series {
			fmt.Printf("  %s  max %.1f  volume %.0f\n",
				p.Date.Format("2006-01-02"), p.MaxWeight, p.Volume)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStats(st stats.ExerciseStats) {
	if st.TimesUsed == 0 {
		fmt.Println("\nNo completed sets logged for this exercise yet.")
		return
	}

	fmt.Println()
	color.Green("Personal record: %.1f x %d (%s)",
		st.RecordWeight, st.RecordReps, st.RecordDate.Format("2006-01-02"))
	fmt.Printf("Sessions: %d (last %s)\n", st.TimesUsed, st.LastUsed.Format("2006-01-02"))
	fmt.Printf("Sets: %d  Reps: %d  Volume: %.0f\n", st.TotalSets, st.TotalReps, st.TotalVolume)
	fmt.Printf("Averages: %.1f weight, %.1f reps per set\n", st.AvgWeight, st.AvgReps)
}
