// ABOUTME: CLI commands for driving an active workout session.
// ABOUTME: start, status, complete, add-set, skip, resume, finish, and watch.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/engine"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/store"
)

var completeWeight float64

var startCmd = &cobra.Command{
	Use:   "start <template-id>",
	Short: "Start a workout session from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id: %s", args[0])
		}

		// Surface a stale active session before the server rejects us
		_ = sessionStore.Refresh(cmd.Context())

		session, err := sessionStore.Start(cmd.Context(), templateID)
		if err != nil {
			if api.IsConflict(err) {
				color.Yellow("⚠ A session is already in progress. Run 'gymlog status'.")
				return nil
			}
			return fmt.Errorf("failed to start workout: %w", err)
		}

		color.Green("✓ Workout started (%d exercises)", len(session.Exercises))
		printSession(session)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}
		session := sessionStore.Active()
		if session == nil {
			fmt.Println("No workout in progress.")
			return nil
		}
		printSession(session)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <set-id> <reps>",
	Short: "Mark a set completed",
	Long: `Mark a set completed with the reps actually performed.

The weight defaults to the set's target; pass --weight to record what you
actually lifted. Completing the last set of an exercise advances the
session to the next exercise; completing the very last set finishes the
workout.

Examples:
  gymlog complete 4f8a12cd 10
  gymlog complete 4f8a12cd 8 --weight 52.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[1])
		}
		var weight *float64
		if cmd.Flags().Changed("weight") {
			weight = &completeWeight
		}

		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}
		setID, err := resolveSetID(sessionStore.Active(), args[0])
		if err != nil {
			return err
		}

		session, err := sessionStore.CompleteSet(cmd.Context(), setID, reps, weight)
		if err != nil {
			return fmt.Errorf("failed to complete set: %w", err)
		}

		color.Green("✓ Set completed (%d reps)", reps)
		if session.IsFinished {
			color.Green("✓ That was the last one — workout finished!")
			return nil
		}
		printSession(session)
		return nil
	},
}

var addSetCmd = &cobra.Command{
	Use:   "add-set <exercise-id> <weight> <reps>",
	Short: "Append an extra set to an exercise",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}
		exerciseID, err := resolveExerciseID(sessionStore.Active(), args[0])
		if err != nil {
			return err
		}

		if _, err := sessionStore.AddSet(cmd.Context(), exerciseID, weight, reps); err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}
		color.Green("✓ Extra set added (%.1f x %d)", weight, reps)
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip <exercise-id>",
	Short: "Skip the current exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}
		exerciseID, err := resolveExerciseID(sessionStore.Active(), args[0])
		if err != nil {
			return err
		}

		session, err := sessionStore.Skip(cmd.Context(), exerciseID)
		if err != nil {
			return fmt.Errorf("failed to skip exercise: %w", err)
		}
		color.Green("✓ Skipped — completed sets are kept")
		printSession(session)
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <exercise-id>",
	Short: "Make a skipped or upcoming exercise the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}
		exerciseID, err := resolveExerciseID(sessionStore.Active(), args[0])
		if err != nil {
			return err
		}

		session, err := sessionStore.Resume(cmd.Context(), exerciseID)
		if err != nil {
			return fmt.Errorf("failed to resume exercise: %w", err)
		}
		color.Green("✓ Resumed")
		printSession(session)
		return nil
	},
}

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Finish the active workout session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}

		session, err := sessionStore.Finish(cmd.Context())
		if err != nil {
			if api.IsConflict(err) || api.IsNotFound(err) {
				// Already closed server-side; the refresh above settled it
				color.Yellow("⚠ No open session to finish.")
				return nil
			}
			return fmt.Errorf("failed to finish workout: %w", err)
		}

		minutes := session.DurationMinutes(time.Now())
		color.Green("✓ Workout finished (%d min)", minutes)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the active session live",
	Long: `Follow the active session, refreshing from the service every 5 seconds
and updating the elapsed clock every second. Exits when the session
finishes or on Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch session: %w", err)
		}
		if sessionStore.Active() == nil {
			fmt.Println("No workout in progress.")
			return nil
		}

		unsubscribe := sessionStore.Subscribe(func(snap store.Snapshot) {
			if snap.Active == nil {
				return
			}
			minutes, seconds := engine.Elapsed(snap.Active, time.Now())
			current := "—"
			if ex := engine.CurrentExercise(snap.Active); ex != nil {
				current = ex.Name
			}
			fmt.Printf("\r%02d:%02d  %5.1f%%  %s          ",
				minutes, seconds, engine.ProgressPercent(snap.Active), current)
		})
		defer unsubscribe()

		poller := store.NewPoller(sessionStore, logger)
		done := make(chan struct{})
		go func() {
			poller.Run(cmd.Context())
			close(done)
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-done:
			fmt.Println()
			color.Green("✓ Workout finished")
		case <-sigChan:
			poller.Stop()
			fmt.Println()
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().Float64VarP(&completeWeight, "weight", "w", 0, "actual weight used")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(addSetCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(watchCmd)
}

// printSession renders the session with its derived view state.
func printSession(session *models.WorkoutSession) {
	minutes, seconds := engine.Elapsed(session, time.Now())
	fmt.Printf("\nSession %s  %02d:%02d elapsed  %.0f%% done\n",
		session.ID.String()[:8], minutes, seconds, engine.ProgressPercent(session))

	faint := color.New(color.Faint)
	for _, ex := range session.Exercises {
		marker := " "
		switch ex.Status {
		case models.StatusInProgress:
			marker = color.GreenString("▶")
		case models.StatusFinished:
			marker = faint.Sprint("✓")
		}
		fmt.Printf("%s %s %s (%d/%d sets)\n",
			marker, faint.Sprint(ex.ID.String()[:8]), ex.Name,
			ex.CompletedSetCount(), len(ex.Sets))
		if ex.Status != models.StatusInProgress {
			continue
		}
		for _, set := range ex.Sets {
			state := "  "
			if set.IsCompleted {
				state = faint.Sprint("✓ ")
			}
			fmt.Printf("    %s%s set %d: %.1f x %d\n",
				state, faint.Sprint(set.ID.String()[:8]), set.Number,
				set.TargetWeight, set.TargetReps)
		}
	}

	if next := engine.NextSet(session); next != nil {
		fmt.Printf("\nNext: set %d, %.1f x %d\n", next.Number, next.TargetWeight, next.TargetReps)
	}
}

// resolveSetID matches a full UUID or unambiguous ID prefix against the
// active session's sets.
func resolveSetID(session *models.WorkoutSession, arg string) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, fmt.Errorf("no workout in progress")
	}
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	var matches []uuid.UUID
	for _, ex := range session.Exercises {
		for _, set := range ex.Sets {
			if len(arg) >= 4 && len(set.ID.String()) >= len(arg) && set.ID.String()[:len(arg)] == arg {
				matches = append(matches, set.ID)
			}
		}
	}
	return oneMatch(matches, arg, "set")
}

// resolveExerciseID matches a full UUID or unambiguous ID prefix against
// the active session's exercises.
func resolveExerciseID(session *models.WorkoutSession, arg string) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, fmt.Errorf("no workout in progress")
	}
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	var matches []uuid.UUID
	for _, ex := range session.Exercises {
		if len(arg) >= 4 && len(ex.ID.String()) >= len(arg) && ex.ID.String()[:len(arg)] == arg {
			matches = append(matches, ex.ID)
		}
	}
	return oneMatch(matches, arg, "exercise")
}

func oneMatch(matches []uuid.UUID, arg, kind string) (uuid.UUID, error) {
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("%s not found: %s", kind, arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("ambiguous %s prefix %s: matches multiple", kind, arg)
	}
}
