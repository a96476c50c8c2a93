// ABOUTME: CLI commands for reviewing finished workout sessions.
// ABOUTME: Read-through cached so history stays readable offline.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/cache"
	"github.com/harperreed/gymlog/internal/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "List finished workout sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := apiClient.ListSessions(cmd.Context())
		if err != nil {
			if !api.IsTransient(err) {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			sessions, err = cachedSessions()
			if err != nil {
				return err
			}
			color.Yellow("⚠ Service unreachable, showing cached history")
		} else {
			cacheSessions(sessions)
		}

		if len(sessions) == 0 {
			fmt.Println("No finished workouts yet.")
			return nil
		}
		if len(sessions) > historyLimit {
			sessions = sessions[:historyLimit]
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			finished := 0
			for _, ex := range s.Exercises {
				if ex.Status == models.StatusFinished {
					finished++
				}
			}
			fmt.Printf("%s %s %s %d/%d exercises, %d min\n",
				faint.Sprint(s.ID.String()[:8]),
				s.ClockIn.Format("2006-01-02 15:04"),
				padRight(sessionLabel(s), 14),
				finished, len(s.Exercises),
				s.DurationMinutes(time.Now()))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one session set by set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id: %s", args[0])
		}

		session, err := apiClient.GetSession(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		fmt.Printf("Session: %s\n", session.ID.String()[:8])
		fmt.Printf("Started: %s\n", session.ClockIn.Format("2006-01-02 15:04"))
		if session.ClockOut != nil {
			fmt.Printf("Duration: %d min\n", session.DurationMinutes(time.Now()))
		}

		faint := color.New(color.Faint)
		for _, ex := range session.Exercises {
			fmt.Printf("\n%s (%s)\n", ex.Name, ex.Status)
			for _, set := range ex.Sets {
				if set.IsCompleted && set.ActualReps != nil && set.ActualWeight != nil {
					fmt.Printf("  set %d: %.1f x %d\n", set.Number, *set.ActualWeight, *set.ActualReps)
				} else {
					fmt.Printf("  set %d: %s\n", set.Number, faint.Sprintf("%.1f x %d (not done)", set.TargetWeight, set.TargetReps))
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max number of results")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func sessionLabel(s *models.WorkoutSession) string {
	if s.TemplateID == nil {
		return "custom"
	}
	return s.TemplateID.String()[:8]
}

// cacheSessions best-effort stores finished sessions locally.
func cacheSessions(sessions []*models.WorkoutSession) {
	c, err := cache.Open(cache.DefaultDir(cfg.GetDataDir()))
	if err != nil {
		logger.WithError(err).Warn("open cache")
		return
	}
	defer c.Close()
	if err := c.PutSessions(sessions); err != nil {
		logger.WithError(err).Warn("cache sessions")
	}
}

// cachedSessions reads history from the local cache, newest first.
func cachedSessions() ([]*models.WorkoutSession, error) {
	c, err := cache.Open(cache.DefaultDir(cfg.GetDataDir()))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()
	sessions, err := c.Sessions()
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ClockIn.After(sessions[j].ClockIn)
	})
	return sessions, nil
}
