// ABOUTME: Workout session models: the live document the backend owns.
// ABOUTME: Sessions are frozen snapshots of a template, mutated only by the server.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseStatus tracks where a session exercise is in its lifecycle.
type ExerciseStatus string

const (
	StatusNotStarted ExerciseStatus = "not_started"
	StatusInProgress ExerciseStatus = "in_progress"
	StatusFinished   ExerciseStatus = "finished"
)

// WorkoutSession is one concrete, time-bound performance of a workout.
// The backend is the sole authority over its transitions; the client
// replaces its copy wholesale with each server response.
type WorkoutSession struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	TemplateID *uuid.UUID        `json:"template_id,omitempty"` // nil for custom sessions
	ClockIn    time.Time         `json:"clock_in"`
	ClockOut   *time.Time        `json:"clock_out,omitempty"`
	IsFinished bool              `json:"is_finished"`
	Exercises  []SessionExercise `json:"exercises"`
}

// SessionExercise is one ordered exercise within a session.
type SessionExercise struct {
	ID         uuid.UUID      `json:"id"`
	ExerciseID uuid.UUID      `json:"exercise_id"`
	Name       string         `json:"name"` // Denormalized for display
	OrderIndex int            `json:"order_index"`
	Status     ExerciseStatus `json:"status"`
	Notes      string         `json:"notes,omitempty"`
	Sets       []SessionSet   `json:"sets"`
}

// SessionSet is one unit of work. Target values come from the template;
// actual values are recorded on completion and immutable afterwards.
type SessionSet struct {
	ID           uuid.UUID `json:"id"`
	Number       int       `json:"number"`
	TargetWeight float64   `json:"target_weight"`
	TargetReps   int       `json:"target_reps"`
	ActualWeight *float64  `json:"actual_weight,omitempty"`
	ActualReps   *int      `json:"actual_reps,omitempty"`
	IsCompleted  bool      `json:"is_completed"`
}

// DurationMinutes returns the session length in whole minutes. For an
// unfinished session it measures against now.
func (s *WorkoutSession) DurationMinutes(now time.Time) int {
	end := now
	if s.ClockOut != nil {
		end = *s.ClockOut
	}
	d := end.Sub(s.ClockIn)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// FindExercise returns the session exercise with the given ID, or nil.
func (s *WorkoutSession) FindExercise(id uuid.UUID) *SessionExercise {
	for i := range s.Exercises {
		if s.Exercises[i].ID == id {
			return &s.Exercises[i]
		}
	}
	return nil
}

// FindSet returns the set with the given ID and its owning exercise, or nils.
func (s *WorkoutSession) FindSet(setID uuid.UUID) (*SessionExercise, *SessionSet) {
	for i := range s.Exercises {
		for j := range s.Exercises[i].Sets {
			if s.Exercises[i].Sets[j].ID == setID {
				return &s.Exercises[i], &s.Exercises[i].Sets[j]
			}
		}
	}
	return nil, nil
}

// CompletedSetCount returns how many of the exercise's sets are completed.
func (e *SessionExercise) CompletedSetCount() int {
	n := 0
	for _, s := range e.Sets {
		if s.IsCompleted {
			n++
		}
	}
	return n
}

// AllSetsCompleted reports whether every set of the exercise is completed.
func (e *SessionExercise) AllSetsCompleted() bool {
	return e.CompletedSetCount() == len(e.Sets)
}

// NewSessionFromTemplate deep-copies a template into a fresh session: the
// first exercise starts in_progress, the rest not_started, all sets reset.
// The backend performs this on start; the same shape is used by test fixtures.
func NewSessionFromTemplate(userID uuid.UUID, t *WorkoutTemplate, clockIn time.Time) *WorkoutSession {
	tid := t.ID
	session := &WorkoutSession{
		ID:         uuid.New(),
		UserID:     userID,
		TemplateID: &tid,
		ClockIn:    clockIn,
	}
	for i, te := range t.Exercises {
		status := StatusNotStarted
		if i == 0 {
			status = StatusInProgress
		}
		se := SessionExercise{
			ID:         uuid.New(),
			ExerciseID: te.ExerciseID,
			Name:       te.Name,
			OrderIndex: i,
			Status:     status,
			Notes:      te.Notes,
		}
		for _, ts := range te.Sets {
			se.Sets = append(se.Sets, SessionSet{
				ID:           uuid.New(),
				Number:       ts.Number,
				TargetWeight: ts.TargetWeight,
				TargetReps:   ts.TargetReps,
			})
		}
		session.Exercises = append(session.Exercises, se)
	}
	return session
}
