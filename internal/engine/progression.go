// ABOUTME: Session progression engine: derived view state and mutation preconditions.
// ABOUTME: Pure functions over the authoritative session document; never simulates transitions.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/models"
)

// CurrentExercise returns the unique in-progress exercise, or nil. The
// backend maintains the invariant that at most one exercise holds
// in_progress at a time.
func CurrentExercise(s *models.WorkoutSession) *models.SessionExercise {
	if s == nil {
		return nil
	}
	for i := range s.Exercises {
		if s.Exercises[i].Status == models.StatusInProgress {
			return &s.Exercises[i]
		}
	}
	return nil
}

// NextSet returns the first incomplete set of the current exercise, or nil
// when there is nothing left to do in the active slot.
func NextSet(s *models.WorkoutSession) *models.SessionSet {
	ex := CurrentExercise(s)
	if ex == nil {
		return nil
	}
	for i := range ex.Sets {
		if !ex.Sets[i].IsCompleted {
			return &ex.Sets[i]
		}
	}
	return nil
}

// FinishedExerciseCount returns how many exercises are finished.
func FinishedExerciseCount(s *models.WorkoutSession) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, ex := range s.Exercises {
		if ex.Status == models.StatusFinished {
			n++
		}
	}
	return n
}

// ProgressPercent returns finished exercises over total, 0-100.
// A session with no exercises reports 0.
func ProgressPercent(s *models.WorkoutSession) float64 {
	if s == nil || len(s.Exercises) == 0 {
		return 0
	}
	return float64(FinishedExerciseCount(s)) / float64(len(s.Exercises)) * 100
}

// Elapsed returns the time since clock-in split into whole minutes and
// remainder seconds. Once the session is clocked out the value freezes.
func Elapsed(s *models.WorkoutSession, now time.Time) (minutes, seconds int) {
	if s == nil {
		return 0, 0
	}
	end := now
	if s.ClockOut != nil {
		end = *s.ClockOut
	}
	d := end.Sub(s.ClockIn)
	if d < 0 {
		return 0, 0
	}
	total := int(d.Seconds())
	return total / 60, total % 60
}

// RemainingExercises returns the not-started exercises in order. These are
// the candidates the server may auto-advance into, and the valid targets
// for resume.
func RemainingExercises(s *models.WorkoutSession) []*models.SessionExercise {
	if s == nil {
		return nil
	}
	var out []*models.SessionExercise
	for i := range s.Exercises {
		if s.Exercises[i].Status == models.StatusNotStarted {
			out = append(out, &s.Exercises[i])
		}
	}
	return out
}

// ValidateCompleteSet checks the preconditions for completing a set before
// any network call: reps must be positive, optional weight non-negative, the
// set must exist, not already be completed, and belong to the in-progress
// exercise (or the first not-started one when nothing is active yet).
func ValidateCompleteSet(s *models.WorkoutSession, setID uuid.UUID, actualReps int, actualWeight *float64) error {
	if actualReps <= 0 {
		return api.Validationf("reps must be greater than zero")
	}
	if actualWeight != nil && *actualWeight < 0 {
		return api.Validationf("weight must not be negative")
	}
	if s == nil {
		return api.NotFoundf("no active session")
	}
	if s.IsFinished {
		return api.Conflictf("session is already finished")
	}
	ex, set := s.FindSet(setID)
	if set == nil {
		return api.NotFoundf("set %s not found in session", setID)
	}
	if set.IsCompleted {
		return api.Conflictf("set %d of %s is already completed", set.Number, ex.Name)
	}
	target := CurrentExercise(s)
	if target == nil {
		remaining := RemainingExercises(s)
		if len(remaining) > 0 {
			target = remaining[0]
		}
	}
	if target == nil || target.ID != ex.ID {
		return api.Validationf("set %d belongs to %s, which is not the current exercise", set.Number, ex.Name)
	}
	return nil
}

// ValidateAddSet checks the preconditions for appending an extra set.
func ValidateAddSet(s *models.WorkoutSession, exerciseID uuid.UUID, weight float64, reps int) error {
	if weight <= 0 {
		return api.Validationf("weight must be greater than zero")
	}
	if reps <= 0 {
		return api.Validationf("reps must be greater than zero")
	}
	if s == nil {
		return api.NotFoundf("no active session")
	}
	if s.IsFinished {
		return api.Conflictf("session is already finished")
	}
	if s.FindExercise(exerciseID) == nil {
		return api.NotFoundf("exercise %s not found in session", exerciseID)
	}
	return nil
}

// ValidateSkip checks that the exercise is the one currently in progress.
func ValidateSkip(s *models.WorkoutSession, exerciseID uuid.UUID) error {
	if s == nil {
		return api.NotFoundf("no active session")
	}
	ex := s.FindExercise(exerciseID)
	if ex == nil {
		return api.NotFoundf("exercise %s not found in session", exerciseID)
	}
	if ex.Status == models.StatusFinished {
		return api.Conflictf("%s is already finished", ex.Name)
	}
	if ex.Status != models.StatusInProgress {
		return api.Validationf("%s is not the current exercise", ex.Name)
	}
	return nil
}

// ValidateResume checks that the exercise can be promoted to in_progress.
// Completed sets on the demoted exercise are kept; nothing is lost.
func ValidateResume(s *models.WorkoutSession, exerciseID uuid.UUID) error {
	if s == nil {
		return api.NotFoundf("no active session")
	}
	ex := s.FindExercise(exerciseID)
	if ex == nil {
		return api.NotFoundf("exercise %s not found in session", exerciseID)
	}
	if ex.Status == models.StatusFinished {
		return api.Conflictf("%s is already finished", ex.Name)
	}
	if ex.Status == models.StatusInProgress {
		return api.Conflictf("%s is already the current exercise", ex.Name)
	}
	return nil
}

// ValidateFinish checks that the session is still open.
func ValidateFinish(s *models.WorkoutSession) error {
	if s == nil {
		return api.NotFoundf("no active session")
	}
	if s.IsFinished {
		return api.Conflictf("session is already finished")
	}
	return nil
}
