// ABOUTME: Workout template models with target sets and ordering.
// ABOUTME: Templates are reusable plans; sessions snapshot them at start time.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkoutTemplate is a reusable, user-authored workout plan. The exercise
// order is significant: it defines the order sessions progress through.
type WorkoutTemplate struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"user_id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Exercises   []TemplateExercise `json:"exercises"`
	CreatedAt   time.Time          `json:"created_at"`
}

// TemplateExercise is one ordered entry in a template.
type TemplateExercise struct {
	ID         uuid.UUID     `json:"id"`
	ExerciseID uuid.UUID     `json:"exercise_id"`
	Name       string        `json:"name"` // Denormalized for display
	OrderIndex int           `json:"order_index"`
	Notes      string        `json:"notes,omitempty"`
	Sets       []TemplateSet `json:"sets"`
}

// TemplateSet is a planned set: target weight and reps.
type TemplateSet struct {
	Number       int     `json:"number"`
	TargetWeight float64 `json:"target_weight"`
	TargetReps   int     `json:"target_reps"`
}

// NewTemplate creates an empty template owned by the given user.
func NewTemplate(userID uuid.UUID, name string) *WorkoutTemplate {
	return &WorkoutTemplate{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// WithDescription sets the template description.
func (t *WorkoutTemplate) WithDescription(desc string) *WorkoutTemplate {
	t.Description = &desc
	return t
}

// AddExercise appends an exercise with the given target sets, assigning the
// next order index.
func (t *WorkoutTemplate) AddExercise(exerciseID uuid.UUID, name, notes string, sets []TemplateSet) *WorkoutTemplate {
	t.Exercises = append(t.Exercises, TemplateExercise{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
		Name:       name,
		OrderIndex: len(t.Exercises),
		Notes:      notes,
		Sets:       sets,
	})
	return t
}

// Validate checks template invariants: a name, at least one exercise, at
// least one set per exercise, weight >= 0, reps >= 1.
func (t *WorkoutTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if len(t.Exercises) == 0 {
		return fmt.Errorf("template needs at least one exercise")
	}
	for _, ex := range t.Exercises {
		if len(ex.Sets) == 0 {
			return fmt.Errorf("exercise %q needs at least one set", ex.Name)
		}
		for _, s := range ex.Sets {
			if s.TargetWeight < 0 {
				return fmt.Errorf("exercise %q set %d: weight must be >= 0", ex.Name, s.Number)
			}
			if s.TargetReps < 1 {
				return fmt.Errorf("exercise %q set %d: reps must be >= 1", ex.Name, s.Number)
			}
		}
	}
	return nil
}
