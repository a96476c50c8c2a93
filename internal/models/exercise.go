// ABOUTME: Exercise reference data model with muscle group taxonomy.
// ABOUTME: Exercises are immutable library entries consumed by templates and sessions.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MuscleGroup identifies the primary muscle group an exercise targets.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleBiceps    MuscleGroup = "biceps"
	MuscleTriceps   MuscleGroup = "triceps"
	MuscleLegs      MuscleGroup = "legs"
	MuscleGlutes    MuscleGroup = "glutes"
	MuscleCore      MuscleGroup = "core"
	MuscleCardio    MuscleGroup = "cardio"
	MuscleFullBody  MuscleGroup = "full_body"
)

// AllMuscleGroups lists every valid muscle group.
var AllMuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleLegs, MuscleGlutes, MuscleCore, MuscleCardio, MuscleFullBody,
}

// IsValidMuscleGroup reports whether s names a known muscle group.
func IsValidMuscleGroup(s string) bool {
	for _, mg := range AllMuscleGroups {
		if string(mg) == s {
			return true
		}
	}
	return false
}

// Exercise is a library entry describing a single movement.
// Reference data from the client's perspective: served by the backend,
// never mutated here.
type Exercise struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	MediaURL    *string     `json:"media_url,omitempty"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}
