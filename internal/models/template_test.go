// ABOUTME: Tests for workout template models.
// ABOUTME: Covers builders, ordering, and validation rules.
package models

import (
	"testing"

	"github.com/google/uuid"
)

func benchSets() []TemplateSet {
	return []TemplateSet{
		{Number: 1, TargetWeight: 100, TargetReps: 5},
		{Number: 2, TargetWeight: 100, TargetReps: 5},
	}
}

func TestNewTemplate(t *testing.T) {
	userID := uuid.New()
	tmpl := NewTemplate(userID, "Push Day")

	if tmpl.ID == uuid.Nil {
		t.Error("NewTemplate() did not assign an ID")
	}
	if tmpl.UserID != userID {
		t.Errorf("UserID = %v, want %v", tmpl.UserID, userID)
	}
	if tmpl.Name != "Push Day" {
		t.Errorf("Name = %q, want %q", tmpl.Name, "Push Day")
	}
	if tmpl.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if tmpl.Description != nil {
		t.Errorf("Description = %v, want nil", *tmpl.Description)
	}
}

func TestWithDescription(t *testing.T) {
	tmpl := NewTemplate(uuid.New(), "Push Day").WithDescription("chest and triceps")
	if tmpl.Description == nil || *tmpl.Description != "chest and triceps" {
		t.Errorf("Description = %v, want %q", tmpl.Description, "chest and triceps")
	}
}

func TestAddExerciseAssignsOrder(t *testing.T) {
	tmpl := NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", benchSets()).
		AddExercise(uuid.New(), "Overhead Press", "strict form", benchSets())

	if len(tmpl.Exercises) != 2 {
		t.Fatalf("len(Exercises) = %d, want 2", len(tmpl.Exercises))
	}
	if tmpl.Exercises[0].OrderIndex != 0 {
		t.Errorf("first OrderIndex = %d, want 0", tmpl.Exercises[0].OrderIndex)
	}
	if tmpl.Exercises[1].OrderIndex != 1 {
		t.Errorf("second OrderIndex = %d, want 1", tmpl.Exercises[1].OrderIndex)
	}
	if tmpl.Exercises[1].Notes != "strict form" {
		t.Errorf("Notes = %q, want %q", tmpl.Exercises[1].Notes, "strict form")
	}
	if tmpl.Exercises[0].ID == tmpl.Exercises[1].ID {
		t.Error("exercise entries share an ID")
	}
}

func TestValidate(t *testing.T) {
	valid := NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", benchSets())
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on valid template: %v", err)
	}

	noName := NewTemplate(uuid.New(), "").
		AddExercise(uuid.New(), "Bench Press", "", benchSets())
	if err := noName.Validate(); err == nil {
		t.Error("Validate() accepted empty name")
	}

	noExercises := NewTemplate(uuid.New(), "Push Day")
	if err := noExercises.Validate(); err == nil {
		t.Error("Validate() accepted template with no exercises")
	}

	noSets := NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", nil)
	if err := noSets.Validate(); err == nil {
		t.Error("Validate() accepted exercise with no sets")
	}

	negativeWeight := NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []TemplateSet{
			{Number: 1, TargetWeight: -10, TargetReps: 5},
		})
	if err := negativeWeight.Validate(); err == nil {
		t.Error("Validate() accepted negative target weight")
	}

	zeroReps := NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 0},
		})
	if err := zeroReps.Validate(); err == nil {
		t.Error("Validate() accepted zero target reps")
	}
}

func TestValidateBodyweightExercise(t *testing.T) {
	// Zero target weight is legal: bodyweight movements.
	tmpl := NewTemplate(uuid.New(), "Core").
		AddExercise(uuid.New(), "Plank", "", []TemplateSet{
			{Number: 1, TargetWeight: 0, TargetReps: 1},
		})
	if err := tmpl.Validate(); err != nil {
		t.Errorf("Validate() rejected bodyweight exercise: %v", err)
	}
}
