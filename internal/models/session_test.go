// ABOUTME: Tests for workout session models.
// ABOUTME: Covers template instantiation, lookups, and duration math.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func sessionTemplate() *WorkoutTemplate {
	return NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "pause at chest", []TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
			{Number: 2, TargetWeight: 100, TargetReps: 5},
		}).
		AddExercise(uuid.New(), "Overhead Press", "", []TemplateSet{
			{Number: 1, TargetWeight: 60, TargetReps: 8},
		})
}

func TestNewSessionFromTemplate(t *testing.T) {
	userID := uuid.New()
	tmpl := sessionTemplate()
	clockIn := time.Now()

	s := NewSessionFromTemplate(userID, tmpl, clockIn)

	if s.ID == uuid.Nil {
		t.Error("session ID not assigned")
	}
	if s.UserID != userID {
		t.Errorf("UserID = %v, want %v", s.UserID, userID)
	}
	if s.TemplateID == nil || *s.TemplateID != tmpl.ID {
		t.Errorf("TemplateID = %v, want %v", s.TemplateID, tmpl.ID)
	}
	if !s.ClockIn.Equal(clockIn) {
		t.Errorf("ClockIn = %v, want %v", s.ClockIn, clockIn)
	}
	if s.IsFinished {
		t.Error("new session marked finished")
	}
	if len(s.Exercises) != 2 {
		t.Fatalf("len(Exercises) = %d, want 2", len(s.Exercises))
	}

	first := s.Exercises[0]
	if first.Status != StatusInProgress {
		t.Errorf("first exercise status = %q, want %q", first.Status, StatusInProgress)
	}
	if first.Name != "Bench Press" {
		t.Errorf("first exercise name = %q, want %q", first.Name, "Bench Press")
	}
	if first.Notes != "pause at chest" {
		t.Errorf("first exercise notes = %q, want %q", first.Notes, "pause at chest")
	}
	if len(first.Sets) != 2 {
		t.Fatalf("first exercise has %d sets, want 2", len(first.Sets))
	}
	for _, set := range first.Sets {
		if set.IsCompleted || set.ActualWeight != nil || set.ActualReps != nil {
			t.Errorf("set %d carries actuals on a fresh session", set.Number)
		}
	}
	if first.Sets[0].TargetWeight != 100 || first.Sets[0].TargetReps != 5 {
		t.Errorf("set targets not copied: %+v", first.Sets[0])
	}

	second := s.Exercises[1]
	if second.Status != StatusNotStarted {
		t.Errorf("second exercise status = %q, want %q", second.Status, StatusNotStarted)
	}
	if second.OrderIndex != 1 {
		t.Errorf("second OrderIndex = %d, want 1", second.OrderIndex)
	}
}

func TestFindExercise(t *testing.T) {
	s := NewSessionFromTemplate(uuid.New(), sessionTemplate(), time.Now())

	ex := s.FindExercise(s.Exercises[1].ID)
	if ex == nil || ex.Name != "Overhead Press" {
		t.Errorf("FindExercise returned %v", ex)
	}
	if s.FindExercise(uuid.New()) != nil {
		t.Error("FindExercise found an unknown ID")
	}
}

func TestFindSet(t *testing.T) {
	s := NewSessionFromTemplate(uuid.New(), sessionTemplate(), time.Now())
	want := s.Exercises[0].Sets[1]

	ex, set := s.FindSet(want.ID)
	if ex == nil || set == nil {
		t.Fatal("FindSet returned nil for a known set")
	}
	if ex.Name != "Bench Press" {
		t.Errorf("owning exercise = %q, want %q", ex.Name, "Bench Press")
	}
	if set.Number != 2 {
		t.Errorf("set number = %d, want 2", set.Number)
	}

	ex, set = s.FindSet(uuid.New())
	if ex != nil || set != nil {
		t.Error("FindSet found an unknown ID")
	}
}

func TestCompletedSetCount(t *testing.T) {
	s := NewSessionFromTemplate(uuid.New(), sessionTemplate(), time.Now())
	ex := &s.Exercises[0]

	if ex.CompletedSetCount() != 0 {
		t.Errorf("CompletedSetCount() = %d, want 0", ex.CompletedSetCount())
	}
	if ex.AllSetsCompleted() {
		t.Error("AllSetsCompleted() true on fresh exercise")
	}

	ex.Sets[0].IsCompleted = true
	if ex.CompletedSetCount() != 1 {
		t.Errorf("CompletedSetCount() = %d, want 1", ex.CompletedSetCount())
	}

	ex.Sets[1].IsCompleted = true
	if !ex.AllSetsCompleted() {
		t.Error("AllSetsCompleted() false with every set completed")
	}
}

func TestDurationMinutes(t *testing.T) {
	clockIn := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	s := &WorkoutSession{ClockIn: clockIn}

	now := clockIn.Add(45*time.Minute + 30*time.Second)
	if got := s.DurationMinutes(now); got != 45 {
		t.Errorf("DurationMinutes() = %d, want 45", got)
	}

	// Frozen once clocked out, regardless of now.
	clockOut := clockIn.Add(62 * time.Minute)
	s.ClockOut = &clockOut
	if got := s.DurationMinutes(now.Add(24 * time.Hour)); got != 62 {
		t.Errorf("DurationMinutes() after clock-out = %d, want 62", got)
	}

	// Clock skew never yields negative durations.
	s.ClockOut = nil
	if got := s.DurationMinutes(clockIn.Add(-time.Minute)); got != 0 {
		t.Errorf("DurationMinutes() with now before clock-in = %d, want 0", got)
	}
}
