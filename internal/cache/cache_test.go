// ABOUTME: Tests for the badger-backed local cache.
// ABOUTME: Covers round trips, prefix isolation, and the finished-only session rule.
package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/gymlog/internal/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return c
}

func TestExercisesRoundTrip(t *testing.T) {
	c := openTestCache(t)

	exercises := []*models.Exercise{
		{ID: uuid.New(), Name: "Bench Press", MuscleGroup: models.MuscleChest, IsActive: true},
		{ID: uuid.New(), Name: "Squat", MuscleGroup: models.MuscleLegs, IsActive: true},
	}
	if err := c.PutExercises(exercises); err != nil {
		t.Fatalf("PutExercises() failed: %v", err)
	}

	got, err := c.Exercises()
	if err != nil {
		t.Fatalf("Exercises() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Exercises()) = %d, want 2", len(got))
	}
	byID := make(map[uuid.UUID]*models.Exercise)
	for _, ex := range got {
		byID[ex.ID] = ex
	}
	for _, want := range exercises {
		ex, ok := byID[want.ID]
		if !ok {
			t.Errorf("exercise %s missing from cache", want.Name)
			continue
		}
		if ex.Name != want.Name || ex.MuscleGroup != want.MuscleGroup {
			t.Errorf("cached exercise = %+v, want %+v", ex, want)
		}
	}
}

func TestPutExercisesOverwrites(t *testing.T) {
	c := openTestCache(t)

	ex := &models.Exercise{ID: uuid.New(), Name: "Bench Press", MuscleGroup: models.MuscleChest}
	if err := c.PutExercises([]*models.Exercise{ex}); err != nil {
		t.Fatal(err)
	}

	ex.Name = "Incline Bench Press"
	if err := c.PutExercises([]*models.Exercise{ex}); err != nil {
		t.Fatal(err)
	}

	got, err := c.Exercises()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Exercises()) = %d, want 1", len(got))
	}
	if got[0].Name != "Incline Bench Press" {
		t.Errorf("Name = %q, want %q", got[0].Name, "Incline Bench Press")
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	c := openTestCache(t)

	tmpl := models.NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
		})
	if err := c.PutTemplates([]*models.WorkoutTemplate{tmpl}); err != nil {
		t.Fatalf("PutTemplates() failed: %v", err)
	}

	got, err := c.Templates()
	if err != nil {
		t.Fatalf("Templates() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Templates()) = %d, want 1", len(got))
	}
	if got[0].Name != "Push Day" {
		t.Errorf("Name = %q, want %q", got[0].Name, "Push Day")
	}
	if len(got[0].Exercises) != 1 || len(got[0].Exercises[0].Sets) != 1 {
		t.Errorf("template structure not preserved: %+v", got[0])
	}
}

func TestPutSessionsSkipsUnfinished(t *testing.T) {
	c := openTestCache(t)

	tmpl := models.NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
		})

	finished := models.NewSessionFromTemplate(uuid.New(), tmpl, time.Now().Add(-time.Hour))
	clockOut := time.Now()
	finished.IsFinished = true
	finished.ClockOut = &clockOut

	active := models.NewSessionFromTemplate(uuid.New(), tmpl, time.Now())

	if err := c.PutSessions([]*models.WorkoutSession{finished, active}); err != nil {
		t.Fatalf("PutSessions() failed: %v", err)
	}

	got, err := c.Sessions()
	if err != nil {
		t.Fatalf("Sessions() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Sessions()) = %d, want 1 (active session must not be cached)", len(got))
	}
	if got[0].ID != finished.ID {
		t.Errorf("cached session ID = %v, want %v", got[0].ID, finished.ID)
	}
}

func TestSessionByID(t *testing.T) {
	c := openTestCache(t)

	tmpl := models.NewTemplate(uuid.New(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
		})
	session := models.NewSessionFromTemplate(uuid.New(), tmpl, time.Now().Add(-time.Hour))
	clockOut := time.Now()
	session.IsFinished = true
	session.ClockOut = &clockOut

	if err := c.PutSessions([]*models.WorkoutSession{session}); err != nil {
		t.Fatal(err)
	}

	got, err := c.Session(session.ID)
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}
	if got.ID != session.ID || len(got.Exercises) != 1 {
		t.Errorf("cached session = %+v, want %+v", got, session)
	}

	if _, err := c.Session(uuid.New()); err == nil {
		t.Error("Session() with unknown ID should error")
	}
}

func TestPrefixIsolation(t *testing.T) {
	c := openTestCache(t)

	if err := c.PutExercises([]*models.Exercise{
		{ID: uuid.New(), Name: "Bench Press", MuscleGroup: models.MuscleChest},
	}); err != nil {
		t.Fatal(err)
	}

	templates, err := c.Templates()
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 0 {
		t.Errorf("Templates() returned %d entries from the exercise prefix", len(templates))
	}
	sessions, err := c.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("Sessions() returned %d entries from the exercise prefix", len(sessions))
	}
}

func TestReopenPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	c, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	ex := &models.Exercise{ID: uuid.New(), Name: "Deadlift", MuscleGroup: models.MuscleBack}
	if err := c.PutExercises([]*models.Exercise{ex}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	got, err := c.Exercises()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Deadlift" {
		t.Errorf("cache did not survive reopen: %+v", got)
	}
}

func TestDefaultDir(t *testing.T) {
	if got := DefaultDir("/data/gymlog"); got != filepath.Join("/data/gymlog", "cache") {
		t.Errorf("DefaultDir() = %q", got)
	}
}
