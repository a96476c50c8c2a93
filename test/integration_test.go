// ABOUTME: End-to-end integration test against the fake workout service.
// ABOUTME: Drives a whole workout through the store and checks stats and cache afterwards.
package test

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/api/apitest"
	"github.com/harperreed/gymlog/internal/cache"
	"github.com/harperreed/gymlog/internal/engine"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/stats"
	"github.com/harperreed/gymlog/internal/store"
)

func TestFullWorkoutFlow(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	benchID := uuid.New()
	squatID := uuid.New()
	srv.SeedExercise(&models.Exercise{ID: benchID, Name: "Bench Press", MuscleGroup: models.MuscleChest, IsActive: true})
	srv.SeedExercise(&models.Exercise{ID: squatID, Name: "Squat", MuscleGroup: models.MuscleLegs, IsActive: true})

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	client := api.NewClient(srv.URL(), "")
	st := store.New(client, log)
	ctx := context.Background()

	// Author a template through the API, the way the CLI does.
	tmpl, err := client.CreateTemplate(ctx, models.NewTemplate(uuid.Nil, "Full Body").
		AddExercise(benchID, "Bench Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
			{Number: 2, TargetWeight: 110, TargetReps: 3},
		}).
		AddExercise(squatID, "Squat", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 140, TargetReps: 5},
		}))
	require.NoError(t, err)

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, session.Exercises, 2)

	// Work through every set; the engine tells us which one is next.
	for {
		active := st.Active()
		if active == nil {
			break
		}
		set := engine.NextSet(active)
		require.NotNil(t, set, "active session with no next set")
		_, err := st.CompleteSet(ctx, set.ID, set.TargetReps, nil)
		require.NoError(t, err)
	}

	// The last completion auto-finished the session server-side.
	require.Len(t, st.History(), 1)
	finished := st.History()[0]
	assert.True(t, finished.IsFinished)
	require.NotNil(t, finished.ClockOut)
	assert.Equal(t, float64(100), engine.ProgressPercent(finished))

	history, err := client.ListSessions(ctx)
	require.NoError(t, err)

	// Stats over the freshly written history.
	benchStats := stats.ForExercise(history, benchID)
	assert.Equal(t, float64(110), benchStats.RecordWeight)
	assert.Equal(t, 3, benchStats.RecordReps)
	assert.Equal(t, 2, benchStats.TotalSets)
	assert.Equal(t, 8, benchStats.TotalReps)
	assert.Equal(t, float64(830), benchStats.TotalVolume)
	assert.Equal(t, 1, benchStats.TimesUsed)

	series := stats.Progression(history, squatID)
	require.Len(t, series, 1)
	assert.Equal(t, float64(140), series[0].MaxWeight)
	assert.Equal(t, float64(700), series[0].Volume)

	// Cache the history the way the CLI does after a successful fetch, then
	// read it back the way the offline path does.
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.PutSessions(history))
	cached, err := c.Sessions()
	require.NoError(t, err)
	sort.Slice(cached, func(i, j int) bool { return cached[i].ClockIn.After(cached[j].ClockIn) })
	require.Len(t, cached, 1)

	offlineStats := stats.ForExercise(cached, benchID)
	assert.Equal(t, benchStats.TotalVolume, offlineStats.TotalVolume)
	assert.Equal(t, benchStats.RecordWeight, offlineStats.RecordWeight)
}

func TestSkipThenReturnFlow(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	st := store.New(api.NewClient(srv.URL(), ""), log)
	ctx := context.Background()

	tmpl := models.NewTemplate(srv.UserID(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
		}).
		AddExercise(uuid.New(), "Overhead Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 60, TargetReps: 8},
		})
	srv.SeedTemplate(tmpl)

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)
	benchID := session.Exercises[0].ID

	// Bench is taken; skip to the press and finish its set.
	updated, err := st.Skip(ctx, benchID)
	require.NoError(t, err)
	ohp := engine.CurrentExercise(updated)
	require.NotNil(t, ohp)
	assert.Equal(t, "Overhead Press", ohp.Name)

	updated, err = st.CompleteSet(ctx, ohp.Sets[0].ID, 8, nil)
	require.NoError(t, err)

	// With the press finished the server circles back to the skipped bench.
	current := engine.CurrentExercise(updated)
	require.NotNil(t, current)
	assert.Equal(t, "Bench Press", current.Name)

	// Completing it ends the session.
	updated, err = st.CompleteSet(ctx, current.Sets[0].ID, 5, nil)
	require.NoError(t, err)
	assert.True(t, updated.IsFinished)
	assert.Nil(t, st.Active())
}

func TestElapsedClockFreezesAtFinish(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	clockIn := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	now := clockIn
	srv.SetNow(func() time.Time { return now })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	st := store.New(api.NewClient(srv.URL(), ""), log)
	ctx := context.Background()

	tmpl := models.NewTemplate(srv.UserID(), "Quick").
		AddExercise(uuid.New(), "Plank", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 0, TargetReps: 1},
		})
	srv.SeedTemplate(tmpl)

	_, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	now = clockIn.Add(42 * time.Minute)
	finished, err := st.Finish(ctx)
	require.NoError(t, err)

	m, _ := engine.Elapsed(finished, now.Add(3*time.Hour))
	assert.Equal(t, 42, m, "elapsed time frozen at clock-out")
	assert.Equal(t, 42, finished.DurationMinutes(now.Add(3*time.Hour)))
}
