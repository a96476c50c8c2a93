// ABOUTME: Tests for the session store against the fake workout service.
// ABOUTME: Covers the full workout lifecycle, the busy gate, resync, and subscriptions.
package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/api/apitest"
	"github.com/harperreed/gymlog/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestStore(t *testing.T) (*Store, *apitest.Server, *models.WorkoutTemplate) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	tmpl := models.NewTemplate(srv.UserID(), "Push Day").
		AddExercise(uuid.New(), "Bench Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 100, TargetReps: 5},
			{Number: 2, TargetWeight: 100, TargetReps: 5},
		}).
		AddExercise(uuid.New(), "Overhead Press", "", []models.TemplateSet{
			{Number: 1, TargetWeight: 60, TargetReps: 8},
		})
	srv.SeedTemplate(tmpl)

	return New(api.NewClient(srv.URL(), ""), testLogger()), srv, tmpl
}

func TestWorkoutLifecycle(t *testing.T) {
	st, srv, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)
	require.NotNil(t, st.Active())
	assert.Equal(t, session.ID, st.Active().ID)

	// Starting again is rejected locally before any network call.
	_, err = st.Start(ctx, tmpl.ID)
	assert.True(t, api.IsConflict(err))

	// First set of the first exercise.
	weight := 102.5
	updated, err := st.CompleteSet(ctx, session.Exercises[0].Sets[0].ID, 5, &weight)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Exercises[0].CompletedSetCount())
	assert.Same(t, updated, st.Active(), "cache replaced with server response")

	// Second set finishes the exercise; the server promotes the next one.
	updated, err = st.CompleteSet(ctx, session.Exercises[0].Sets[1].ID, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, updated.Exercises[0].Status)
	assert.Equal(t, models.StatusInProgress, updated.Exercises[1].Status)

	// Last set of the last exercise: the server auto-finishes, the store
	// clears the active slot and prepends history.
	updated, err = st.CompleteSet(ctx, session.Exercises[1].Sets[0].ID, 8, nil)
	require.NoError(t, err)
	assert.True(t, updated.IsFinished)
	assert.Nil(t, st.Active())
	require.Len(t, st.History(), 1)
	assert.Equal(t, session.ID, st.History()[0].ID)
	assert.Nil(t, srv.ActiveSession())
}

func TestExplicitFinish(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	finished, err := st.Finish(ctx)
	require.NoError(t, err)
	assert.True(t, finished.IsFinished)
	assert.Nil(t, st.Active())
	require.Len(t, st.History(), 1)
	assert.Equal(t, session.ID, st.History()[0].ID)

	// A second finish fails the local precondition: nothing is active.
	_, err = st.Finish(ctx)
	assert.True(t, api.IsNotFound(err))
}

func TestSkipAndResume(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)
	benchID := session.Exercises[0].ID
	ohpID := session.Exercises[1].ID

	updated, err := st.Skip(ctx, benchID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.FindExercise(ohpID).Status)

	// Skipping the only remaining candidate back and forth still works;
	// skipping a non-current exercise does not.
	_, err = st.Skip(ctx, benchID)
	assert.True(t, api.IsValidation(err))

	updated, err = st.Resume(ctx, benchID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.FindExercise(benchID).Status)
	assert.Equal(t, models.StatusNotStarted, updated.FindExercise(ohpID).Status)
}

func TestAddSet(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	updated, err := st.AddSet(ctx, session.Exercises[0].ID, 90, 8)
	require.NoError(t, err)
	assert.Len(t, updated.Exercises[0].Sets, 3)

	_, err = st.AddSet(ctx, session.Exercises[0].ID, 0, 8)
	assert.True(t, api.IsValidation(err))
}

func TestLocalValidationSkipsNetwork(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	// Zero reps never reaches the server and leaves the cache untouched.
	before := st.Active()
	_, err = st.CompleteSet(ctx, session.Exercises[0].Sets[0].ID, 0, nil)
	assert.True(t, api.IsValidation(err))
	assert.Same(t, before, st.Active())
	assert.False(t, st.Snapshot().Loading)
}

func TestBusyGate(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	// Simulate a request in flight.
	require.NoError(t, st.begin())

	_, err = st.CompleteSet(ctx, session.Exercises[0].Sets[0].ID, 5, nil)
	assert.True(t, api.IsConflict(err))

	st.finish(nil, nil)
	_, err = st.CompleteSet(ctx, session.Exercises[0].Sets[0].ID, 5, nil)
	assert.NoError(t, err)
}

func TestConflictTriggersResync(t *testing.T) {
	st, srv, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	// The server finishes the session behind the store's back.
	other := api.NewClient(srv.URL(), "")
	_, err = other.FinishSession(ctx, session.ID)
	require.NoError(t, err)

	// The stale finish conflicts, and the follow-up resync discovers the
	// session is gone.
	_, err = st.Finish(ctx)
	assert.True(t, api.IsConflict(err))
	assert.Nil(t, st.Active())
}

func TestRefresh(t *testing.T) {
	st, srv, tmpl := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Refresh(ctx))
	assert.Nil(t, st.Active(), "nothing in progress")

	// A session started elsewhere appears on refresh.
	other := api.NewClient(srv.URL(), "")
	session, err := other.StartSession(ctx, tmpl.ID)
	require.NoError(t, err)

	require.NoError(t, st.Refresh(ctx))
	require.NotNil(t, st.Active())
	assert.Equal(t, session.ID, st.Active().ID)

	// And disappears when finished server-side.
	_, err = other.FinishSession(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, st.Refresh(ctx))
	assert.Nil(t, st.Active())
}

func TestLoadHistory(t *testing.T) {
	st, srv, tmpl := newTestStore(t)
	ctx := context.Background()

	clockIn := time.Now().Add(-24 * time.Hour)
	finished := models.NewSessionFromTemplate(srv.UserID(), tmpl, clockIn)
	clockOut := clockIn.Add(time.Hour)
	finished.IsFinished = true
	finished.ClockOut = &clockOut
	srv.SeedSession(finished)

	require.NoError(t, st.LoadHistory(ctx))
	require.Len(t, st.History(), 1)
	assert.Equal(t, finished.ID, st.History()[0].ID)
}

func TestSubscribe(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	var snaps []Snapshot
	unsubscribe := st.Subscribe(func(s Snapshot) {
		snaps = append(snaps, s)
	})

	_, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)
	require.NotEmpty(t, snaps)
	assert.True(t, snaps[0].Loading, "begin notifies with the gate held")
	last := snaps[len(snaps)-1]
	assert.False(t, last.Loading)
	assert.NotNil(t, last.Active)

	// After unsubscribing no further notifications arrive.
	n := len(snaps)
	unsubscribe()
	require.NoError(t, st.Refresh(ctx))
	assert.Len(t, snaps, n)
}

func TestTick(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	notified := 0
	st.Subscribe(func(Snapshot) { notified++ })

	// No active session: Tick is a no-op.
	st.Tick()
	assert.Equal(t, 0, notified)

	_, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)
	n := notified

	st.Tick()
	assert.Equal(t, n+1, notified)
}

func TestPollerObservesServerTransitions(t *testing.T) {
	st, srv, tmpl := newTestStore(t)
	ctx := context.Background()

	session, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	p := NewPoller(st, testLogger()).WithIntervals(10*time.Millisecond, 5*time.Millisecond)
	runDone := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(runDone)
	}()

	// Finish the session out-of-band; the poller should notice and exit.
	other := api.NewClient(srv.URL(), "")
	_, err = other.FinishSession(ctx, session.ID)
	require.NoError(t, err)

	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not exit after the session ended")
	}
	assert.Nil(t, st.Active())
}

func TestPollerStop(t *testing.T) {
	st, _, tmpl := newTestStore(t)
	ctx := context.Background()

	_, err := st.Start(ctx, tmpl.ID)
	require.NoError(t, err)

	p := NewPoller(st, testLogger()).WithIntervals(10*time.Millisecond, 5*time.Millisecond)
	go p.Run(ctx)

	// Stop waits for the loop to exit and tolerates repeat calls.
	p.Stop()
	p.Stop()
}
