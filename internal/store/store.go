// ABOUTME: In-memory session store: single source of truth for the active session.
// ABOUTME: Forwards intents to the workout service and replaces cached state wholesale.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/engine"
	"github.com/harperreed/gymlog/internal/models"
)

// Snapshot is the reactive state shape handed to subscribers and the
// presentation layer.
type Snapshot struct {
	Active  *models.WorkoutSession
	History []*models.WorkoutSession
	Loading bool
	Err     string
}

// Store caches the active session and session history. Every mutation
// validates locally, forwards to the service, and on success replaces the
// cached session with the server's response. Partial state is never merged
// in: the server alone computes auto-advance and auto-finish.
//
// Store is an injectable instance, not a process-wide singleton, so tests
// can run isolated copies side by side.
type Store struct {
	client *api.Client
	log    logrus.FieldLogger

	mu      sync.Mutex
	active  *models.WorkoutSession
	history []*models.WorkoutSession
	loading bool
	lastErr string
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a Store backed by the given service client.
func New(client *api.Client, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		client: client,
		log:    log,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Active returns the cached active session, or nil.
func (s *Store) Active() *models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// History returns the cached session history, newest first.
func (s *Store) History() []*models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

// Subscribe registers a callback invoked on every state change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Active:  s.active,
		History: s.history,
		Loading: s.loading,
		Err:     s.lastErr,
	}
}

// notifyLocked fans the current snapshot out to subscribers. Callbacks run
// outside the lock.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
	s.mu.Lock()
}

// Tick re-notifies subscribers without changing state, so elapsed-time
// displays can recompute. No-op when no session is active.
func (s *Store) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.notifyLocked()
}

// begin acquires the mutual-exclusion gate that keeps two mutating requests
// from racing against the same session.
func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return api.Conflictf("another operation is still in progress")
	}
	s.loading = true
	s.lastErr = ""
	s.notifyLocked()
	return nil
}

// finish releases the gate and applies the outcome of a mutation. On
// success the server's session replaces the cache; a finished session
// clears the active slot and moves to the history front. On failure the
// prior cached state stays untouched.
func (s *Store) finish(session *models.WorkoutSession, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		s.notifyLocked()
		return
	}
	if session != nil {
		if session.IsFinished {
			s.active = nil
			s.history = append([]*models.WorkoutSession{session}, s.history...)
			s.log.WithField("session_id", session.ID).Info("session finished")
		} else {
			s.active = session
		}
	}
	s.notifyLocked()
}

// Refresh re-fetches the active session. A not-found answer is the normal
// "nothing in progress" state, which also covers the server auto-finishing
// a session the client last saw open.
func (s *Store) Refresh(ctx context.Context) error {
	session, err := s.client.ActiveSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.active = session
	case api.IsNotFound(err):
		if s.active != nil {
			s.log.WithField("session_id", s.active.ID).Info("active session closed server-side")
		}
		s.active = nil
	default:
		s.lastErr = err.Error()
		s.notifyLocked()
		return err
	}
	s.lastErr = ""
	s.notifyLocked()
	return nil
}

// LoadHistory fetches the user's session history, newest first.
func (s *Store) LoadHistory(ctx context.Context) error {
	sessions, err := s.client.ListSessions(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		s.notifyLocked()
		return err
	}
	s.history = sessions
	s.notifyLocked()
	return nil
}

// Start begins a new session from a template. Rejected with a conflict when
// the cached state already shows an unfinished session; the server enforces
// the same rule authoritatively.
func (s *Store) Start(ctx context.Context, templateID uuid.UUID) (*models.WorkoutSession, error) {
	s.mu.Lock()
	if s.active != nil && !s.active.IsFinished {
		s.mu.Unlock()
		return nil, api.Conflictf("a session is already in progress")
	}
	s.mu.Unlock()

	if err := s.begin(); err != nil {
		return nil, err
	}
	session, err := s.client.StartSession(ctx, templateID)
	s.finish(session, err)
	return session, err
}

// CompleteSet records actual reps (and optional weight) for a set. A failed
// call other than local validation triggers a refresh: the server may have
// applied the cascade even though the response was lost.
func (s *Store) CompleteSet(ctx context.Context, setID uuid.UUID, actualReps int, actualWeight *float64) (*models.WorkoutSession, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if err := engine.ValidateCompleteSet(active, setID, actualReps, actualWeight); err != nil {
		return nil, err
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	session, err := s.client.CompleteSet(ctx, active.ID, setID, actualReps, actualWeight)
	s.finish(session, err)
	if err != nil {
		s.resync(ctx)
	}
	return session, err
}

// AddSet appends an extra set beyond the template's plan.
func (s *Store) AddSet(ctx context.Context, exerciseID uuid.UUID, weight float64, reps int) (*models.WorkoutSession, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if err := engine.ValidateAddSet(active, exerciseID, weight, reps); err != nil {
		return nil, err
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	session, err := s.client.AddSet(ctx, active.ID, exerciseID, weight, reps)
	s.finish(session, err)
	return session, err
}

// Skip moves the current exercise out of the active slot without completing
// its sets.
func (s *Store) Skip(ctx context.Context, exerciseID uuid.UUID) (*models.WorkoutSession, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if err := engine.ValidateSkip(active, exerciseID); err != nil {
		return nil, err
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	session, err := s.client.SkipExercise(ctx, active.ID, exerciseID)
	s.finish(session, err)
	return session, err
}

// Resume promotes a skipped or not-yet-reached exercise to in_progress,
// demoting whichever exercise currently holds the slot.
func (s *Store) Resume(ctx context.Context, exerciseID uuid.UUID) (*models.WorkoutSession, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if err := engine.ValidateResume(active, exerciseID); err != nil {
		return nil, err
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	session, err := s.client.ResumeExercise(ctx, active.ID, exerciseID)
	s.finish(session, err)
	return session, err
}

// Finish explicitly closes the active session. A conflict means the server
// already considers it finished; the follow-up resync settles the cache.
func (s *Store) Finish(ctx context.Context) (*models.WorkoutSession, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if err := engine.ValidateFinish(active); err != nil {
		return nil, err
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	session, err := s.client.FinishSession(ctx, active.ID)
	s.finish(session, err)
	if err != nil {
		s.resync(ctx)
	}
	return session, err
}

// resync re-fetches after an ambiguous failure. Errors here are logged,
// not surfaced: the next poll or user action will try again.
func (s *Store) resync(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("resync after failed mutation")
	}
}
