// ABOUTME: In-process fake workout service for tests.
// ABOUTME: Implements the server-side progression cascade the client observes.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

// Server is an in-memory workout service behind an httptest listener. It
// enforces the same contract the production service does: one unfinished
// session per user, deep-copy at start, the complete-set cascade
// (exercise finished, next exercise promoted, session auto-finished),
// skip/resume pointer moves, finish idempotence, and the template
// referential guard.
type Server struct {
	mu        sync.Mutex
	exercises map[uuid.UUID]*models.Exercise
	templates map[uuid.UUID]*models.WorkoutTemplate
	sessions  map[uuid.UUID]*models.WorkoutSession
	active    *models.WorkoutSession
	userID    uuid.UUID
	now       func() time.Time

	httpServer *httptest.Server
}

// NewServer starts a fake service. Close it when done.
func NewServer() *Server {
	s := &Server{
		exercises: make(map[uuid.UUID]*models.Exercise),
		templates: make(map[uuid.UUID]*models.WorkoutTemplate),
		sessions:  make(map[uuid.UUID]*models.WorkoutSession),
		userID:    uuid.New(),
		now:       time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", s.handleStart)
	mux.HandleFunc("GET /api/v1/sessions", s.handleList)
	mux.HandleFunc("GET /api/v1/sessions/active", s.handleActive)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/sets/{setID}/complete", s.handleCompleteSet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/exercises/{exerciseID}/sets", s.handleAddSet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/exercises/{exerciseID}/skip", s.handleSkip)
	mux.HandleFunc("POST /api/v1/sessions/{id}/exercises/{exerciseID}/resume", s.handleResume)
	mux.HandleFunc("POST /api/v1/sessions/{id}/finish", s.handleFinish)
	mux.HandleFunc("GET /api/v1/exercises", s.handleListExercises)
	mux.HandleFunc("GET /api/v1/exercises/{id}", s.handleGetExercise)
	mux.HandleFunc("GET /api/v1/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/v1/templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("POST /api/v1/templates", s.handleCreateTemplate)
	mux.HandleFunc("DELETE /api/v1/templates/{id}", s.handleDeleteTemplate)

	s.httpServer = httptest.NewServer(mux)
	return s
}

// URL returns the base URL of the fake service.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts the listener down.
func (s *Server) Close() { s.httpServer.Close() }

// UserID returns the fixed user the fake scopes everything to.
func (s *Server) UserID() uuid.UUID { return s.userID }

// SetNow overrides the fake's clock.
func (s *Server) SetNow(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = fn
}

// SeedExercise registers a library exercise.
func (s *Server) SeedExercise(ex *models.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises[ex.ID] = ex
}

// SeedTemplate registers a template.
func (s *Server) SeedTemplate(t *models.WorkoutTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

// SeedSession injects a historical session.
func (s *Server) SeedSession(session *models.WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	if !session.IsFinished {
		s.active = session
	}
}

// ActiveSession returns the fake's current unfinished session, or nil.
func (s *Server) ActiveSession() *models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID uuid.UUID `json:"template_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && !s.active.IsFinished {
		http.Error(w, "an unfinished session already exists", http.StatusConflict)
		return
	}
	t, ok := s.templates[req.TemplateID]
	if !ok {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	session := models.NewSessionFromTemplate(s.userID, t, s.now())
	s.sessions[session.ID] = session
	s.active = session
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		http.Error(w, "no active session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.active)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.WorkoutSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.IsFinished {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ClockIn.After(out[j].ClockIn)
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFromPath(w, r)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// sessionFromPath resolves {id}; writes the error response on failure.
// Caller must hold the lock.
func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) *models.WorkoutSession {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad session id", http.StatusBadRequest)
		return nil
	}
	session, ok := s.sessions[id]
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil
	}
	return session
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActualReps   int      `json:"actual_reps"`
		ActualWeight *float64 `json:"actual_weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.ActualReps <= 0 {
		http.Error(w, "reps must be greater than zero", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFromPath(w, r)
	if session == nil {
		return
	}
	if session.IsFinished {
		http.Error(w, "session is already finished", http.StatusConflict)
		return
	}
	setID, err := uuid.Parse(r.PathValue("setID"))
	if err != nil {
		http.Error(w, "bad set id", http.StatusBadRequest)
		return
	}
	ex, set := session.FindSet(setID)
	if set == nil {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	}
	if set.IsCompleted {
		http.Error(w, "set is already completed", http.StatusConflict)
		return
	}

	set.IsCompleted = true
	set.ActualReps = &req.ActualReps
	weight := set.TargetWeight
	if req.ActualWeight != nil {
		weight = *req.ActualWeight
	}
	set.ActualWeight = &weight

	if ex.Status == models.StatusNotStarted {
		ex.Status = models.StatusInProgress
	}

	// The cascade: last set closes the exercise, the next not-started
	// exercise takes the slot, and with nothing left the session closes.
	if ex.AllSetsCompleted() {
		ex.Status = models.StatusFinished
		s.advance(session, ex.OrderIndex)
	}

	writeJSON(w, http.StatusOK, session)
}

// advance promotes the next not-started exercise in order, or finishes the
// session when none remains. Caller must hold the lock.
func (s *Server) advance(session *models.WorkoutSession, fromIndex int) {
	var next *models.SessionExercise
	for i := range session.Exercises {
		ex := &session.Exercises[i]
		if ex.Status != models.StatusNotStarted {
			continue
		}
		if ex.OrderIndex > fromIndex && (next == nil || ex.OrderIndex < next.OrderIndex) {
			next = ex
		}
	}
	if next == nil {
		// Nothing after the finished exercise; fall back to earlier
		// skipped ones before declaring the session done.
		for i := range session.Exercises {
			ex := &session.Exercises[i]
			if ex.Status == models.StatusNotStarted && (next == nil || ex.OrderIndex < next.OrderIndex) {
				next = ex
			}
		}
	}
	if next != nil {
		next.Status = models.StatusInProgress
		return
	}
	for i := range session.Exercises {
		if session.Exercises[i].Status == models.StatusInProgress {
			return
		}
	}
	s.finishSession(session)
}

// finishSession closes the session. Caller must hold the lock.
func (s *Server) finishSession(session *models.WorkoutSession) {
	now := s.now()
	session.IsFinished = true
	session.ClockOut = &now
	if s.active != nil && s.active.ID == session.ID {
		s.active = nil
	}
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetWeight float64 `json:"target_weight"`
		TargetReps   int     `json:"target_reps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.TargetWeight <= 0 || req.TargetReps <= 0 {
		http.Error(w, "weight and reps must be greater than zero", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFromPath(w, r)
	if session == nil {
		return
	}
	ex := s.exerciseFromPath(w, r, session)
	if ex == nil {
		return
	}

	ex.Sets = append(ex.Sets, models.SessionSet{
		ID:           uuid.New(),
		Number:       len(ex.Sets) + 1,
		TargetWeight: req.TargetWeight,
		TargetReps:   req.TargetReps,
	})
	// An extra set reopens a finished exercise.
	if ex.Status == models.StatusFinished {
		ex.Status = models.StatusInProgress
		for i := range session.Exercises {
			other := &session.Exercises[i]
			if other.ID != ex.ID && other.Status == models.StatusInProgress {
				other.Status = models.StatusNotStarted
			}
		}
	}
	writeJSON(w, http.StatusOK, session)
}

// exerciseFromPath resolves {exerciseID}; writes the error response on
// failure. Caller must hold the lock.
func (s *Server) exerciseFromPath(w http.ResponseWriter, r *http.Request, session *models.WorkoutSession) *models.SessionExercise {
	id, err := uuid.Parse(r.PathValue("exerciseID"))
	if err != nil {
		http.Error(w, "bad exercise id", http.StatusBadRequest)
		return nil
	}
	ex := session.FindExercise(id)
	if ex == nil {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return nil
	}
	return ex
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFromPath(w, r)
	if session == nil {
		return
	}
	ex := s.exerciseFromPath(w, r, session)
	if ex == nil {
		return
	}
	if ex.Status == models.StatusFinished {
		http.Error(w, "exercise is already finished", http.StatusConflict)
		return
	}
	if ex.Status != models.StatusInProgress {
		http.Error(w, "exercise is not in progress", http.StatusBadRequest)
		return
	}

	ex.Status = models.StatusNotStarted
	var next *models.SessionExercise
	for i := range session.Exercises {
		cand := &session.Exercises[i]
		if cand.ID == ex.ID || cand.Status != models.StatusNotStarted {
			continue
		}
		if cand.OrderIndex > ex.OrderIndex && (next == nil || cand.OrderIndex < next.OrderIndex) {
			next = cand
		}
	}
	if next == nil {
		for i := range session.Exercises {
			cand := &session.Exercises[i]
			if cand.ID != ex.ID && cand.Status == models.StatusNotStarted && (next == nil || cand.OrderIndex < next.OrderIndex) {
				next = cand
			}
		}
	}
	if next == nil {
		ex.Status = models.StatusInProgress
		http.Error(w, "no other exercise to skip to", http.StatusConflict)
		return
	}
	next.Status = models.StatusInProgress
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFromPath(w, r)
	if session == nil {
		return
	}
	ex := s.exerciseFromPath(w, r, session)
	if ex == nil {
		return
	}
	if ex.Status == models.StatusFinished {
		http.Error(w, "exercise is already finished", http.StatusConflict)
		return
	}
	if ex.Status == models.StatusInProgress {
		http.Error(w, "exercise is already in progress", http.StatusConflict)
		return
	}

	for i := range session.Exercises {
		other := &session.Exercises[i]
		if other.Status == models.StatusInProgress {
			other.Status = models.StatusNotStarted
		}
	}
	ex.Status = models.StatusInProgress
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFromPath(w, r)
	if session == nil {
		return
	}
	if session.IsFinished {
		http.Error(w, "session is already finished", http.StatusConflict)
		return
	}
	s.finishSession(session)
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	muscle := r.URL.Query().Get("muscle")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Exercise, 0, len(s.exercises))
	for _, ex := range s.exercises {
		if muscle != "" && string(ex.MuscleGroup) != muscle {
			continue
		}
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad exercise id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.exercises[id]
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.WorkoutTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad template id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.WorkoutTemplate
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if err := t.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.UserID = s.userID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = &t
	writeJSON(w, http.StatusCreated, &t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad template id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	// Referential guard: never cascade into sessions.
	for _, session := range s.sessions {
		if session.TemplateID != nil && *session.TemplateID == id {
			http.Error(w, "template is referenced by a session", http.StatusConflict)
			return
		}
	}
	delete(s.templates, id)
	w.WriteHeader(http.StatusNoContent)
}
