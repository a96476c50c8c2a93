// ABOUTME: HTTP client for the workout persistence service.
// ABOUTME: All session mutations return the full updated session document.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

// Client talks to the workout service over HTTP. The service is the sole
// authority for session transitions (auto-advance, auto-finish); every
// mutation returns the complete updated session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given server. The token is the opaque
// identity issued by the auth service; it scopes every request to one user.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type completeSetRequest struct {
	ActualReps   int      `json:"actual_reps"`
	ActualWeight *float64 `json:"actual_weight,omitempty"`
}

type addSetRequest struct {
	TargetWeight float64 `json:"target_weight"`
	TargetReps   int     `json:"target_reps"`
}

type startSessionRequest struct {
	TemplateID uuid.UUID `json:"template_id"`
}

// StartSession begins a new session from a template. The server rejects with
// a conflict if the user already has an unfinished session.
func (c *Client) StartSession(ctx context.Context, templateID uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions", startSessionRequest{TemplateID: templateID}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ActiveSession fetches the current user's unfinished session.
// Returns a NotFoundError when nothing is in progress.
func (c *Client) ActiveSession(ctx context.Context) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions/active", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession fetches one session by ID.
func (c *Client) GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+id.String(), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions fetches the user's session history, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]*models.WorkoutSession, error) {
	var sessions []*models.WorkoutSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CompleteSet marks a set completed with actual reps and optional actual
// weight (server defaults it to the target weight).
func (c *Client) CompleteSet(ctx context.Context, sessionID, setID uuid.UUID, actualReps int, actualWeight *float64) (*models.WorkoutSession, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s/sets/%s/complete", sessionID, setID)
	var session models.WorkoutSession
	err := c.do(ctx, http.MethodPost, path, completeSetRequest{ActualReps: actualReps, ActualWeight: actualWeight}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddSet appends an extra set beyond the template-defined count.
func (c *Client) AddSet(ctx context.Context, sessionID, exerciseID uuid.UUID, targetWeight float64, targetReps int) (*models.WorkoutSession, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s/exercises/%s/sets", sessionID, exerciseID)
	var session models.WorkoutSession
	err := c.do(ctx, http.MethodPost, path, addSetRequest{TargetWeight: targetWeight, TargetReps: targetReps}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SkipExercise moves the in-progress exercise out of the active slot.
func (c *Client) SkipExercise(ctx context.Context, sessionID, exerciseID uuid.UUID) (*models.WorkoutSession, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s/exercises/%s/skip", sessionID, exerciseID)
	var session models.WorkoutSession
	if err := c.do(ctx, http.MethodPost, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ResumeExercise re-promotes a skipped or not-yet-reached exercise.
func (c *Client) ResumeExercise(ctx context.Context, sessionID, exerciseID uuid.UUID) (*models.WorkoutSession, error) {
	path := fmt.Sprintf("/api/v1/sessions/%s/exercises/%s/resume", sessionID, exerciseID)
	var session models.WorkoutSession
	if err := c.do(ctx, http.MethodPost, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FinishSession explicitly closes a session. The server rejects a repeat
// call with a conflict rather than finishing twice.
func (c *Client) FinishSession(ctx context.Context, sessionID uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+sessionID.String()+"/finish", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListExercises fetches the exercise library, optionally filtered by
// muscle group.
func (c *Client) ListExercises(ctx context.Context, muscle string) ([]*models.Exercise, error) {
	path := "/api/v1/exercises"
	if muscle != "" {
		path += "?muscle=" + muscle
	}
	var exercises []*models.Exercise
	if err := c.do(ctx, http.MethodGet, path, nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetExercise fetches one exercise by ID.
func (c *Client) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercises/"+id.String(), nil, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// ListTemplates fetches the user's workout templates.
func (c *Client) ListTemplates(ctx context.Context) ([]*models.WorkoutTemplate, error) {
	var templates []*models.WorkoutTemplate
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate fetches one template by ID.
func (c *Client) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates/"+id.String(), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate uploads a new template.
func (c *Client) CreateTemplate(ctx context.Context, t *models.WorkoutTemplate) (*models.WorkoutTemplate, error) {
	var created models.WorkoutTemplate
	if err := c.do(ctx, http.MethodPost, "/api/v1/templates", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTemplate removes a template. The server rejects with a conflict if
// any session still references it.
func (c *Client) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/templates/"+id.String(), nil, nil)
}

// do executes one request, mapping non-2xx responses onto the error taxonomy
// and decoding a JSON body into out when provided.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Msg: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errorFromStatus(resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransientError{Msg: "decoding response", Err: err}
	}
	return nil
}
