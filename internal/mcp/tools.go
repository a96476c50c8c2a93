// ABOUTME: MCP tool implementations for workout sessions.
// ABOUTME: Session intents plus history, library, and statistics queries.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/engine"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/stats"
)

func (s *Server) registerTools() {
	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout session from a template",
	}, s.handleStartWorkout)

	// active_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "active_session",
		Description: "Get the current in-progress session with derived progress",
	}, s.handleActiveSession)

	// complete_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_set",
		Description: "Mark a set completed with actual reps and optional weight",
	}, s.handleCompleteSet)

	// add_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Append an extra set to an exercise in the active session",
	}, s.handleAddSet)

	// skip_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "skip_exercise",
		Description: "Skip the current exercise without completing its sets",
	}, s.handleSkipExercise)

	// resume_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "resume_exercise",
		Description: "Make a skipped or upcoming exercise the current one",
	}, s.handleResumeExercise)

	// finish_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_workout",
		Description: "Finish the active workout session",
	}, s.handleFinishWorkout)

	// list_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List finished workout sessions, newest first",
	}, s.handleListHistory)

	// list_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List the exercise library, optionally filtered by muscle group",
	}, s.handleListExercises)

	// exercise_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_stats",
		Description: "Personal record, volume, and usage statistics for an exercise",
	}, s.handleExerciseStats)
}

// Tool input/output types

type startWorkoutInput struct {
	TemplateID string `json:"template_id" jsonschema:"description=Template UUID to start from,required"`
}

type completeSetInput struct {
	SetID        string  `json:"set_id" jsonschema:"description=Set UUID,required"`
	ActualReps   int     `json:"actual_reps" jsonschema:"description=Reps actually performed (must be > 0),required"`
	ActualWeight float64 `json:"actual_weight,omitempty" jsonschema:"description=Weight actually used; defaults to target weight"`
}

type addSetInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"description=Session exercise UUID,required"`
	Weight     float64 `json:"weight" jsonschema:"description=Target weight for the extra set,required"`
	Reps       int     `json:"reps" jsonschema:"description=Target reps for the extra set,required"`
}

type exerciseRefInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"description=Session exercise UUID,required"`
}

type emptyInput struct{}

type listHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"description=Max sessions (default 20)"`
}

type listExercisesInput struct {
	Muscle string `json:"muscle,omitempty" jsonschema:"description=Filter by muscle group (chest, back, shoulders, biceps, triceps, legs, glutes, core, cardio, full_body)"`
}

type exerciseStatsInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"description=Library exercise UUID,required"`
}

type sessionOutput struct {
	Session         *models.WorkoutSession `json:"session"`
	CurrentExercise string                 `json:"current_exercise,omitempty"`
	ProgressPercent float64                `json:"progress_percent"`
	ElapsedMinutes  int                    `json:"elapsed_minutes"`
	Message         string                 `json:"message"`
}

// sessionView derives the presentation fields assistants need alongside
// the raw session.
func sessionView(session *models.WorkoutSession, msg string) sessionOutput {
	out := sessionOutput{
		Session:         session,
		ProgressPercent: engine.ProgressPercent(session),
		Message:         msg,
	}
	if ex := engine.CurrentExercise(session); ex != nil {
		out.CurrentExercise = ex.Name
	}
	minutes, _ := engine.Elapsed(session, time.Now())
	out.ElapsedMinutes = minutes
	return out
}

// Tool handlers

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, sessionOutput, error) {
	templateID, err := uuid.Parse(input.TemplateID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid template id: %s", input.TemplateID)
	}

	session, err := s.store.Start(ctx, templateID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}

	return nil, sessionView(session, fmt.Sprintf("Started workout with %d exercises", len(session.Exercises))), nil
}

func (s *Server) handleActiveSession(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	if err := s.store.Refresh(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch active session: %w", err)
	}
	session := s.store.Active()
	if session == nil {
		return nil, map[string]any{"message": "No workout in progress."}, nil
	}
	return nil, sessionView(session, "Workout in progress"), nil
}

func (s *Server) handleCompleteSet(ctx context.Context, req *mcp.CallToolRequest, input completeSetInput) (*mcp.CallToolResult, sessionOutput, error) {
	setID, err := uuid.Parse(input.SetID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid set id: %s", input.SetID)
	}
	var weight *float64
	if input.ActualWeight > 0 {
		weight = &input.ActualWeight
	}

	session, err := s.store.CompleteSet(ctx, setID, input.ActualReps, weight)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to complete set: %w", err)
	}

	msg := "Set completed"
	if session.IsFinished {
		msg = "Set completed; workout finished"
	}
	return nil, sessionView(session, msg), nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, sessionOutput, error) {
	exerciseID, err := uuid.Parse(input.ExerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid exercise id: %s", input.ExerciseID)
	}

	session, err := s.store.AddSet(ctx, exerciseID, input.Weight, input.Reps)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to add set: %w", err)
	}
	return nil, sessionView(session, "Extra set added"), nil
}

func (s *Server) handleSkipExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, sessionOutput, error) {
	exerciseID, err := uuid.Parse(input.ExerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid exercise id: %s", input.ExerciseID)
	}

	session, err := s.store.Skip(ctx, exerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to skip exercise: %w", err)
	}
	return nil, sessionView(session, "Exercise skipped"), nil
}

func (s *Server) handleResumeExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, sessionOutput, error) {
	exerciseID, err := uuid.Parse(input.ExerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid exercise id: %s", input.ExerciseID)
	}

	session, err := s.store.Resume(ctx, exerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to resume exercise: %w", err)
	}
	return nil, sessionView(session, "Exercise resumed"), nil
}

func (s *Server) handleFinishWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, sessionOutput, error) {
	session, err := s.store.Finish(ctx)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to finish workout: %w", err)
	}
	return nil, sessionView(session, "Workout finished"), nil
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input listHistoryInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	sessions, err := s.client.ListSessions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list history: %w", err)
	}
	if len(sessions) > input.Limit {
		sessions = sessions[:input.Limit]
	}
	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No finished workouts yet."}, nil
	}
	return nil, sessions, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	if input.Muscle != "" && !models.IsValidMuscleGroup(input.Muscle) {
		return nil, nil, fmt.Errorf("unknown muscle group: %s", input.Muscle)
	}

	exercises, err := s.client.ListExercises(ctx, input.Muscle)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(exercises) == 0 {
		return nil, map[string]any{"message": "No exercises found."}, nil
	}
	return nil, exercises, nil
}

func (s *Server) handleExerciseStats(ctx context.Context, req *mcp.CallToolRequest, input exerciseStatsInput) (*mcp.CallToolResult, any, error) {
	exerciseID, err := uuid.Parse(input.ExerciseID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid exercise id: %s", input.ExerciseID)
	}

	history, err := s.client.ListSessions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	result := map[string]any{
		"stats":       stats.ForExercise(history, exerciseID),
		"progression": stats.Progression(history, exerciseID),
	}
	return nil, result, nil
}
