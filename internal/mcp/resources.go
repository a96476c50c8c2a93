// ABOUTME: MCP resource implementations for workout data.
// ABOUTME: Provides gymlog://session/active and gymlog://history/recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/engine"
)

func (s *Server) registerResources() {
	// gymlog://session/active - the in-progress session with derived view state
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymlog://session/active",
		Name:        "Active Workout Session",
		Description: "The current in-progress session with progress and elapsed time",
		MIMEType:    "application/json",
	}, s.handleActiveResource)

	// gymlog://history/recent - last 10 finished sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymlog://history/recent",
		Name:        "Recent Workouts",
		Description: "Last 10 finished workout sessions",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleActiveResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.store.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch active session: %w", err)
	}

	session := s.store.Active()
	var result map[string]any
	if session == nil {
		result = map[string]any{"active": false}
	} else {
		minutes, seconds := engine.Elapsed(session, time.Now())
		current := ""
		if ex := engine.CurrentExercise(session); ex != nil {
			current = ex.Name
		}
		result = map[string]any{
			"active":           true,
			"session":          session,
			"current_exercise": current,
			"progress_percent": engine.ProgressPercent(session),
			"elapsed":          fmt.Sprintf("%d:%02d", minutes, seconds),
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "gymlog://session/active",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.client.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) > 10 {
		sessions = sessions[:10]
	}

	result := map[string]any{
		"count":    len(sessions),
		"sessions": sessions,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "gymlog://history/recent",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
