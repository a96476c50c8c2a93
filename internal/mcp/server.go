// ABOUTME: MCP server setup for the gymlog workout tracker.
// ABOUTME: Wraps the MCP server with the session store and service client.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/store"
)

// Server wraps the MCP server with workout service access.
type Server struct {
	mcpServer *mcp.Server
	client    *api.Client
	store     *store.Store
}

// NewServer creates a new MCP server over the given client and store.
func NewServer(client *api.Client, st *store.Store) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gymlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		client:    client,
		store:     st,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
