// ABOUTME: MCP server setup for the carelog health tracker.
// ABOUTME: Wraps the MCP server around the live session view and write client.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/carelog/internal/client"
	"github.com/harperreed/carelog/internal/models"
	"github.com/harperreed/carelog/internal/ocr"
	"github.com/harperreed/carelog/internal/views"
)

// ViewSource supplies the live derived view. *lifecycle.Manager satisfies it.
type ViewSource interface {
	View() views.View
	Identity() *models.Identity
}

// Server wraps the MCP server with session access.
type Server struct {
	mcpServer *mcp.Server
	views     ViewSource
	client    *client.Client
	scanner   *ocr.Scanner
}

// NewServer creates a new MCP server. scanner may be nil.
func NewServer(src ViewSource, c *client.Client, scanner *ocr.Scanner) (*Server, error) {
	if src == nil || c == nil {
		return nil, fmt.Errorf("mcp server needs a view source and a client")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "carelog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		views:     src,
		client:    c,
		scanner:   scanner,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// currentView returns the view, failing when nobody is signed in.
func (s *Server) currentView() (views.View, error) {
	if s.views.Identity() == nil {
		return views.View{}, fmt.Errorf("not signed in; run 'carelog login' first")
	}
	return s.views.View(), nil
}
