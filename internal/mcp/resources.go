// ABOUTME: MCP resource implementations served from the live session view.
// ABOUTME: Provides carelog://dashboard, chart/weight, journal, and medications resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/carelog/internal/views"
)

const (
	dashboardURI   = "carelog://dashboard"
	weightChartURI = "carelog://chart/weight"
	journalURI     = "carelog://journal"
	medicationsURI = "carelog://medications"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dashboardURI,
		Name:        "Health Dashboard",
		Description: "Latest weight, latest blood pressure, and medication ratio",
		MIMEType:    "application/json",
	}, s.resource(dashboardURI, func(v views.View) any { return v.Dashboard }))

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         weightChartURI,
		Name:        "Weight Chart",
		Description: "Weight readings in chronological order",
		MIMEType:    "application/json",
	}, s.resource(weightChartURI, func(v views.View) any { return v.WeightChart }))

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         journalURI,
		Name:        "Journal",
		Description: "Journal entries, newest first",
		MIMEType:    "application/json",
	}, s.resource(journalURI, func(v views.View) any { return v.Journal }))

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         medicationsURI,
		Name:        "Medications",
		Description: "Medication list with schedule and taken flag",
		MIMEType:    "application/json",
	}, s.resource(medicationsURI, func(v views.View) any { return v.Medications }))
}

// resource builds a handler that serializes one part of the current view.
func (s *Server) resource(uri string, pick func(views.View) any) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		v, err := s.currentView()
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(pick(v), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
