// ABOUTME: MCP tool implementations for vitals, medications, and journal entries.
// ABOUTME: Writes wait for their outcome so the caller learns about failures.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/carelog/internal/client"
	"github.com/harperreed/carelog/internal/models"
	"github.com/harperreed/carelog/internal/ocr"
	"github.com/harperreed/carelog/internal/views"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_vitals",
		Description: "Record weight and/or blood pressure",
	}, s.handleAddVitals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_medication",
		Description: "Add a medication with optional dose and daily reminder time",
	}, s.handleAddMedication)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_medication_taken",
		Description: "Mark a medication as taken or not taken",
	}, s.handleSetTaken)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_journal_entry",
		Description: "Write a journal entry",
	}, s.handleAddJournal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a vitals entry, medication, or journal entry by ID or ID prefix",
	}, s.handleDeleteRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get latest weight, latest blood pressure, and medications taken today",
	}, s.handleGetDashboard)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "guess_medication_name",
		Description: "Guess a medication name from label text or a label photo",
	}, s.handleGuessName)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_bmi",
		Description: "Calculate body mass index from height and weight",
	}, s.handleCalculateBMI)
}

// Tool input/output types

type addVitalsInput struct {
	Weight float64 `json:"weight,omitempty" jsonschema:"Weight in kg"`
	BPSys  int     `json:"bp_sys,omitempty" jsonschema:"Systolic blood pressure in mmHg"`
	BPDia  int     `json:"bp_dia,omitempty" jsonschema:"Diastolic blood pressure in mmHg"`
}

type addMedicationInput struct {
	Name string `json:"name" jsonschema:"Medication name"`
	Dose string `json:"dose,omitempty" jsonschema:"Dose, e.g. 100mg"`
	Time string `json:"time,omitempty" jsonschema:"Daily reminder time as HH:MM (24-hour)"`
}

type setTakenInput struct {
	ID    string `json:"id" jsonschema:"Medication ID or prefix"`
	Taken bool   `json:"taken" jsonschema:"Whether the medication was taken"`
}

type addJournalInput struct {
	Text string `json:"text" jsonschema:"Journal text; line breaks are kept"`
}

type deleteRecordInput struct {
	Kind string `json:"kind" jsonschema:"Record kind: vitals, meds, or journal"`
	ID   string `json:"id" jsonschema:"Record ID or prefix"`
}

type emptyInput struct{}

type guessNameInput struct {
	Text      string `json:"text,omitempty" jsonschema:"Recognized label text"`
	ImagePath string `json:"image_path,omitempty" jsonschema:"Path to a label photo to run OCR on"`
}

type bmiInput struct {
	HeightCM float64 `json:"height_cm" jsonschema:"Height in centimetres"`
	WeightKG float64 `json:"weight_kg" jsonschema:"Weight in kilograms"`
}

type writeOutput struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type guessOutput struct {
	Name string `json:"name"`
}

// await waits for a write outcome or the request to be cancelled.
func await(ctx context.Context, ch <-chan client.Outcome) (client.Outcome, error) {
	if ch == nil {
		return client.Outcome{}, fmt.Errorf("nothing to write")
	}
	select {
	case o := <-ch:
		return o, o.Err
	case <-ctx.Done():
		return client.Outcome{}, ctx.Err()
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Tool handlers

func (s *Server) handleAddVitals(ctx context.Context, req *mcp.CallToolRequest, input addVitalsInput) (*mcp.CallToolResult, writeOutput, error) {
	var weight *float64
	var sys, dia *int
	if input.Weight != 0 {
		weight = &input.Weight
	}
	if input.BPSys != 0 || input.BPDia != 0 {
		if input.BPSys == 0 || input.BPDia == 0 {
			return nil, writeOutput{}, fmt.Errorf("blood pressure needs both bp_sys and bp_dia")
		}
		sys, dia = &input.BPSys, &input.BPDia
	}
	if weight == nil && sys == nil {
		return nil, writeOutput{}, fmt.Errorf("provide weight and/or blood pressure")
	}

	o, err := await(ctx, s.client.SubmitVitals(weight, sys, dia))
	if err != nil {
		return nil, writeOutput{}, fmt.Errorf("failed to add vitals: %w", err)
	}
	return nil, writeOutput{
		ID:      short(o.ID),
		Message: fmt.Sprintf("Added vitals (ID: %s)", short(o.ID)),
	}, nil
}

func (s *Server) handleAddMedication(ctx context.Context, req *mcp.CallToolRequest, input addMedicationInput) (*mcp.CallToolResult, writeOutput, error) {
	o, err := await(ctx, s.client.SubmitMedication(input.Name, input.Dose, input.Time))
	if err != nil {
		return nil, writeOutput{}, fmt.Errorf("failed to add medication: %w", err)
	}
	return nil, writeOutput{
		ID:      short(o.ID),
		Message: fmt.Sprintf("Added medication %s (ID: %s)", input.Name, short(o.ID)),
	}, nil
}

func (s *Server) handleSetTaken(ctx context.Context, req *mcp.CallToolRequest, input setTakenInput) (*mcp.CallToolResult, writeOutput, error) {
	v, err := s.currentView()
	if err != nil {
		return nil, writeOutput{}, err
	}
	id, err := v.ResolveID(models.KindMedications, input.ID)
	if err != nil {
		return nil, writeOutput{}, err
	}

	if _, err := await(ctx, s.client.SetTaken(id, input.Taken)); err != nil {
		return nil, writeOutput{}, fmt.Errorf("failed to update medication: %w", err)
	}
	state := "not taken"
	if input.Taken {
		state = "taken"
	}
	return nil, writeOutput{ID: short(id), Message: fmt.Sprintf("Marked %s as %s", short(id), state)}, nil
}

func (s *Server) handleAddJournal(ctx context.Context, req *mcp.CallToolRequest, input addJournalInput) (*mcp.CallToolResult, writeOutput, error) {
	o, err := await(ctx, s.client.SubmitJournal(input.Text))
	if err != nil {
		return nil, writeOutput{}, fmt.Errorf("failed to add journal entry: %w", err)
	}
	return nil, writeOutput{
		ID:      short(o.ID),
		Message: fmt.Sprintf("Added journal entry (ID: %s)", short(o.ID)),
	}, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input deleteRecordInput) (*mcp.CallToolResult, writeOutput, error) {
	kind, ok := models.ParseKind(input.Kind)
	if !ok {
		return nil, writeOutput{}, fmt.Errorf("unknown kind: %s", input.Kind)
	}
	v, err := s.currentView()
	if err != nil {
		return nil, writeOutput{}, err
	}
	id, err := v.ResolveID(kind, input.ID)
	if err != nil {
		return nil, writeOutput{}, err
	}

	if _, err := await(ctx, s.client.Delete(kind, id)); err != nil {
		return nil, writeOutput{}, fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return nil, writeOutput{ID: short(id), Message: fmt.Sprintf("Deleted %s: %s", kind, short(id))}, nil
}

func (s *Server) handleGetDashboard(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, views.Dashboard, error) {
	v, err := s.currentView()
	if err != nil {
		return nil, views.Dashboard{}, err
	}
	return nil, v.Dashboard, nil
}

func (s *Server) handleGuessName(ctx context.Context, req *mcp.CallToolRequest, input guessNameInput) (*mcp.CallToolResult, guessOutput, error) {
	if input.ImagePath == "" {
		return nil, guessOutput{Name: ocr.GuessName(input.Text)}, nil
	}
	if s.scanner == nil {
		return nil, guessOutput{}, fmt.Errorf("image recognition is not available")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	name, err := s.scanner.Scan(ctx, input.ImagePath)
	if err != nil {
		return nil, guessOutput{}, fmt.Errorf("%s: %w", ocr.StatusFailed, err)
	}
	return nil, guessOutput{Name: name}, nil
}

func (s *Server) handleCalculateBMI(ctx context.Context, req *mcp.CallToolRequest, input bmiInput) (*mcp.CallToolResult, views.BMIResult, error) {
	res, err := views.BMI(input.HeightCM, input.WeightKG)
	if err != nil {
		return nil, views.BMIResult{}, err
	}
	return nil, res, nil
}
