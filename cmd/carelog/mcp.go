// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Serves tools and live resources over stdio for AI assistants.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/mcp"
	"github.com/harperreed/carelog/internal/ocr"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and reads from the same live
projection the watch view uses, so resources always reflect the latest data.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "carelog": {
        "command": "carelog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_vitals             Log weight and/or blood pressure
  add_medication         Add a medication with dose and reminder time
  set_medication_taken   Mark a medication taken or not taken
  add_journal_entry      Write a journal entry
  delete_record          Delete a vitals, medication, or journal record
  get_dashboard          Latest weight, blood pressure, and meds ratio
  guess_medication_name  Guess a medication name from label text or an image
  calculate_bmi          BMI and category from height and weight

AVAILABLE RESOURCES:

  carelog://dashboard       Dashboard summary
  carelog://chart/weight    Weight chart points
  carelog://journal         Journal entries, newest first
  carelog://medications     Medication list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := openApp(nil, nil); err != nil {
			return err
		}
		if session.Current() != nil {
			readyCtx, cancel := context.WithTimeout(ctx, readyTimeout)
			if _, err := manager.WaitReady(readyCtx); err != nil {
				logger.Warn("initial load incomplete", "err", err)
			}
			cancel()
		}

		server, err := mcp.NewServer(manager, writer, ocr.NewScanner(ocr.NewTesseract(), logger))
		if err != nil {
			return err
		}

		go watchSession(ctx)
		return server.Serve(ctx)
	},
}

// watchSession picks up logins and logouts made from other terminals.
func watchSession(ctx context.Context) {
	ticker := time.NewTicker(sessionPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := session.Refresh(); err != nil {
				logger.Warn("session refresh failed", "err", err)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
