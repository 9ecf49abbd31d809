// ABOUTME: Shared helpers for CLI commands.
// ABOUTME: Time parsing, text padding, short IDs, and waiting on write outcomes.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/carelog/internal/client"
)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// await blocks on a write outcome so the CLI can report it before exiting.
func await(ctx context.Context, ch <-chan client.Outcome) (client.Outcome, error) {
	select {
	case o := <-ch:
		return o, o.Err
	case <-ctx.Done():
		return client.Outcome{}, ctx.Err()
	}
}
