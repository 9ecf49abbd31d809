// ABOUTME: Reminder repetition policies and the tracker that applies them.
// ABOUTME: every-tick fires on each tick of the minute; daily fires once per scheduled time per day.
package reminder

import (
	"fmt"
	"strings"
	"time"
)

// Policy controls how often a due reminder repeats.
type Policy string

const (
	// PolicyEveryTick fires on every tick while the minute matches.
	PolicyEveryTick Policy = "every-tick"
	// PolicyDaily fires at most once per medication per scheduled time per day.
	PolicyDaily Policy = "daily"
)

// ParsePolicy converts a config string to a Policy. Empty means every-tick.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyEveryTick:
		return PolicyEveryTick, nil
	case PolicyDaily:
		return PolicyDaily, nil
	default:
		return "", fmt.Errorf("unknown reminder policy %q (valid: %s, %s)", s, PolicyEveryTick, PolicyDaily)
	}
}

// Tracker filters due reminders according to a policy.
// It belongs to one session and is not safe for concurrent use.
type Tracker struct {
	policy Policy
	fired  map[string]string
}

// NewTracker creates a tracker for the given policy.
func NewTracker(p Policy) *Tracker {
	if p == "" {
		p = PolicyEveryTick
	}
	return &Tracker{policy: p, fired: make(map[string]string)}
}

// Policy returns the tracker's policy.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// Filter returns the reminders that should fire now.
func (t *Tracker) Filter(due []Reminder, now time.Time) []Reminder {
	if t.policy != PolicyDaily {
		return due
	}

	today := now.Format("2006-01-02")
	var out []Reminder
	for _, r := range due {
		key := r.MedicationID + "@" + r.Time
		if t.fired[key] == today {
			continue
		}
		t.fired[key] = today
		out = append(out, r)
	}
	return out
}

// Reset forgets everything fired so far.
func (t *Tracker) Reset() {
	clear(t.fired)
}
