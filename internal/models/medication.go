// ABOUTME: Medication model with dose, scheduled time-of-day, and taken flag.
// ABOUTME: Time uses the zero-padded 24-hour HH:MM form reminders compare against.
package models

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the HH:MM layout for scheduled times.
const ClockLayout = "15:04"

// Medication is an entry in the medication list.
type Medication struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Dose  string `json:"dose" yaml:"dose"`
	Time  string `json:"time" yaml:"time"`
	Taken bool   `json:"taken" yaml:"taken"`
}

// NewMedication creates an untaken medication.
func NewMedication(name string) *Medication {
	return &Medication{Name: strings.TrimSpace(name)}
}

// WithDose sets the free-text dose.
func (m *Medication) WithDose(dose string) *Medication {
	m.Dose = strings.TrimSpace(dose)
	return m
}

// WithTime sets the scheduled time of day.
func (m *Medication) WithTime(hhmm string) *Medication {
	m.Time = strings.TrimSpace(hhmm)
	return m
}

// Validate checks the medication before it is written.
func (m Medication) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("medication name is required")
	}
	if m.Time != "" && !IsClockTime(m.Time) {
		return fmt.Errorf("invalid time %q (use HH:MM, 24-hour)", m.Time)
	}
	return nil
}

// IsClockTime reports whether s is a zero-padded 24-hour HH:MM time.
func IsClockTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ClockTime formats t the way scheduled times are stored.
func ClockTime(t time.Time) string {
	return t.Format(ClockLayout)
}
