// ABOUTME: Medication reminder matching against the wall clock.
// ABOUTME: A reminder is due when the current HH:MM equals an untaken medication's time.
package reminder

import (
	"fmt"
	"time"

	"github.com/harperreed/carelog/internal/models"
)

// Title is the heading of every medication reminder.
const Title = "Medication Reminder"

// Reminder is one notification to show the user.
type Reminder struct {
	MedicationID string `json:"medication_id"`
	Time         string `json:"time"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}

// For builds the reminder for a medication.
func For(m models.Medication) Reminder {
	return Reminder{
		MedicationID: m.ID,
		Time:         m.Time,
		Title:        Title,
		Body:         fmt.Sprintf("It's time to take your %s (%s).", m.Name, m.Dose),
	}
}

// Due returns one reminder per untaken medication scheduled for now's minute.
func Due(meds []models.Medication, now time.Time) []Reminder {
	clock := models.ClockTime(now)

	var due []Reminder
	for _, m := range meds {
		if m.Taken || m.Time == "" || m.Time != clock {
			continue
		}
		due = append(due, For(m))
	}
	return due
}
