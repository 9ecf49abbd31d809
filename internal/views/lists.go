// ABOUTME: List renderings for vitals, medications, and journal entries.
// ABOUTME: Vitals and journal render newest first; medications keep arrival order.
package views

import (
	"strings"
	"time"

	"github.com/harperreed/carelog/internal/models"
)

// NotAvailable marks a missing measurement in a vitals row.
const NotAvailable = "N/A"

// VitalsRow is one line of the vitals history.
type VitalsRow struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Weight   string `json:"weight"`
	Pressure string `json:"pressure"`
}

// Summary renders the measurement line, e.g. "Weight: 70 kg | BP: 120/80".
func (r VitalsRow) Summary() string {
	return "Weight: " + r.Weight + " | BP: " + r.Pressure
}

// MedicationRow is one line of the medication list.
type MedicationRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
	Taken    bool   `json:"taken"`
}

// JournalRow is one journal card.
type JournalRow struct {
	ID    string   `json:"id"`
	Date  string   `json:"date"`
	Lines []string `json:"lines"`
}

// VitalsRows renders vitals newest first.
func VitalsRows(vitals []models.VitalsEntry, loc *time.Location) []VitalsRow {
	rows := make([]VitalsRow, 0, len(vitals))
	for i := len(vitals) - 1; i >= 0; i-- {
		v := vitals[i]
		row := VitalsRow{
			ID:       v.ID,
			Date:     v.Date.In(loc).Format(DateLayout),
			Time:     v.Date.In(loc).Format(models.ClockLayout),
			Weight:   NotAvailable,
			Pressure: NotAvailable,
		}
		if v.HasWeight() {
			row.Weight = FormatWeight(*v.Weight)
		}
		if v.HasPressure() {
			row.Pressure = FormatPressure(*v.BPSys, *v.BPDia)
		}
		rows = append(rows, row)
	}
	return rows
}

// MedicationRows renders medications in the order they arrived.
func MedicationRows(meds []models.Medication) []MedicationRow {
	rows := make([]MedicationRow, 0, len(meds))
	for _, m := range meds {
		schedule := m.Dose
		if m.Time != "" {
			schedule = strings.TrimSpace(schedule + " at " + m.Time)
		}
		rows = append(rows, MedicationRow{
			ID:       m.ID,
			Name:     m.Name,
			Schedule: schedule,
			Taken:    m.Taken,
		})
	}
	return rows
}

// JournalRows renders journal entries newest first with line breaks preserved.
func JournalRows(entries []models.JournalEntry, loc *time.Location) []JournalRow {
	rows := make([]JournalRow, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		j := entries[i]
		rows = append(rows, JournalRow{
			ID:    j.ID,
			Date:  j.Date.In(loc).Format(DateLayout + " " + models.ClockLayout),
			Lines: j.Lines(),
		})
	}
	return rows
}
