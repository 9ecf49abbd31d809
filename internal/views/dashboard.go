// ABOUTME: Dashboard summary: latest weight, latest blood pressure, medication ratio.
// ABOUTME: Missing readings fall back to the signed-out baseline text.
package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/carelog/internal/models"
)

// Baseline texts shown before any data arrives.
const (
	NoWeight   = "-- kg"
	NoPressure = "--/--"
	NoData     = "No data yet"
)

// Dashboard is the summary card content.
type Dashboard struct {
	Weight       string `json:"weight"`
	WeightDate   string `json:"weight_date"`
	Pressure     string `json:"pressure"`
	PressureDate string `json:"pressure_date"`
	Medications  string `json:"medications"`
}

// EmptyDashboard returns the baseline dashboard.
func EmptyDashboard() Dashboard {
	return Dashboard{
		Weight:       NoWeight,
		WeightDate:   NoData,
		Pressure:     NoPressure,
		PressureDate: NoData,
		Medications:  Ratio{}.String(),
	}
}

// BuildDashboard derives the dashboard from current vitals and medications.
func BuildDashboard(vitals []models.VitalsEntry, meds []models.Medication, loc *time.Location) Dashboard {
	d := EmptyDashboard()

	if v, ok := LatestWeight(vitals); ok {
		d.Weight = FormatWeight(*v.Weight)
		d.WeightDate = "on " + v.Date.In(loc).Format(DateLayout)
	}
	if v, ok := LatestPressure(vitals); ok {
		d.Pressure = FormatPressure(*v.BPSys, *v.BPDia)
		d.PressureDate = "on " + v.Date.In(loc).Format(DateLayout)
	}
	d.Medications = MedicationRatio(meds).String()
	return d
}

// FormatWeight renders a weight like "82.5 kg".
func FormatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
}

// FormatPressure renders a reading like "120/80".
func FormatPressure(sys, dia int) string {
	return fmt.Sprintf("%d/%d", sys, dia)
}
