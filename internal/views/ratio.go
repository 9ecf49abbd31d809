// ABOUTME: Medication completion ratio for the dashboard.
// ABOUTME: Renders as taken/total and stays 0/0 for an empty list.
package views

import (
	"fmt"

	"github.com/harperreed/carelog/internal/models"
)

// Ratio counts taken medications.
type Ratio struct {
	Taken int `json:"taken"`
	Total int `json:"total"`
}

// MedicationRatio counts taken medications over all medications.
func MedicationRatio(meds []models.Medication) Ratio {
	r := Ratio{Total: len(meds)}
	for _, m := range meds {
		if m.Taken {
			r.Taken++
		}
	}
	return r
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Taken, r.Total)
}
