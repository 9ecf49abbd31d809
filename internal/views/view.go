// ABOUTME: Complete derived view of a session, rebuilt on every snapshot.
// ABOUTME: Pure function of the projection store; identical input yields identical output.
package views

import (
	"time"

	"github.com/harperreed/carelog/internal/models"
	"github.com/harperreed/carelog/internal/projection"
)

// View is everything the rendering layer draws.
type View struct {
	Identity    *models.Identity `json:"identity,omitempty"`
	Ready       bool             `json:"ready"`
	Dashboard   Dashboard        `json:"dashboard"`
	WeightChart []Point          `json:"weight_chart"`
	Vitals      []VitalsRow      `json:"vitals"`
	Medications []MedicationRow  `json:"medications"`
	Journal     []JournalRow     `json:"journal"`
}

// Empty returns the signed-out baseline view.
func Empty() View {
	return View{
		Dashboard:   EmptyDashboard(),
		WeightChart: []Point{},
		Vitals:      []VitalsRow{},
		Medications: []MedicationRow{},
		Journal:     []JournalRow{},
	}
}

// Build derives the view from the store's current contents.
func Build(store *projection.Store, loc *time.Location) View {
	if loc == nil {
		loc = time.Local
	}
	vitals := store.Vitals()
	meds := store.Medications()

	return View{
		Ready:       store.Loaded(),
		Dashboard:   BuildDashboard(vitals, meds, loc),
		WeightChart: WeightSeries(vitals, loc),
		Vitals:      VitalsRows(vitals, loc),
		Medications: MedicationRows(meds),
		Journal:     JournalRows(store.Journal(), loc),
	}
}
