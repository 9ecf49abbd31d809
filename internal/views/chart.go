// ABOUTME: Weight chart series built from vitals.
// ABOUTME: Entries without weight are skipped; no resampling or aggregation.
package views

import (
	"time"

	"github.com/harperreed/carelog/internal/models"
)

// DateLayout is the label format used across views.
const DateLayout = "2006-01-02"

// Point is one sample of the weight chart.
type Point struct {
	Label  string    `json:"label"`
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// WeightSeries maps every vitals entry with a weight to a chart point, preserving order.
func WeightSeries(vitals []models.VitalsEntry, loc *time.Location) []Point {
	points := []Point{}
	for _, v := range vitals {
		if !v.HasWeight() {
			continue
		}
		points = append(points, Point{
			Label:  v.Date.In(loc).Format(DateLayout),
			Date:   v.Date,
			Weight: *v.Weight,
		})
	}
	return points
}
