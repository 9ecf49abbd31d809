// ABOUTME: Per-field latest-reading lookups over chronologically ordered vitals.
// ABOUTME: An entry may carry only weight or only pressure, so each field is searched separately.
package views

import "github.com/harperreed/carelog/internal/models"

// LatestWeight returns the most recent entry that has a weight.
func LatestWeight(vitals []models.VitalsEntry) (models.VitalsEntry, bool) {
	return latest(vitals, models.VitalsEntry.HasWeight)
}

// LatestPressure returns the most recent entry with both pressure fields.
func LatestPressure(vitals []models.VitalsEntry) (models.VitalsEntry, bool) {
	return latest(vitals, models.VitalsEntry.HasPressure)
}

func latest(vitals []models.VitalsEntry, has func(models.VitalsEntry) bool) (models.VitalsEntry, bool) {
	for i := len(vitals) - 1; i >= 0; i-- {
		if has(vitals[i]) {
			return vitals[i], true
		}
	}
	return models.VitalsEntry{}, false
}
