// ABOUTME: Tests for the projection store.
// ABOUTME: Covers overwrite semantics, dirty tracking, loading, and reset.
package projection

import (
	"testing"
	"time"

	"github.com/harperreed/carelog/internal/models"
	"github.com/stretchr/testify/assert"
)

func vital(id string, hour int, weight float64) models.VitalsEntry {
	v := models.NewVitalsEntry(time.Date(2025, 1, 1, hour, 0, 0, 0, time.UTC)).WithWeight(weight)
	v.ID = id
	return *v
}

func TestReplayEqualsLastSnapshot(t *testing.T) {
	events := [][]models.VitalsEntry{
		{vital("a", 1, 70)},
		{vital("a", 1, 70), vital("b", 2, 71)},
		{vital("b", 2, 71)},
		{vital("b", 2, 71), vital("c", 3, 72)},
	}

	replayed := New()
	for _, e := range events {
		replayed.ReplaceVitals(e)
	}

	fresh := New()
	fresh.ReplaceVitals(events[len(events)-1])

	assert.Equal(t, fresh.Vitals(), replayed.Vitals())
}

func TestReplaceCopiesInput(t *testing.T) {
	s := New()
	meds := []models.Medication{{ID: "m1", Name: "Aspirin"}}
	s.ReplaceMedications(meds)

	meds[0].Name = "mutated"
	assert.Equal(t, "Aspirin", s.Medications()[0].Name)

	out := s.Medications()
	out[0].Taken = true
	assert.False(t, s.Medications()[0].Taken)
}

func TestDirtyTracking(t *testing.T) {
	s := New()
	assert.Empty(t, s.TakeDirty())

	s.ReplaceJournal(nil)
	s.ReplaceVitals(nil)
	assert.True(t, s.Dirty(models.KindJournal))
	assert.False(t, s.Dirty(models.KindMedications))

	assert.Equal(t, []models.Kind{models.KindVitals, models.KindJournal}, s.TakeDirty())
	assert.Empty(t, s.TakeDirty())
}

func TestLoaded(t *testing.T) {
	s := New()
	assert.False(t, s.Loaded())

	s.ReplaceVitals(nil)
	s.ReplaceMedications(nil)
	assert.False(t, s.Loaded())

	s.ReplaceJournal([]models.JournalEntry{})
	assert.True(t, s.Loaded())
}

func TestReset(t *testing.T) {
	s := New()
	s.ReplaceVitals([]models.VitalsEntry{vital("a", 1, 70)})
	s.ReplaceMedications([]models.Medication{{ID: "m1", Name: "Aspirin"}})
	s.ReplaceJournal([]models.JournalEntry{{ID: "j1", Text: "hi"}})

	s.Reset()

	assert.Empty(t, s.Vitals())
	assert.Empty(t, s.Medications())
	assert.Empty(t, s.Journal())
	assert.False(t, s.Loaded())
	assert.Empty(t, s.TakeDirty())
}
