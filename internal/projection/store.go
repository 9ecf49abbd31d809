// ABOUTME: Projection store holding the latest snapshot of each collection for one session.
// ABOUTME: Snapshots replace the previous contents wholesale; there are no partial updates.
package projection

import (
	"slices"

	"github.com/harperreed/carelog/internal/models"
)

// Store is the in-memory materialization of the three live collections.
// It is owned by a single session and is not safe for concurrent use.
type Store struct {
	vitals  []models.VitalsEntry
	meds    []models.Medication
	journal []models.JournalEntry

	loaded map[models.Kind]bool
	dirty  map[models.Kind]bool
}

// New returns an empty store.
func New() *Store {
	return &Store{
		loaded: make(map[models.Kind]bool),
		dirty:  make(map[models.Kind]bool),
	}
}

// ReplaceVitals stores a vitals snapshot, already ordered oldest first.
func (s *Store) ReplaceVitals(records []models.VitalsEntry) {
	s.vitals = slices.Clone(records)
	s.mark(models.KindVitals)
}

// ReplaceMedications stores a medications snapshot in arrival order.
func (s *Store) ReplaceMedications(records []models.Medication) {
	s.meds = slices.Clone(records)
	s.mark(models.KindMedications)
}

// ReplaceJournal stores a journal snapshot, already ordered oldest first.
func (s *Store) ReplaceJournal(records []models.JournalEntry) {
	s.journal = slices.Clone(records)
	s.mark(models.KindJournal)
}

func (s *Store) mark(kind models.Kind) {
	s.loaded[kind] = true
	s.dirty[kind] = true
}

// Vitals returns a copy of the current vitals.
func (s *Store) Vitals() []models.VitalsEntry {
	return slices.Clone(s.vitals)
}

// Medications returns a copy of the current medications.
func (s *Store) Medications() []models.Medication {
	return slices.Clone(s.meds)
}

// Journal returns a copy of the current journal entries.
func (s *Store) Journal() []models.JournalEntry {
	return slices.Clone(s.journal)
}

// Dirty reports whether a kind changed since the last TakeDirty.
func (s *Store) Dirty(kind models.Kind) bool {
	return s.dirty[kind]
}

// TakeDirty returns the kinds changed since the last call and clears them.
func (s *Store) TakeDirty() []models.Kind {
	var kinds []models.Kind
	for _, k := range models.AllKinds {
		if s.dirty[k] {
			kinds = append(kinds, k)
		}
	}
	clear(s.dirty)
	return kinds
}

// Loaded reports whether every kind has received at least one snapshot.
func (s *Store) Loaded() bool {
	for _, k := range models.AllKinds {
		if !s.loaded[k] {
			return false
		}
	}
	return true
}

// Reset returns the store to its empty baseline.
func (s *Store) Reset() {
	s.vitals, s.meds, s.journal = nil, nil, nil
	clear(s.loaded)
	clear(s.dirty)
}
