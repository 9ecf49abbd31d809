// ABOUTME: Tests for fire-and-forget writes against a real sqlite store.
// ABOUTME: Covers scoping to the active identity, outcomes, and signed-out no-ops.
package client

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/models"
)

type fixedIdentity struct{ id *models.Identity }

func (f *fixedIdentity) Identity() *models.Identity { return f.id }

func setup(t *testing.T) (*Client, *docstore.SQLiteStore, *fixedIdentity) {
	t.Helper()
	store, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "carelog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ids := &fixedIdentity{id: &models.Identity{UID: "u1"}}
	c := New(store, ids, nil)
	c.SetClock(func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) })
	return c, store, ids
}

func wait(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	require.NotNil(t, ch)
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("write did not finish")
		return Outcome{}
	}
}

func snapshot(t *testing.T, s docstore.Store, uid string, kind models.Kind) []docstore.Document {
	t.Helper()
	got := make(chan []docstore.Document, 1)
	unsub, err := s.Subscribe(context.Background(), docstore.Query{UID: uid, Kind: kind}, docstore.Listener{
		OnSnapshot: func(d []docstore.Document) {
			select {
			case got <- d:
			default:
			}
		},
	})
	require.NoError(t, err)
	defer unsub()

	select {
	case d := <-got:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot")
		return nil
	}
}

func TestSubmitVitals(t *testing.T) {
	c, store, _ := setup(t)
	w := 72.5
	o := wait(t, c.SubmitVitals(&w, nil, nil))
	require.NoError(t, o.Err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, OpCreate, o.Op)

	recs, err := docstore.DecodeVitals(snapshot(t, store, "u1", models.KindVitals))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, o.ID, recs[0].ID)
	assert.InDelta(t, 72.5, *recs[0].Weight, 0.001)
	assert.False(t, recs[0].HasPressure())
}

func TestSubmitVitalsRejectsNegative(t *testing.T) {
	c, _, _ := setup(t)
	w := -1.0
	o := wait(t, c.SubmitVitals(&w, nil, nil))
	assert.Error(t, o.Err)
	assert.False(t, o.OK())
}

func TestSubmitMedicationAndToggle(t *testing.T) {
	c, store, _ := setup(t)
	o := wait(t, c.SubmitMedication("  Aspirin ", "100mg", "08:30"))
	require.NoError(t, o.Err)

	meds, err := docstore.DecodeMedications(snapshot(t, store, "u1", models.KindMedications))
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "Aspirin", meds[0].Name)
	assert.False(t, meds[0].Taken)

	require.NoError(t, wait(t, c.SetTaken(o.ID, true)).Err)
	require.NoError(t, wait(t, c.SetTaken(o.ID, true)).Err)

	meds, err = docstore.DecodeMedications(snapshot(t, store, "u1", models.KindMedications))
	require.NoError(t, err)
	assert.True(t, meds[0].Taken)
	assert.Equal(t, "08:30", meds[0].Time)
}

func TestSubmitMedicationInvalidTime(t *testing.T) {
	c, _, _ := setup(t)
	assert.Error(t, wait(t, c.SubmitMedication("A", "", "8:30")).Err)
	assert.Error(t, wait(t, c.SubmitMedication(" ", "", "")).Err)
}

func TestSubmitJournalBlankIsNoop(t *testing.T) {
	c, store, _ := setup(t)
	assert.Nil(t, c.SubmitJournal("   \n "))
	c.Wait()
	assert.Empty(t, snapshot(t, store, "u1", models.KindJournal))

	require.NoError(t, wait(t, c.SubmitJournal(" slept well\nno headache ")).Err)
	entries, err := docstore.DecodeJournal(snapshot(t, store, "u1", models.KindJournal))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "slept well\nno headache", entries[0].Text)
}

func TestDelete(t *testing.T) {
	c, store, _ := setup(t)
	o := wait(t, c.SubmitJournal("note"))
	require.NoError(t, o.Err)

	require.NoError(t, wait(t, c.Delete(models.KindJournal, o.ID)).Err)
	assert.Empty(t, snapshot(t, store, "u1", models.KindJournal))

	missing := wait(t, c.Delete(models.KindJournal, o.ID))
	assert.True(t, errors.Is(missing.Err, docstore.ErrNotFound))
}

func TestDeleteRequiresID(t *testing.T) {
	c, _, _ := setup(t)
	assert.Error(t, wait(t, c.Delete(models.KindVitals, "")).Err)
}

func TestSignedOutWritesAreNoops(t *testing.T) {
	c, store, ids := setup(t)
	ids.id = nil

	o := wait(t, c.SubmitJournal("hello"))
	assert.ErrorIs(t, o.Err, ErrSignedOut)
	assert.ErrorIs(t, wait(t, c.SetTaken("x", true)).Err, ErrSignedOut)

	assert.Empty(t, snapshot(t, store, "u1", models.KindJournal))
}

func TestWritesScopedToActiveIdentity(t *testing.T) {
	c, store, ids := setup(t)
	require.NoError(t, wait(t, c.SubmitJournal("mine")).Err)

	ids.id = &models.Identity{UID: "u2"}
	require.NoError(t, wait(t, c.SubmitJournal("theirs")).Err)

	assert.Len(t, snapshot(t, store, "u1", models.KindJournal), 1)
	assert.Len(t, snapshot(t, store, "u2", models.KindJournal), 1)
}
