// ABOUTME: Contract tests run against every local document store backend.
// ABOUTME: Covers snapshots, ordering, namespacing, partial updates, and unsubscribe.
package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/carelog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialSnapshotIsEmpty(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			rec := newRecorder()

			unsub, err := s.Subscribe(context.Background(), Query{UID: "alice", Kind: models.KindVitals, OrderBy: OrderByDate}, rec.listener())
			require.NoError(t, err)
			defer unsub()

			assert.Empty(t, rec.next(t))
		})
	}
}

func TestSnapshotOrderedByDate(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)

			// Insert out of chronological order.
			late, err := s.Create(ctx, "alice", models.KindVitals, models.NewVitalsEntry(base.Add(2*time.Hour)).WithWeight(71))
			require.NoError(t, err)
			early, err := s.Create(ctx, "alice", models.KindVitals, models.NewVitalsEntry(base).WithWeight(70))
			require.NoError(t, err)

			rec := newRecorder()
			unsub, err := s.Subscribe(ctx, Query{UID: "alice", Kind: models.KindVitals, OrderBy: OrderByDate}, rec.listener())
			require.NoError(t, err)
			defer unsub()

			docs := rec.next(t)
			assert.Equal(t, []string{early, late}, ids(docs))

			vitals, err := DecodeVitals(docs)
			require.NoError(t, err)
			assert.Equal(t, early, vitals[0].ID)
			assert.Equal(t, 70.0, *vitals[0].Weight)
		})
	}
}

func TestSnapshotArrivalOrder(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)

			first, err := s.Create(ctx, "alice", models.KindMedications, models.NewMedication("Zinc"))
			require.NoError(t, err)
			second, err := s.Create(ctx, "alice", models.KindMedications, models.NewMedication("Aspirin"))
			require.NoError(t, err)

			rec := newRecorder()
			unsub, err := s.Subscribe(ctx, Query{UID: "alice", Kind: models.KindMedications}, rec.listener())
			require.NoError(t, err)
			defer unsub()

			assert.Equal(t, []string{first, second}, ids(rec.next(t)))
		})
	}
}

func TestWritesPublishFullSnapshots(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			rec := newRecorder()

			unsub, err := s.Subscribe(ctx, Query{UID: "alice", Kind: models.KindMedications}, rec.listener())
			require.NoError(t, err)
			defer unsub()
			require.Empty(t, rec.next(t))

			id, err := s.Create(ctx, "alice", models.KindMedications, models.NewMedication("Aspirin").WithTime("08:30"))
			require.NoError(t, err)
			docs := rec.next(t)
			require.Len(t, docs, 1)

			require.NoError(t, s.Update(ctx, "alice", models.KindMedications, id, map[string]any{"taken": true}))
			meds, err := DecodeMedications(rec.next(t))
			require.NoError(t, err)
			require.Len(t, meds, 1)
			assert.True(t, meds[0].Taken)
			assert.Equal(t, "Aspirin", meds[0].Name)
			assert.Equal(t, "08:30", meds[0].Time)

			require.NoError(t, s.Delete(ctx, "alice", models.KindMedications, id))
			assert.Empty(t, rec.next(t))
		})
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			rec := newRecorder()

			unsub, err := s.Subscribe(ctx, Query{UID: "alice", Kind: models.KindJournal, OrderBy: OrderByDate}, rec.listener())
			require.NoError(t, err)
			defer unsub()
			require.Empty(t, rec.next(t))

			_, err = s.Create(ctx, "bob", models.KindJournal, models.NewJournalEntry("bob's note", time.Now()))
			require.NoError(t, err)
			_, err = s.Create(ctx, "alice", models.KindVitals, models.NewVitalsEntry(time.Now()))
			require.NoError(t, err)

			rec.quiet(t)
		})
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			rec := newRecorder()

			unsub, err := s.Subscribe(ctx, Query{UID: "alice", Kind: models.KindMedications}, rec.listener())
			require.NoError(t, err)
			require.Empty(t, rec.next(t))

			unsub()
			unsub()

			_, err = s.Create(ctx, "alice", models.KindMedications, models.NewMedication("Aspirin"))
			require.NoError(t, err)
			rec.quiet(t)
		})
	}
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)

			err := s.Update(ctx, "alice", models.KindMedications, "nope", map[string]any{"taken": true})
			assert.ErrorIs(t, err, ErrNotFound)

			err = s.Delete(ctx, "alice", models.KindMedications, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestInvalidScope(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)

			_, err := s.Create(ctx, "", models.KindVitals, models.NewVitalsEntry(time.Now()))
			assert.Error(t, err)
			_, err = s.Create(ctx, "a/b", models.KindVitals, models.NewVitalsEntry(time.Now()))
			assert.Error(t, err)
			_, err = s.Subscribe(ctx, Query{UID: "alice", Kind: "workouts"}, Listener{})
			assert.Error(t, err)
			_, err = s.Subscribe(ctx, Query{UID: "alice", Kind: models.KindVitals, OrderBy: "weight"}, Listener{})
			assert.Error(t, err)
		})
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	s, err := OpenSQLite(t.TempDir() + "/closed.db")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Subscribe(context.Background(), Query{UID: "alice", Kind: models.KindVitals}, Listener{})
	assert.ErrorIs(t, err, ErrClosed)
}
