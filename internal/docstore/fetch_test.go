// ABOUTME: Tests for one-shot collection reads.
// ABOUTME: Runs against every embedded backend.
package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/carelog/internal/models"
)

func TestFetch(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			for _, text := range []string{"one", "two"} {
				_, err := s.Create(ctx, "u1", models.KindJournal, models.NewJournalEntry(text, time.Now()))
				require.NoError(t, err)
			}

			docs, err := Fetch(ctx, s, Query{UID: "u1", Kind: models.KindJournal, OrderBy: OrderByDate})
			require.NoError(t, err)
			entries, err := DecodeJournal(docs)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "one", entries[0].Text)
		})
	}
}

func TestFetchInvalidQuery(t *testing.T) {
	s := backends()[0].open(t)
	_, err := Fetch(context.Background(), s, Query{Kind: models.KindJournal})
	assert.Error(t, err)
}
