// ABOUTME: Unit tests for document helpers.
// ABOUTME: Covers record encoding, partial merges, date keys, and typed decoding.
package docstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harperreed/carelog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRecordDropsID(t *testing.T) {
	m := models.NewMedication("Aspirin")
	m.ID = "should-not-persist"

	fields, err := encodeRecord(m)
	require.NoError(t, err)
	assert.NotContains(t, fields, "id")
	assert.Equal(t, "Aspirin", fields["name"])
	assert.Equal(t, false, fields["taken"])
}

func TestMergeFields(t *testing.T) {
	stored := json.RawMessage(`{"name":"Aspirin","taken":false}`)

	merged, err := mergeFields(stored, map[string]any{"taken": true, "id": "x"})
	require.NoError(t, err)
	assert.Equal(t, true, merged["taken"])
	assert.Equal(t, "Aspirin", merged["name"])
	assert.NotContains(t, merged, "id")
}

func TestDateKey(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 500, time.UTC)
	fields, err := encodeRecord(models.NewVitalsEntry(at))
	require.NoError(t, err)

	assert.Equal(t, at.UnixNano(), dateKey(fields))
	assert.Equal(t, int64(0), dateKey(map[string]any{"name": "x"}))
	assert.Equal(t, int64(0), dateKey(map[string]any{"date": "yesterday"}))
}

func TestDecodeAssignsIDs(t *testing.T) {
	docs := []Document{
		{ID: "j1", Data: json.RawMessage(`{"date":"2025-01-01T08:00:00Z","text":"line one\nline two"}`)},
	}

	entries, err := DecodeJournal(docs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "j1", entries[0].ID)
	assert.Equal(t, []string{"line one", "line two"}, entries[0].Lines())
}

func TestDecodeRejectsBadDocument(t *testing.T) {
	_, err := DecodeVitals([]Document{{ID: "v1", Data: json.RawMessage(`[1,2]`)}})
	assert.Error(t, err)
}

func TestNamespace(t *testing.T) {
	q := Query{UID: "alice", Kind: models.KindMedications}
	assert.Equal(t, "users/alice/meds", q.Namespace())
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a := []Document{{ID: "1", Data: json.RawMessage(`{"taken":false}`)}}
	b := []Document{{ID: "1", Data: json.RawMessage(`{"taken":true}`)}}
	assert.NotEqual(t, fingerprint(a), fingerprint(b))
	assert.Equal(t, fingerprint(a), fingerprint(a))
}
