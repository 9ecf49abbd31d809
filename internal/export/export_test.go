// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and JSON round trips.
package export

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/models"
)

var ann = models.Identity{UID: "u1", DisplayName: "Ann"}

func setupStore(t *testing.T) *docstore.SQLiteStore {
	t.Helper()
	s, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "carelog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s docstore.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	_, err := s.Create(ctx, ann.UID, models.KindVitals, models.NewVitalsEntry(base).WithWeight(82.5))
	require.NoError(t, err)
	_, err = s.Create(ctx, ann.UID, models.KindVitals, models.NewVitalsEntry(base.Add(24*time.Hour)).WithPressure(120, 80))
	require.NoError(t, err)
	_, err = s.Create(ctx, ann.UID, models.KindMedications, models.NewMedication("Aspirin").WithDose("100mg").WithTime("08:30"))
	require.NoError(t, err)
	_, err = s.Create(ctx, ann.UID, models.KindMedications, models.NewMedication("Zinc"))
	require.NoError(t, err)
	_, err = s.Create(ctx, ann.UID, models.KindJournal, models.NewJournalEntry("slept well", base))
	require.NoError(t, err)
}

func TestCollect(t *testing.T) {
	s := setupStore(t)
	seed(t, s)

	d, err := Collect(context.Background(), s, ann)
	require.NoError(t, err)

	assert.Equal(t, Version, d.Version)
	assert.Equal(t, "carelog", d.Tool)
	require.Len(t, d.Vitals, 2)
	assert.True(t, d.Vitals[0].HasWeight())
	require.Len(t, d.Medications, 2)
	assert.Equal(t, "Aspirin", d.Medications[0].Name)
	require.Len(t, d.Journal, 1)
}

func TestExportJSONRoundTrip(t *testing.T) {
	src := setupStore(t)
	seed(t, src)
	d, err := Collect(context.Background(), src, ann)
	require.NoError(t, err)

	raw, err := d.JSON()
	require.NoError(t, err)
	parsed, err := ParseJSON(raw)
	require.NoError(t, err)

	dst := setupStore(t)
	counts, err := Import(context.Background(), dst, "u2", parsed)
	require.NoError(t, err)
	assert.Equal(t, Counts{Vitals: 2, Medications: 2, Journal: 1}, counts)
	assert.Equal(t, 5, counts.Total())

	again, err := Collect(context.Background(), dst, models.Identity{UID: "u2"})
	require.NoError(t, err)
	require.Len(t, again.Vitals, 2)
	assert.InDelta(t, 82.5, *again.Vitals[0].Weight, 0.001)
	assert.Equal(t, 120, *again.Vitals[1].BPSys)
	assert.Equal(t, []string{"Aspirin", "Zinc"}, []string{again.Medications[0].Name, again.Medications[1].Name})
	assert.NotEqual(t, d.Medications[0].ID, again.Medications[0].ID)
	assert.Equal(t, "slept well", again.Journal[0].Text)
}

func TestImportRejectsInvalidBeforeWriting(t *testing.T) {
	dst := setupStore(t)
	d := &Data{
		Journal:     []models.JournalEntry{{Date: time.Now(), Text: "note"}},
		Medications: []models.Medication{{Name: ""}},
	}
	_, err := Import(context.Background(), dst, "u1", d)
	require.Error(t, err)

	docs, err := docstore.Fetch(context.Background(), dst, docstore.Query{UID: "u1", Kind: models.KindJournal})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestExportYAML(t *testing.T) {
	s := setupStore(t)
	seed(t, s)
	d, err := Collect(context.Background(), s, ann)
	require.NoError(t, err)

	raw, err := d.YAML()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &parsed))
	assert.Equal(t, "carelog", parsed["tool"])
	assert.Equal(t, "Ann", parsed["identity"])

	vitals, ok := parsed["vitals"].([]any)
	require.True(t, ok)
	require.Len(t, vitals, 2)
	second := vitals[1].(map[string]any)
	assert.Equal(t, "120/80", second["blood_pressure"])
	assert.Len(t, second["id"], 8)
}

func TestExportMarkdown(t *testing.T) {
	s := setupStore(t)
	seed(t, s)
	d, err := Collect(context.Background(), s, ann)
	require.NoError(t, err)

	md := d.Markdown(nil, time.UTC)
	for _, want := range []string{
		"# Health Export",
		"Profile: Ann",
		"| 2025-03-01 08:00 | 82.5 kg |  |",
		"| 2025-03-02 08:00 |  | 120/80 |",
		"| Aspirin | 100mg | 08:30 | no |",
		"### 2025-03-01 08:00\n\nslept well",
	} {
		assert.True(t, strings.Contains(md, want), "missing %q in:\n%s", want, md)
	}

	since := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	filtered := d.Markdown(&since, time.UTC)
	assert.False(t, strings.Contains(filtered, "82.5 kg"))
	assert.True(t, strings.Contains(filtered, "120/80"))
	assert.False(t, strings.Contains(filtered, "slept well"))
}
