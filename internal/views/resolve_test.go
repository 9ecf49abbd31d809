// ABOUTME: Tests for resolving record IDs from prefixes.
// ABOUTME: Covers exact, prefix, missing, and ambiguous matches.
package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/carelog/internal/models"
)

func TestResolveID(t *testing.T) {
	v := View{
		Medications: []MedicationRow{{ID: "abc123"}, {ID: "abd456"}, {ID: "ab"}},
		Journal:     []JournalRow{{ID: "j-1"}},
	}

	id, err := v.ResolveID(models.KindMedications, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = v.ResolveID(models.KindMedications, "ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", id)

	_, err = v.ResolveID(models.KindMedications, "a")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = v.ResolveID(models.KindJournal, "zzz")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = v.ResolveID(models.KindVitals, "")
	assert.Error(t, err)

	_, err = v.ResolveID(models.Kind("workouts"), "x")
	assert.Error(t, err)
}
