// ABOUTME: Record lookup by full ID or unique prefix within the current view.
// ABOUTME: Lets short IDs shown in lists address records for toggle and delete.
package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/carelog/internal/models"
)

// ErrNoMatch is returned when no record has the given ID prefix.
var ErrNoMatch = errors.New("no record matches")

// ResolveID expands an ID prefix to the full ID of a record of the given kind.
func (v View) ResolveID(kind models.Kind, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("id is required")
	}

	var ids []string
	switch kind {
	case models.KindVitals:
		for _, r := range v.Vitals {
			ids = append(ids, r.ID)
		}
	case models.KindMedications:
		for _, r := range v.Medications {
			ids = append(ids, r.ID)
		}
	case models.KindJournal:
		for _, r := range v.Journal {
			ids = append(ids, r.ID)
		}
	default:
		return "", fmt.Errorf("unknown kind: %q", kind)
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w %s id %q", ErrNoMatch, kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous %s id %q matches %d records", kind, prefix, len(matches))
	}
}
