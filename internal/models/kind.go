// ABOUTME: Record kinds stored under each identity's namespace.
// ABOUTME: Kind names double as the collection names in the document store.
package models

// Kind identifies one of the three per-identity collections.
type Kind string

const (
	KindVitals      Kind = "vitals"
	KindMedications Kind = "meds"
	KindJournal     Kind = "journal"
)

// AllKinds lists every collection a session subscribes to.
var AllKinds = []Kind{KindVitals, KindMedications, KindJournal}

// IsValidKind checks if a string names a known collection.
func IsValidKind(s string) bool {
	for _, k := range AllKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// ParseKind accepts the collection name or a friendlier alias.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "vitals", "vital":
		return KindVitals, true
	case "meds", "med", "medication", "medications":
		return KindMedications, true
	case "journal", "entry", "entries":
		return KindJournal, true
	}
	return "", false
}
