// ABOUTME: Tests for JournalEntry and Identity models.
// ABOUTME: Covers line splitting and identity comparison.
package models

import (
	"reflect"
	"testing"
	"time"
)

func TestJournalLines(t *testing.T) {
	j := NewJournalEntry("  slept well\nheadache gone\r\nwalked 5k ", time.Now())

	want := []string{"slept well", "headache gone", "walked 5k"}
	if got := j.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestIdentitySame(t *testing.T) {
	a := &Identity{UID: "a"}
	a2 := &Identity{UID: "a", DisplayName: "Alice"}
	b := &Identity{UID: "b"}
	var none *Identity

	if !a.Same(a2) {
		t.Error("expected same UID to match")
	}
	if a.Same(b) {
		t.Error("expected different UIDs not to match")
	}
	if a.Same(none) || none.Same(a) {
		t.Error("nil should not match a signed-in identity")
	}
	if !none.Same(nil) {
		t.Error("nil should match nil")
	}
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"vitals", "meds", "medication", "journal"} {
		if _, ok := ParseKind(in); !ok {
			t.Errorf("ParseKind(%q) failed", in)
		}
	}
	if _, ok := ParseKind("workouts"); ok {
		t.Error("ParseKind(workouts) should fail")
	}
	if !IsValidKind("meds") || IsValidKind("medication") {
		t.Error("IsValidKind should only accept collection names")
	}
}
