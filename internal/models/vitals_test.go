// ABOUTME: Tests for VitalsEntry model.
// ABOUTME: Validates builders, per-field presence checks, and validation.
package models

import (
	"testing"
	"time"
)

func TestNewVitalsEntry(t *testing.T) {
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	v := NewVitalsEntry(at).WithWeight(82.5)

	if !v.Date.Equal(at) {
		t.Errorf("Date = %v, want %v", v.Date, at)
	}
	if !v.HasWeight() {
		t.Error("expected weight to be set")
	}
	if v.HasPressure() {
		t.Error("expected no pressure")
	}
}

func TestHasPressureNeedsBothFields(t *testing.T) {
	sys := 120
	v := VitalsEntry{Date: time.Now(), BPSys: &sys}
	if v.HasPressure() {
		t.Error("HasPressure() with only systolic should be false")
	}

	v.WithPressure(120, 80)
	if !v.HasPressure() {
		t.Error("HasPressure() with both fields should be true")
	}
}

func TestVitalsValidate(t *testing.T) {
	at := time.Now()
	tests := []struct {
		name    string
		entry   *VitalsEntry
		wantErr bool
	}{
		{"date only", NewVitalsEntry(at), false},
		{"weight", NewVitalsEntry(at).WithWeight(70), false},
		{"pressure", NewVitalsEntry(at).WithPressure(120, 80), false},
		{"zero weight", NewVitalsEntry(at).WithWeight(0), true},
		{"negative diastolic", NewVitalsEntry(at).WithPressure(120, -1), true},
		{"no date", &VitalsEntry{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
