// ABOUTME: VitalsEntry model for weight and blood pressure readings.
// ABOUTME: Weight and pressure are independently optional; the date is always set.
package models

import (
	"fmt"
	"time"
)

// VitalsEntry is one submission of the vitals form.
type VitalsEntry struct {
	ID     string    `json:"id,omitempty" yaml:"id,omitempty"`
	Date   time.Time `json:"date" yaml:"date"`
	Weight *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	BPSys  *int      `json:"bp_sys,omitempty" yaml:"bp_sys,omitempty"`
	BPDia  *int      `json:"bp_dia,omitempty" yaml:"bp_dia,omitempty"`
}

// NewVitalsEntry creates an empty entry stamped with the submission time.
func NewVitalsEntry(at time.Time) *VitalsEntry {
	return &VitalsEntry{Date: at}
}

// WithWeight sets the weight in kg.
func (v *VitalsEntry) WithWeight(kg float64) *VitalsEntry {
	v.Weight = &kg
	return v
}

// WithPressure sets systolic and diastolic pressure in mmHg.
func (v *VitalsEntry) WithPressure(sys, dia int) *VitalsEntry {
	v.BPSys = &sys
	v.BPDia = &dia
	return v
}

// HasWeight reports whether a weight was recorded.
func (v VitalsEntry) HasWeight() bool {
	return v.Weight != nil && *v.Weight > 0
}

// HasPressure reports whether both pressure fields were recorded.
func (v VitalsEntry) HasPressure() bool {
	return v.BPSys != nil && v.BPDia != nil && *v.BPSys > 0 && *v.BPDia > 0
}

// Validate checks the entry before it is written.
func (v VitalsEntry) Validate() error {
	if v.Date.IsZero() {
		return fmt.Errorf("vitals entry has no date")
	}
	if v.Weight != nil && *v.Weight <= 0 {
		return fmt.Errorf("weight must be positive, got %v", *v.Weight)
	}
	if v.BPSys != nil && *v.BPSys <= 0 {
		return fmt.Errorf("systolic pressure must be positive, got %d", *v.BPSys)
	}
	if v.BPDia != nil && *v.BPDia <= 0 {
		return fmt.Errorf("diastolic pressure must be positive, got %d", *v.BPDia)
	}
	return nil
}
