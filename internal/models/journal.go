// ABOUTME: JournalEntry model for free-text journal notes.
// ABOUTME: Text keeps its line breaks; entries are immutable once created.
package models

import (
	"strings"
	"time"
)

// JournalEntry is a dated free-text note.
type JournalEntry struct {
	ID   string    `json:"id,omitempty" yaml:"id,omitempty"`
	Date time.Time `json:"date" yaml:"date"`
	Text string    `json:"text" yaml:"text"`
}

// NewJournalEntry creates an entry from trimmed text.
func NewJournalEntry(text string, at time.Time) *JournalEntry {
	return &JournalEntry{Date: at, Text: strings.TrimSpace(text)}
}

// Lines splits the text on line breaks.
func (j JournalEntry) Lines() []string {
	return strings.Split(strings.ReplaceAll(j.Text, "\r\n", "\n"), "\n")
}
