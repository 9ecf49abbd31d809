// ABOUTME: Document store contract: per-identity collections with live ordered snapshots.
// ABOUTME: Defines queries, documents, listeners, and helpers shared by every backend.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/carelog/internal/models"
)

// OrderByDate sorts a collection by its date field, oldest first.
const OrderByDate = "date"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// Store is the document database the client delegates persistence and sync to.
// Every operation is scoped to one identity's namespace.
type Store interface {
	Create(ctx context.Context, uid string, kind models.Kind, record any) (string, error)
	Update(ctx context.Context, uid string, kind models.Kind, id string, fields map[string]any) error
	Delete(ctx context.Context, uid string, kind models.Kind, id string) error
	Subscribe(ctx context.Context, q Query, l Listener) (Unsubscribe, error)
	Close() error
}

// Query selects one collection of one identity.
type Query struct {
	UID     string
	Kind    models.Kind
	OrderBy string
}

// Validate checks the query before it reaches a backend.
func (q Query) Validate() error {
	if err := validateScope(q.UID, q.Kind); err != nil {
		return err
	}
	if q.OrderBy != "" && q.OrderBy != OrderByDate {
		return fmt.Errorf("unsupported order: %q", q.OrderBy)
	}
	return nil
}

// Namespace returns the collection path, users/{uid}/{kind}.
func (q Query) Namespace() string {
	return Namespace(q.UID, q.Kind)
}

// Namespace returns the collection path for an identity and kind.
func Namespace(uid string, kind models.Kind) string {
	return "users/" + uid + "/" + string(kind)
}

// Document is one stored record: its storage-assigned ID and JSON fields.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Listener receives snapshots for one subscription.
// OnSnapshot gets the complete, ordered collection every time it changes.
type Listener struct {
	OnSnapshot func(docs []Document)
	OnError    func(err error)
}

// Unsubscribe cancels a subscription. Safe to call more than once.
type Unsubscribe func()

func validateScope(uid string, kind models.Kind) error {
	if strings.TrimSpace(uid) == "" {
		return fmt.Errorf("identity is required")
	}
	if strings.Contains(uid, "/") {
		return fmt.Errorf("invalid identity %q", uid)
	}
	if !models.IsValidKind(string(kind)) {
		return fmt.Errorf("unknown collection: %q", kind)
	}
	return nil
}

// encodeRecord marshals a record to its stored field map, dropping any id field.
func encodeRecord(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("record must be an object: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// mergeFields applies a partial update on top of stored fields.
func mergeFields(stored json.RawMessage, update map[string]any) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(stored, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal stored document: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	for k, v := range update {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	return fields, nil
}

// dateKey extracts the ordering key from the date field; records without one sort first.
func dateKey(fields map[string]any) int64 {
	switch v := fields[OrderByDate].(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return 0
		}
		return t.UnixNano()
	case time.Time:
		return v.UnixNano()
	}
	return 0
}

// Decode unmarshals documents into typed records, assigning each record its document ID.
func Decode[T any](docs []Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var rec T
		if err := json.Unmarshal(d.Data, &rec); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", d.ID, err)
		}
		setID(&rec, d.ID)
		out = append(out, rec)
	}
	return out, nil
}

// DecodeVitals decodes a vitals snapshot.
func DecodeVitals(docs []Document) ([]models.VitalsEntry, error) {
	return Decode(docs, func(v *models.VitalsEntry, id string) { v.ID = id })
}

// DecodeMedications decodes a medications snapshot.
func DecodeMedications(docs []Document) ([]models.Medication, error) {
	return Decode(docs, func(m *models.Medication, id string) { m.ID = id })
}

// DecodeJournal decodes a journal snapshot.
func DecodeJournal(docs []Document) ([]models.JournalEntry, error) {
	return Decode(docs, func(j *models.JournalEntry, id string) { j.ID = id })
}
