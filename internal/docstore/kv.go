// ABOUTME: Document store logic shared by the key-value backends (Badger, Charm).
// ABOUTME: Keys are users/{uid}/{kind}/{id}; values are JSON envelopes with ordering keys.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/carelog/internal/models"
)

// kvBackend is the minimal key-value surface a backend provides.
// get returns ErrNotFound for missing keys.
type kvBackend interface {
	get(key string) ([]byte, error)
	set(key string, value []byte) error
	del(key string) error
	scan(prefix string) ([][]byte, error)
}

// envelope is the stored value for one document.
type envelope struct {
	ID      string          `json:"id"`
	Seq     int64           `json:"seq"`
	DateKey int64           `json:"date_key"`
	Data    json.RawMessage `json:"data"`
}

// kvStore implements Store on top of a kvBackend.
type kvStore struct {
	backend kvBackend
	hub     *hub
	mu      sync.Mutex // serializes read-modify-write
	now     func() time.Time
}

func newKVStore(b kvBackend) *kvStore {
	s := &kvStore{backend: b, now: time.Now}
	s.hub = newHub(s.list)
	return s
}

func docKey(ns, id string) string {
	return ns + "/" + id
}

// Create stores a new record and returns its generated ID.
func (s *kvStore) Create(ctx context.Context, uid string, kind models.Kind, record any) (string, error) {
	if err := validateScope(uid, kind); err != nil {
		return "", err
	}
	fields, err := encodeRecord(record)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	env := envelope{
		ID:      uuid.NewString(),
		Seq:     s.now().UnixNano(),
		DateKey: dateKey(fields),
		Data:    data,
	}
	ns := Namespace(uid, kind)
	if err := s.put(ns, env); err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	s.hub.publish(ns)
	return env.ID, nil
}

// Update merges fields into an existing record.
func (s *kvStore) Update(ctx context.Context, uid string, kind models.Kind, id string, fields map[string]any) error {
	if err := validateScope(uid, kind); err != nil {
		return err
	}
	ns := Namespace(uid, kind)

	s.mu.Lock()
	raw, err := s.backend.get(docKey(ns, id))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("update %s/%s: %w", ns, id, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	merged, err := mergeFields(env.Data, fields)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if env.Data, err = json.Marshal(merged); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("marshal document: %w", err)
	}
	env.DateKey = dateKey(merged)
	err = s.putLocked(ns, env)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	s.hub.publish(ns)
	return nil
}

// Delete removes a record.
func (s *kvStore) Delete(ctx context.Context, uid string, kind models.Kind, id string) error {
	if err := validateScope(uid, kind); err != nil {
		return err
	}
	ns := Namespace(uid, kind)
	key := docKey(ns, id)

	s.mu.Lock()
	if _, err := s.backend.get(key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete %s/%s: %w", ns, id, err)
	}
	err := s.backend.del(key)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	s.hub.publish(ns)
	return nil
}

// Subscribe delivers the collection now and after every change.
func (s *kvStore) Subscribe(ctx context.Context, q Query, l Listener) (Unsubscribe, error) {
	return s.hub.subscribe(ctx, q, l)
}

func (s *kvStore) put(ns string, env envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(ns, env)
}

func (s *kvStore) putLocked(ns string, env envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return s.backend.set(docKey(ns, env.ID), raw)
}

func (s *kvStore) list(ctx context.Context, q Query) ([]Document, error) {
	values, err := s.backend.scan(q.Namespace() + "/")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	envs := make([]envelope, 0, len(values))
	for _, raw := range values {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue // Skip invalid entries
		}
		envs = append(envs, env)
	}
	sortEnvelopes(envs, q.OrderBy)

	docs := make([]Document, 0, len(envs))
	for _, env := range envs {
		docs = append(docs, Document{ID: env.ID, Data: env.Data})
	}
	return docs, nil
}

func sortEnvelopes(envs []envelope, orderBy string) {
	sort.SliceStable(envs, func(i, j int) bool {
		if orderBy == OrderByDate && envs[i].DateKey != envs[j].DateKey {
			return envs[i].DateKey < envs[j].DateKey
		}
		if envs[i].Seq != envs[j].Seq {
			return envs[i].Seq < envs[j].Seq
		}
		return envs[i].ID < envs[j].ID
	})
}
