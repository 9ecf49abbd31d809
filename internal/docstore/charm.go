// ABOUTME: Charm KV document store backend with cloud sync.
// ABOUTME: Syncs after every write and polls the cloud so other devices' changes arrive live.
package docstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
)

const (
	// DefaultCharmDB is the Charm KV database name.
	DefaultCharmDB = "carelog"
	// DefaultCharmHost is the Charm server used when CHARM_HOST is unset.
	DefaultCharmHost = "charm.2389.dev"
)

// CharmOptions configures the Charm backend.
type CharmOptions struct {
	DBName       string
	Host         string
	PollInterval time.Duration
	AutoSync     bool
	Logger       *log.Logger
}

// CharmStore keeps documents in Charm KV, E2E encrypted and synced through Charm Cloud.
type CharmStore struct {
	*kvStore
	backend *charmBackend
	logger  *log.Logger
	stop    chan struct{}
	wg      sync.WaitGroup
}

var _ Store = (*CharmStore)(nil)

// OpenCharm opens the Charm KV database and pulls remote data.
func OpenCharm(opts CharmOptions) (*CharmStore, error) {
	if opts.DBName == "" {
		opts.DBName = DefaultCharmDB
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if os.Getenv("CHARM_HOST") == "" {
		host := opts.Host
		if host == "" {
			host = DefaultCharmHost
		}
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(opts.DBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	backend := &charmBackend{kv: db, autoSync: opts.AutoSync, logger: opts.Logger}
	s := &CharmStore{
		kvStore: newKVStore(backend),
		backend: backend,
		logger:  opts.Logger,
		stop:    make(chan struct{}),
	}

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		if err := db.Sync(); err != nil {
			s.logger.Warn("initial sync failed", "err", err)
		}
	}

	if opts.PollInterval > 0 {
		s.wg.Add(1)
		go s.poll(opts.PollInterval)
	}
	return s, nil
}

// Close stops polling and subscriptions, then closes the KV database.
func (s *CharmStore) Close() error {
	close(s.stop)
	s.wg.Wait()
	s.hub.close()
	return s.backend.close()
}

// Sync pulls and pushes changes, then republishes every live subscription.
func (s *CharmStore) Sync() error {
	if err := s.backend.sync(); err != nil {
		return err
	}
	s.hub.publishAll()
	return nil
}

// IsReadOnly returns true if another process holds the database lock.
func (s *CharmStore) IsReadOnly() bool {
	return s.backend.kv.IsReadOnly()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (s *CharmStore) Reset() error {
	s.backend.mu.Lock()
	err := s.backend.kv.Reset()
	s.backend.mu.Unlock()
	if err != nil {
		return err
	}
	s.hub.publishAll()
	return nil
}

func (s *CharmStore) poll(every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.hub.count() == 0 {
				continue
			}
			if err := s.Sync(); err != nil {
				s.logger.Warn("background sync failed", "err", err)
			}
		}
	}
}

type charmBackend struct {
	kv       *kv.KV
	autoSync bool
	logger   *log.Logger
	mu       sync.RWMutex
}

var errReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

func (b *charmBackend) get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys, err := b.kv.Keys()
	if err != nil {
		return nil, err
	}
	want := []byte(key)
	for _, k := range keys {
		if bytes.Equal(k, want) {
			return b.kv.Get(k)
		}
	}
	return nil, ErrNotFound
}

func (b *charmBackend) set(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.kv.IsReadOnly() {
		return errReadOnly
	}
	if err := b.kv.Set([]byte(key), value); err != nil {
		return err
	}
	b.syncIfEnabled()
	return nil
}

func (b *charmBackend) del(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.kv.IsReadOnly() {
		return errReadOnly
	}
	if err := b.kv.Delete([]byte(key)); err != nil {
		return err
	}
	b.syncIfEnabled()
	return nil
}

func (b *charmBackend) scan(prefix string) ([][]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys, err := b.kv.Keys()
	if err != nil {
		return nil, err
	}

	var results [][]byte
	p := []byte(prefix)
	for _, key := range keys {
		if bytes.HasPrefix(key, p) {
			val, err := b.kv.Get(key)
			if err != nil {
				return nil, err
			}
			results = append(results, val)
		}
	}
	return results, nil
}

func (b *charmBackend) sync() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.kv.IsReadOnly() {
		return nil
	}
	return b.kv.Sync()
}

// syncIfEnabled pushes a write to the cloud. Failures are logged; the write stays local.
func (b *charmBackend) syncIfEnabled() {
	if b.autoSync && !b.kv.IsReadOnly() {
		if err := b.kv.Sync(); err != nil {
			b.logger.Warn("sync after write failed", "err", err)
		}
	}
}

func (b *charmBackend) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.kv.Close()
}
