// ABOUTME: Identity session persisted to a small JSON state file.
// ABOUTME: Listeners are told the current identity on registration and on every change.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/carelog/internal/models"
)

// ErrNotSignedIn is returned when an operation needs a signed-in identity.
var ErrNotSignedIn = errors.New("not signed in")

// Listener receives the identity after every change; nil means signed out.
type Listener func(*models.Identity)

type state struct {
	Identity   *models.Identity `json:"identity,omitempty"`
	Provider   string           `json:"provider,omitempty"`
	SignedInAt time.Time        `json:"signed_in_at,omitempty"`
}

// Session tracks who is signed in.
type Session struct {
	path     string
	provider Provider
	logger   *log.Logger

	mu        sync.Mutex
	current   state
	listeners map[int]Listener
	nextID    int
}

// Open loads the session state file, if any.
func Open(path string, provider Provider, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{
		path:      path,
		provider:  provider,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
	st, err := readState(path)
	if err != nil {
		return nil, err
	}
	s.current = st
	return s, nil
}

func readState(path string) (state, error) {
	var st state
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse session: %w", err)
	}
	return st, nil
}

func (s *Session) writeState(st state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Current returns the signed-in identity or nil.
func (s *Session) Current() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIdentity(s.current.Identity)
}

// Require returns the signed-in identity or ErrNotSignedIn.
func (s *Session) Require() (*models.Identity, error) {
	if id := s.Current(); id != nil {
		return id, nil
	}
	return nil, ErrNotSignedIn
}

// Provider returns the name of the provider used for the current sign-in.
func (s *Session) Provider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Provider
}

// OnIdentityChanged registers fn, calls it right away with the current identity,
// and returns a function that removes it.
func (s *Session) OnIdentityChanged(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := copyIdentity(s.current.Identity)
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn asks the provider for an identity and notifies listeners.
func (s *Session) SignIn(ctx context.Context) (*models.Identity, error) {
	ident, err := s.provider.SignIn(ctx)
	if err != nil {
		s.logger.Error("sign-in failed", "provider", s.provider.Name(), "err", err)
		return nil, fmt.Errorf("sign in: %w", err)
	}

	st := state{Identity: ident, Provider: s.provider.Name(), SignedInAt: time.Now().UTC()}
	if err := s.writeState(st); err != nil {
		s.logger.Error("sign-in failed", "provider", s.provider.Name(), "err", err)
		return nil, err
	}
	s.set(st)
	s.logger.Info("signed in", "uid", ident.UID, "name", ident.DisplayName)
	return copyIdentity(ident), nil
}

// SignOut clears the identity and notifies listeners.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Error("sign-out failed", "provider", s.provider.Name(), "err", err)
		return fmt.Errorf("sign out: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("sign-out failed", "err", err)
		return fmt.Errorf("remove session: %w", err)
	}
	s.set(state{})
	s.logger.Info("signed out")
	return nil
}

// Refresh rereads the state file and notifies listeners if another process
// signed in or out. It reports whether the identity changed.
func (s *Session) Refresh() (bool, error) {
	st, err := readState(s.path)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	unchanged := s.current.Identity.Same(st.Identity) && s.current.SignedInAt.Equal(st.SignedInAt)
	s.mu.Unlock()
	if unchanged {
		return false, nil
	}
	s.set(st)
	return true, nil
}

func (s *Session) set(st state) {
	s.mu.Lock()
	s.current = st
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copyIdentity(st.Identity))
	}
}

func copyIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
