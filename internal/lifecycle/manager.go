// ABOUTME: Lifecycle manager binding live subscriptions and the reminder timer to the signed-in identity.
// ABOUTME: Every identity notification tears the old session down before a new one is set up.
package lifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/models"
	"github.com/harperreed/carelog/internal/projection"
	"github.com/harperreed/carelog/internal/reminder"
	"github.com/harperreed/carelog/internal/views"
)

// DefaultTickInterval is how often reminders are checked.
const DefaultTickInterval = 60 * time.Second

// ErrClosed is returned after Close.
var ErrClosed = errors.New("lifecycle manager closed")

// Subscriber opens live collection subscriptions. docstore.Store satisfies it.
// Subscribe must not deliver snapshots synchronously from inside the call.
type Subscriber interface {
	Subscribe(ctx context.Context, q docstore.Query, l docstore.Listener) (docstore.Unsubscribe, error)
}

// Notifier shows due reminders. *reminder.Gate satisfies it.
type Notifier interface {
	Notify(reminders []reminder.Reminder)
}

// Renderer draws a view. It runs while the manager's lock is held and must not
// call back into the manager.
type Renderer interface {
	Render(v views.View, changed []models.Kind)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(v views.View, changed []models.Kind)

// Render calls f.
func (f RenderFunc) Render(v views.View, changed []models.Kind) { f(v, changed) }

// State is the manager's position in the sign-in state machine.
type State int

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed in"
	}
	return "signed out"
}

// Config tunes a Manager.
type Config struct {
	TickInterval time.Duration
	Policy       reminder.Policy
	Location     *time.Location
	Clock        func() time.Time
	Logger       *log.Logger
}

func (c *Config) defaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Policy == "" {
		c.Policy = reminder.PolicyEveryTick
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// session is everything owned by one signed-in identity.
type session struct {
	identity models.Identity
	store    *projection.Store
	tracker  *reminder.Tracker
	cancel   context.CancelFunc
	unsubs   []docstore.Unsubscribe
	stop     chan struct{}
}

// Manager runs the SignedOut / SignedIn state machine.
type Manager struct {
	sub      Subscriber
	notifier Notifier
	renderer Renderer
	cfg      Config

	mu      sync.Mutex
	active  *session
	view    views.View
	changed chan struct{}
	closed  bool
	wg      sync.WaitGroup
}

// New creates a signed-out manager. notifier and renderer may be nil.
func New(sub Subscriber, notifier Notifier, renderer Renderer, cfg Config) *Manager {
	cfg.defaults()
	return &Manager{
		sub:      sub,
		notifier: notifier,
		renderer: renderer,
		cfg:      cfg,
		view:     views.Empty(),
		changed:  make(chan struct{}),
	}
}

// IdentityChanged handles an identity notification. nil means signed out.
// The previous session is always torn down first, even for the same identity.
func (m *Manager) IdentityChanged(id *models.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	m.teardownLocked()
	if id != nil {
		m.setupLocked(*id)
	}
}

func (m *Manager) teardownLocked() {
	if s := m.active; s != nil {
		m.active = nil
		for _, unsub := range s.unsubs {
			unsub()
		}
		s.cancel()
		close(s.stop)
		s.store.Reset()
		s.tracker.Reset()
		m.cfg.Logger.Debug("session torn down", "uid", s.identity.UID)
	}
	m.view = views.Empty()
	m.renderLocked(models.AllKinds)
}

func (m *Manager) setupLocked(id models.Identity) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		identity: id,
		store:    projection.New(),
		tracker:  reminder.NewTracker(m.cfg.Policy),
		cancel:   cancel,
		stop:     make(chan struct{}),
	}
	m.active = s

	queries := []docstore.Query{
		{UID: id.UID, Kind: models.KindVitals, OrderBy: docstore.OrderByDate},
		{UID: id.UID, Kind: models.KindMedications},
		{UID: id.UID, Kind: models.KindJournal, OrderBy: docstore.OrderByDate},
	}
	for _, q := range queries {
		unsub, err := m.sub.Subscribe(ctx, q, m.listener(s, q.Kind))
		if err != nil {
			m.cfg.Logger.Error("subscription failed", "uid", id.UID, "kind", q.Kind, "err", err)
			continue
		}
		s.unsubs = append(s.unsubs, unsub)
	}

	m.wg.Add(1)
	go m.runTicker(s)

	m.view.Identity = copyIdentity(&id)
	m.renderLocked(nil)
	m.cfg.Logger.Debug("session started", "uid", id.UID)
}

func (m *Manager) listener(s *session, kind models.Kind) docstore.Listener {
	return docstore.Listener{
		OnSnapshot: func(docs []docstore.Document) {
			m.apply(s, kind, docs)
		},
		OnError: func(err error) {
			m.cfg.Logger.Warn("subscription error", "uid", s.identity.UID, "kind", kind, "err", err)
		},
	}
}

// apply folds one snapshot into the session's projection. Snapshots for a
// session that is no longer active are dropped.
func (m *Manager) apply(s *session, kind models.Kind, docs []docstore.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != s {
		m.cfg.Logger.Debug("dropped stale snapshot", "uid", s.identity.UID, "kind", kind)
		return
	}

	var err error
	switch kind {
	case models.KindVitals:
		var recs []models.VitalsEntry
		if recs, err = docstore.DecodeVitals(docs); err == nil {
			s.store.ReplaceVitals(recs)
		}
	case models.KindMedications:
		var recs []models.Medication
		if recs, err = docstore.DecodeMedications(docs); err == nil {
			s.store.ReplaceMedications(recs)
		}
	case models.KindJournal:
		var recs []models.JournalEntry
		if recs, err = docstore.DecodeJournal(docs); err == nil {
			s.store.ReplaceJournal(recs)
		}
	}
	if err != nil {
		m.cfg.Logger.Warn("bad snapshot", "uid", s.identity.UID, "kind", kind, "err", err)
		return
	}

	m.view = views.Build(s.store, m.cfg.Location)
	m.view.Identity = copyIdentity(&s.identity)
	m.renderLocked(s.store.TakeDirty())
}

func (m *Manager) renderLocked(changed []models.Kind) {
	if m.renderer != nil {
		m.renderer.Render(m.view, changed)
	}
	close(m.changed)
	m.changed = make(chan struct{})
}

func (m *Manager) runTicker(s *session) {
	defer m.wg.Done()

	t := time.NewTicker(m.cfg.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			m.check(s, m.cfg.Clock())
		}
	}
}

// CheckReminders evaluates reminders for the active session at now and
// returns the ones sent to the notifier.
func (m *Manager) CheckReminders(now time.Time) []reminder.Reminder {
	m.mu.Lock()
	s := m.active
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	return m.check(s, now)
}

func (m *Manager) check(s *session, now time.Time) []reminder.Reminder {
	m.mu.Lock()
	if m.active != s {
		m.mu.Unlock()
		return nil
	}
	local := now.In(m.cfg.Location)
	fire := s.tracker.Filter(reminder.Due(s.store.Medications(), local), local)
	m.mu.Unlock()

	if len(fire) > 0 && m.notifier != nil {
		m.notifier.Notify(fire)
	}
	return fire
}

// State reports whether a session is active.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return SignedIn
	}
	return SignedOut
}

// Identity returns the active identity or nil.
func (m *Manager) Identity() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	return copyIdentity(&m.active.identity)
}

// View returns the latest derived view.
func (m *Manager) View() views.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// WaitReady blocks until every collection of the active session has delivered
// a snapshot, then returns the view.
func (m *Manager) WaitReady(ctx context.Context) (views.View, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return views.View{}, ErrClosed
		}
		if m.active == nil {
			m.mu.Unlock()
			return views.View{}, errors.New("no active session")
		}
		if m.view.Ready {
			v := m.view
			m.mu.Unlock()
			return v, nil
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return views.View{}, ctx.Err()
		case <-ch:
		}
	}
}

// Changed returns a channel closed at the next render.
func (m *Manager) Changed() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

// Close tears down the active session and waits for the reminder timer to stop.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.closed {
		m.teardownLocked()
		m.closed = true
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func copyIdentity(id *models.Identity) *models.Identity {
	c := *id
	return &c
}
