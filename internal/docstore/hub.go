// ABOUTME: Subscription fan-out shared by all backends.
// ABOUTME: Each subscription re-reads its full collection on change and delivers it in order.
package docstore

import (
	"context"
	"crypto/sha256"
	"sync"
)

type fetchFunc func(ctx context.Context, q Query) ([]Document, error)

// hub tracks live subscriptions per namespace. Writers call publish after a
// successful write; each affected subscription wakes, re-fetches, and delivers.
type hub struct {
	fetch  fetchFunc
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	subs   map[string]map[*subscription]struct{}
	closed bool
	wg     sync.WaitGroup
}

type subscription struct {
	q    Query
	l    Listener
	wake chan struct{}
	done chan struct{}
	once sync.Once
	last [sha256.Size]byte
	sent bool
}

func newHub(fetch fetchFunc) *hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &hub{
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]map[*subscription]struct{}),
	}
}

func (h *hub) subscribe(ctx context.Context, q Query, l Listener) (Unsubscribe, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if l.OnSnapshot == nil {
		l.OnSnapshot = func([]Document) {}
	}

	s := &subscription{
		q:    q,
		l:    l,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	ns := q.Namespace()
	if h.subs[ns] == nil {
		h.subs[ns] = make(map[*subscription]struct{})
	}
	h.subs[ns][s] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	// Initial snapshot.
	s.signal()
	go h.run(ctx, s)

	return func() { h.remove(s) }, nil
}

func (h *hub) remove(s *subscription) {
	s.once.Do(func() { close(s.done) })
	h.mu.Lock()
	defer h.mu.Unlock()
	ns := s.q.Namespace()
	delete(h.subs[ns], s)
	if len(h.subs[ns]) == 0 {
		delete(h.subs, ns)
	}
}

func (h *hub) run(ctx context.Context, s *subscription) {
	defer h.wg.Done()
	defer h.remove(s)

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-h.ctx.Done():
			return
		case <-s.wake:
		}

		docs, err := h.fetch(h.ctx, s.q)
		if s.cancelled() {
			return
		}
		if err != nil {
			if s.l.OnError != nil {
				s.l.OnError(err)
			}
			continue
		}

		sum := fingerprint(docs)
		if s.sent && sum == s.last {
			continue
		}
		s.last, s.sent = sum, true
		s.l.OnSnapshot(docs)
	}
}

func (s *subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) cancelled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// publish wakes every subscription on a namespace.
func (h *hub) publish(ns string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[ns] {
		s.signal()
	}
}

// publishAll wakes every subscription, used after pulling remote changes.
func (h *hub) publishAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subs {
		for s := range set {
			s.signal()
		}
	}
}

// count returns the number of live subscriptions.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

func (h *hub) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
}

func fingerprint(docs []Document) [sha256.Size]byte {
	hash := sha256.New()
	for _, d := range docs {
		hash.Write([]byte(d.ID))
		hash.Write([]byte{0})
		hash.Write(d.Data)
		hash.Write([]byte{0})
	}
	var sum [sha256.Size]byte
	copy(sum[:], hash.Sum(nil))
	return sum
}
