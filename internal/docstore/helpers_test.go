// ABOUTME: Shared test helpers for document store tests.
// ABOUTME: Provides snapshot recorders and a backend matrix for contract tests.
package docstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorder collects snapshots delivered to a listener.
type recorder struct {
	snaps chan []Document
	errs  chan error
}

func newRecorder() *recorder {
	return &recorder{
		snaps: make(chan []Document, 64),
		errs:  make(chan error, 64),
	}
}

func (r *recorder) listener() Listener {
	return Listener{
		OnSnapshot: func(docs []Document) { r.snaps <- docs },
		OnError:    func(err error) { r.errs <- err },
	}
}

// next waits for the next snapshot.
func (r *recorder) next(t *testing.T) []Document {
	t.Helper()
	select {
	case docs := <-r.snaps:
		return docs
	case err := <-r.errs:
		t.Fatalf("unexpected subscription error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

// quiet asserts no snapshot arrives for a short while.
func (r *recorder) quiet(t *testing.T) {
	t.Helper()
	select {
	case docs := <-r.snaps:
		t.Fatalf("unexpected snapshot: %d docs", len(docs))
	case <-time.After(150 * time.Millisecond):
	}
}

type backend struct {
	name string
	open func(t *testing.T) Store
}

func backends() []backend {
	return []backend{
		{"sqlite", func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "carelog.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"badger", func(t *testing.T) Store {
			s, err := OpenBadger(filepath.Join(t.TempDir(), "badger"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}
