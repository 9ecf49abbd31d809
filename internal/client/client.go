// ABOUTME: Write commands scoped to the active identity's namespace.
// ABOUTME: Writes are fire-and-forget; each returns a channel carrying its outcome.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/carelog/internal/models"
)

// ErrSignedOut is the outcome of a write attempted with no active identity.
var ErrSignedOut = errors.New("cannot write while signed out")

// DefaultTimeout bounds a single write.
const DefaultTimeout = 30 * time.Second

// Writer is the write half of docstore.Store.
type Writer interface {
	Create(ctx context.Context, uid string, kind models.Kind, record any) (string, error)
	Update(ctx context.Context, uid string, kind models.Kind, id string, fields map[string]any) error
	Delete(ctx context.Context, uid string, kind models.Kind, id string) error
}

// IdentitySource reports the active identity. *lifecycle.Manager satisfies it.
type IdentitySource interface {
	Identity() *models.Identity
}

// Op names a write operation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Outcome is the result of one write.
type Outcome struct {
	Op   Op
	Kind models.Kind
	ID   string
	Err  error
}

// OK reports whether the write succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Client issues writes for whoever is signed in.
type Client struct {
	store   Writer
	ids     IdentitySource
	logger  *log.Logger
	now     func() time.Time
	timeout time.Duration
	wg      sync.WaitGroup
}

// New creates a client.
func New(store Writer, ids IdentitySource, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{store: store, ids: ids, logger: logger, now: time.Now, timeout: DefaultTimeout}
}

// SetClock replaces the clock used to stamp new records.
func (c *Client) SetClock(now func() time.Time) { c.now = now }

// SubmitVitals records a vitals entry stamped with the current time.
// Any field may be nil.
func (c *Client) SubmitVitals(weight *float64, sys, dia *int) <-chan Outcome {
	entry := models.VitalsEntry{Date: c.now(), Weight: weight, BPSys: sys, BPDia: dia}
	if err := entry.Validate(); err != nil {
		return done(Outcome{Op: OpCreate, Kind: models.KindVitals, Err: err})
	}
	return c.create(models.KindVitals, entry)
}

// SubmitMedication adds an untaken medication.
func (c *Client) SubmitMedication(name, dose, hhmm string) <-chan Outcome {
	med := models.NewMedication(name).WithDose(dose).WithTime(hhmm)
	if err := med.Validate(); err != nil {
		return done(Outcome{Op: OpCreate, Kind: models.KindMedications, Err: err})
	}
	return c.create(models.KindMedications, med)
}

// SubmitJournal adds a journal entry. Blank text is a no-op with a nil channel.
func (c *Client) SubmitJournal(text string) <-chan Outcome {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.create(models.KindJournal, models.NewJournalEntry(text, c.now()))
}

// SetTaken sets a medication's taken flag.
func (c *Client) SetTaken(id string, taken bool) <-chan Outcome {
	return c.write(OpUpdate, models.KindMedications, id, func(ctx context.Context, uid string) (string, error) {
		return id, c.store.Update(ctx, uid, models.KindMedications, id, map[string]any{"taken": taken})
	})
}

// Delete removes a record.
func (c *Client) Delete(kind models.Kind, id string) <-chan Outcome {
	return c.write(OpDelete, kind, id, func(ctx context.Context, uid string) (string, error) {
		return id, c.store.Delete(ctx, uid, kind, id)
	})
}

// Wait blocks until every write issued so far has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

func (c *Client) create(kind models.Kind, record any) <-chan Outcome {
	return c.write(OpCreate, kind, "", func(ctx context.Context, uid string) (string, error) {
		return c.store.Create(ctx, uid, kind, record)
	})
}

func (c *Client) write(op Op, kind models.Kind, id string, fn func(ctx context.Context, uid string) (string, error)) <-chan Outcome {
	ident := c.ids.Identity()
	if ident == nil {
		return done(Outcome{Op: op, Kind: kind, ID: id, Err: ErrSignedOut})
	}
	if op != OpCreate && id == "" {
		return done(Outcome{Op: op, Kind: kind, Err: fmt.Errorf("%s %s: missing id", op, kind)})
	}

	out := make(chan Outcome, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		newID, err := fn(ctx, ident.UID)
		if err != nil {
			c.logger.Error("write failed", "op", op, "kind", kind, "id", id, "err", err)
			err = fmt.Errorf("%s %s: %w", op, kind, err)
		}
		out <- Outcome{Op: op, Kind: kind, ID: newID, Err: err}
	}()
	return out
}

func done(o Outcome) <-chan Outcome {
	ch := make(chan Outcome, 1)
	ch <- o
	return ch
}
