// ABOUTME: Notification emitters and the permission gate in front of them.
// ABOUTME: Permission is requested once; a denial silently drops every reminder.
package reminder

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// Emitter shows reminders to the user.
type Emitter interface {
	RequestPermission(ctx context.Context) (bool, error)
	Notify(r Reminder) error
}

// Gate requests permission from an emitter once and forwards reminders only if granted.
type Gate struct {
	emitter Emitter
	logger  *log.Logger

	once    sync.Once
	mu      sync.Mutex
	granted bool
}

// NewGate wraps an emitter.
func NewGate(e Emitter, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gate{emitter: e, logger: logger}
}

// Request asks for permission the first time it is called; later calls are no-ops.
func (g *Gate) Request(ctx context.Context) {
	g.once.Do(func() {
		ok, err := g.emitter.RequestPermission(ctx)
		if err != nil {
			g.logger.Debug("notification permission request failed", "err", err)
			ok = false
		}
		g.mu.Lock()
		g.granted = ok
		g.mu.Unlock()
	})
}

// Granted reports whether reminders will be shown.
func (g *Gate) Granted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted
}

// Notify forwards reminders when permission was granted.
func (g *Gate) Notify(reminders []Reminder) {
	if !g.Granted() {
		return
	}
	for _, r := range reminders {
		if err := g.emitter.Notify(r); err != nil {
			g.logger.Warn("failed to show reminder", "medication", r.MedicationID, "err", err)
		}
	}
}

// ConsoleEmitter prints reminders to a terminal.
type ConsoleEmitter struct {
	Out   io.Writer
	Bell  bool
	Clock func() time.Time
}

// NewConsoleEmitter prints to stdout with a terminal bell.
func NewConsoleEmitter() *ConsoleEmitter {
	return &ConsoleEmitter{Out: os.Stdout, Bell: true, Clock: time.Now}
}

// RequestPermission always grants; a terminal needs no permission.
func (c *ConsoleEmitter) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// Notify prints one reminder.
func (c *ConsoleEmitter) Notify(r Reminder) error {
	bell := ""
	if c.Bell {
		bell = "\a"
	}
	now := time.Now
	if c.Clock != nil {
		now = c.Clock
	}
	heading := color.New(color.FgYellow, color.Bold).Sprintf("⏰ %s", r.Title)
	_, err := fmt.Fprintf(c.Out, "%s%s %s\n  %s\n", bell, heading, color.HiBlackString(now().Format("15:04")), r.Body)
	return err
}
