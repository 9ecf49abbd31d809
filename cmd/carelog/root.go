// ABOUTME: Root Cobra command for the carelog CLI.
// ABOUTME: Loads config and session up front; data commands open the store on demand.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/client"
	"github.com/harperreed/carelog/internal/config"
	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/identity"
	"github.com/harperreed/carelog/internal/lifecycle"
	"github.com/harperreed/carelog/internal/views"
)

var (
	cfg     *config.Config
	logger  *log.Logger
	session *identity.Session

	store      docstore.Store
	manager    *lifecycle.Manager
	writer     *client.Client
	unwatchIDs func()
)

// readyTimeout bounds how long a one-shot command waits for its first snapshots.
const readyTimeout = 15 * time.Second

var rootCmd = &cobra.Command{
	Use:   "carelog",
	Short: "Personal health log: vitals, medications, and journal",
	Long: `carelog tracks vitals, medications with reminders, and a daily journal.

QUICK START:

  $ carelog login --name ann                 # Sign in to a local profile
  $ carelog vitals add --weight 82.5         # Log your weight
  $ carelog vitals add --bp 120/80           # Log blood pressure
  $ carelog meds add Aspirin --dose 100mg --time 08:30
  $ carelog meds take abc123                 # Mark a medication as taken
  $ carelog journal add "Slept well"         # Write a journal entry
  $ carelog dashboard                        # Latest weight, BP, meds taken

LIVE VIEW:

  $ carelog watch     # Dashboard that redraws on every change and
                      # shows medication reminders at their scheduled time

LABEL SCANNING:

  $ carelog meds scan label.jpg --add --dose 10mg   # OCR a pill bottle label

STORAGE:

  Backends are selected in ~/.config/carelog/config.json or CARELOG_BACKEND:
    sqlite   local database (default)
    badger   embedded key-value store
    charm    Charm Cloud, E2E encrypted and synced across devices

MCP INTEGRATION:

  Run 'carelog mcp' to start the Model Context Protocol server.

  {
    "mcpServers": {
      "carelog": { "command": "carelog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = newLogger(cfg)

		session, err = identity.Open(cfg.SessionPath(), providerFor(cfg, "", false), logger)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

func newLogger(c *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "carelog",
		Level:           c.Level(),
		ReportTimestamp: true,
	})
}

// providerFor picks the identity provider for the configured backend.
func providerFor(c *config.Config, name string, useCharm bool) identity.Provider {
	if useCharm || c.GetBackend() == config.BackendCharm {
		return identity.CharmProvider{}
	}
	return identity.LocalProvider{Profile: name}
}

// openApp opens the store and starts the lifecycle manager bound to the session.
func openApp(notifier lifecycle.Notifier, renderer lifecycle.Renderer) error {
	if store != nil {
		return nil
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	s, err := cfg.OpenStore(logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
	}
	store = s

	manager = lifecycle.New(store, notifier, renderer, lifecycle.Config{
		TickInterval: cfg.TickInterval(),
		Policy:       policy,
		Logger:       logger,
	})
	writer = client.New(store, manager, logger)
	unwatchIDs = session.OnIdentityChanged(manager.IdentityChanged)
	return nil
}

func closeApp() error {
	if writer != nil {
		writer.Wait()
	}
	if unwatchIDs != nil {
		unwatchIDs()
	}
	if manager != nil {
		manager.Close()
	}

	var err error
	if store != nil {
		err = store.Close()
	}
	store, manager, writer, unwatchIDs = nil, nil, nil, nil
	return err
}

// requireSignedIn opens the app for a signed-in user.
func requireSignedIn() error {
	if session.Current() == nil {
		return fmt.Errorf("%w; run 'carelog login' first", identity.ErrNotSignedIn)
	}
	return openApp(nil, nil)
}

// waitCtx bounds a one-shot command that talks to the store.
func waitCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), readyTimeout)
}

// loadView waits for the first snapshot of every collection.
func loadView(ctx context.Context) (views.View, error) {
	if err := requireSignedIn(); err != nil {
		return views.View{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	v, err := manager.WaitReady(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return views.View{}, fmt.Errorf("timed out loading data from %s store", cfg.GetBackend())
	}
	return v, err
}
