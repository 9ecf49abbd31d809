// ABOUTME: SQLite document store backend with live subscriptions.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/harperreed/carelog/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every identity's collections in one local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	hub    *hub
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates a SQLite document store at the given path.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: subscription reads and writes share it, so pragmas stick.
	db.SetMaxOpenConns(1)

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	s.hub = newHub(s.list)
	return s, nil
}

// Close stops all subscriptions and closes the database.
func (s *SQLiteStore) Close() error {
	s.hub.close()
	return s.db.Close()
}

func (s *SQLiteStore) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		namespace TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		date_key INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(namespace, id)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_namespace_date ON documents(namespace, date_key, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create stores a new record and returns its generated ID.
func (s *SQLiteStore) Create(ctx context.Context, uid string, kind models.Kind, record any) (string, error) {
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

	id := uuid.NewString()
	ns := Namespace(uid, kind)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (namespace, id, data, date_key) VALUES (?, ?, ?, ?)`,
		ns, id, string(data), dateKey(fields))
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	s.hub.publish(ns)
	return id, nil
}

// Update merges fields into an existing record.
func (s *SQLiteStore) Update(ctx context.Context, uid string, kind models.Kind, id string, fields map[string]any) error {
	if err := validateScope(uid, kind); err != nil {
		return err
	}
	ns := Namespace(uid, kind)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE namespace = ? AND id = ?`, ns, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s/%s: %w", ns, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	merged, err := mergeFields(json.RawMessage(stored), fields)
	if err != nil {
		return err
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, date_key = ?, updated_at = CURRENT_TIMESTAMP WHERE namespace = ? AND id = ?`,
		string(data), dateKey(merged), ns, id)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}

	s.hub.publish(ns)
	return nil
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, uid string, kind models.Kind, id string) error {
	if err := validateScope(uid, kind); err != nil {
		return err
	}
	ns := Namespace(uid, kind)

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE namespace = ? AND id = ?`, ns, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s/%s: %w", ns, id, ErrNotFound)
	}

	s.hub.publish(ns)
	return nil
}

// Subscribe delivers the collection now and after every change.
func (s *SQLiteStore) Subscribe(ctx context.Context, q Query, l Listener) (Unsubscribe, error) {
	return s.hub.subscribe(ctx, q, l)
}

func (s *SQLiteStore) list(ctx context.Context, q Query) ([]Document, error) {
	query := `SELECT id, data FROM documents WHERE namespace = ? ORDER BY seq ASC`
	if q.OrderBy == OrderByDate {
		query = `SELECT id, data FROM documents WHERE namespace = ? ORDER BY date_key ASC, seq ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, q.Namespace())
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, Document{ID: id, Data: json.RawMessage(data)})
	}
	return docs, rows.Err()
}
