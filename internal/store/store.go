// Package store persists named desktop snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/windows"
)

// ErrNotFound is returned when no snapshot has the requested name.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the restorable part of a session.
type Snapshot struct {
	Name      string              `json:"name"`
	SessionID string              `json:"session_id,omitempty"`
	SavedAt   time.Time           `json:"saved_at"`
	Windows   []windows.AppWindow `json:"windows"`
	SortKey   icons.SortKey       `json:"sort_key,omitempty"`
	Direction icons.Direction     `json:"direction,omitempty"`
}

// Summary is a listing row.
type Summary struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Windows int       `json:"windows"`
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    name TEXT PRIMARY KEY,
    saved_at INTEGER NOT NULL,     -- UnixNano
    window_count INTEGER NOT NULL,
    data TEXT NOT NULL             -- JSON Snapshot
);
`

// Store is a snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes snap under its name, replacing an existing snapshot. A zero
// SavedAt is set to now.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	if snap.Name == "" {
		return fmt.Errorf("snapshot name is required")
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", snap.Name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (name, saved_at, window_count, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET saved_at = excluded.saved_at,
		     window_count = excluded.window_count, data = excluded.data`,
		snap.Name, snap.SavedAt.UnixNano(), len(snap.Windows), string(data))
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", snap.Name, err)
	}
	return nil
}

// Load returns the named snapshot or ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	return snap, nil
}

// List returns all snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, saved_at, window_count FROM snapshots ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum   Summary
			nanos int64
		)
		if err := rows.Scan(&sum.Name, &nanos, &sum.Windows); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		sum.SavedAt = time.Unix(0, nanos)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the named snapshot or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}
