// Package journal is an append-only sqlite log of committed reorders. It is
// written after each reorder and read back only for display; list order is
// never restored from it.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// modernc.org/sqlite driver name is "sqlite".
	_ "modernc.org/sqlite"
)

// Entry is one committed reorder.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	ItemID    string    `json:"itemId"`
	Label     string    `json:"label"`
	From      int       `json:"from"`
	To        int       `json:"to"`
	Count     int       `json:"count"`
	At        time.Time `json:"at"`
}

type Journal struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// WAL lets `draglist journal` read while a TUI session writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal pragma: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db, path: path}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reorders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			label TEXT NOT NULL,
			from_index INTEGER NOT NULL,
			to_index INTEGER NOT NULL,
			list_len INTEGER NOT NULL,
			at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reorders_at ON reorders(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Path() string { return j.path }

// Record appends e. A zero At is stamped with the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO reorders(session_id, item_id, label, from_index, to_index, list_len, at_unixms)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.ItemID, e.Label, e.From, e.To, e.Count, e.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record reorder: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, session_id, item_id, label, from_index, to_index, list_len, at_unixms
	      FROM reorders ORDER BY at_unixms DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var atMS int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.ItemID, &e.Label, &e.From, &e.To, &e.Count, &atMS); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.At = time.UnixMilli(atMS).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return out, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
