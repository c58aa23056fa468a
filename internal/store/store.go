// Package store persists generated split plans to a local SQLite database so
// past planning runs can be listed and reloaded.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/supernova/internal/plan"
)

// ErrNotFound is returned when no plan exists for the requested id.
var ErrNotFound = errors.New("plan not found")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source_path TEXT NOT NULL DEFAULT '',
    strategy    TEXT NOT NULL,
    target_prs  INTEGER NOT NULL,
    actual_prs  INTEGER NOT NULL,
    total_files INTEGER NOT NULL,
    total_size  INTEGER NOT NULL,
    payload     TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Entry is one row of plan history, without the full payload.
type Entry struct {
	ID         int64     `json:"id"`
	SourcePath string    `json:"source_path,omitempty"`
	Strategy   string    `json:"strategy"`
	TargetPRs  int       `json:"target_prs"`
	ActualPRs  int       `json:"actual_prs"`
	TotalFiles int       `json:"total_files"`
	TotalSize  int       `json:"total_size"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store records plan history in a local SQLite database in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and busy
// timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite only supports a single writer; one connection avoids
	// SQLITE_BUSY contention between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordPlan inserts a plan and returns its history id.
func (s *Store) RecordPlan(ctx context.Context, p *plan.Plan) (int64, error) {
	payload, err := p.MarshalIndent()
	if err != nil {
		return 0, fmt.Errorf("store: encode plan: %w", err)
	}
	const q = `
		INSERT INTO plans (source_path, strategy, target_prs, actual_prs, total_files, total_size, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		p.SourcePath, p.Strategy, p.TargetPRCount,
		p.Summary.ActualPRCount, p.Summary.TotalFiles, p.Summary.TotalSize,
		string(payload))
	if err != nil {
		return 0, fmt.Errorf("store: record plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first, up to limit. A limit of
// 0 or less means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `
		SELECT id, source_path, strategy, target_prs, actual_prs, total_files, total_size, created_at
		FROM plans ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list plans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SourcePath, &e.Strategy, &e.TargetPRs, &e.ActualPRs, &e.TotalFiles, &e.TotalSize, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan plan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate plans: %w", err)
	}
	return entries, nil
}

// LoadPlan returns the full plan stored under id.
func (s *Store) LoadPlan(ctx context.Context, id int64) (*plan.Plan, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM plans WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: plan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load plan %d: %w", id, err)
	}
	p, err := plan.Decode(strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("store: decode plan %d: %w", id, err)
	}
	return p, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
