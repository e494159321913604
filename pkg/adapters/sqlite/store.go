// Package sqlite stores trace records in a SQLite database, so archived traces can be
// queried by reason or age with ordinary SQL tools.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/fieldline/pkg/domain"
	jsoniter "github.com/json-iterator/go"

	_ "modernc.org/sqlite"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const schema = `
CREATE TABLE IF NOT EXISTS traces (
    id TEXT PRIMARY KEY,
    reason TEXT,
    points INTEGER,
    created_at INTEGER,
    record BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS traces_reason ON traces(reason);`

// Store implements ports.ResultStore on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save persists the record, replacing any record with the same ID.
func (s *Store) Save(ctx context.Context, record *domain.TraceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	var reason string
	var points int
	if record.Result != nil {
		reason = string(record.Result.Reason)
		points = len(record.Result.Points)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO traces (id, reason, points, created_at, record) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    reason = excluded.reason,
    points = excluded.points,
    created_at = excluded.created_at,
    record = excluded.record`,
		record.ID, reason, points, record.CreatedAt.Unix(), data)
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", record.ID, err)
	}
	return nil
}

// Load retrieves a record.
func (s *Store) Load(ctx context.Context, id string) (*domain.TraceRecord, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT record FROM traces WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTraceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load %s: %w", id, err)
	}

	var record domain.TraceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

// Delete removes a record. Deleting a missing ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	return nil
}

// List returns record IDs in ID order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.queryIDs(ctx, `SELECT id FROM traces ORDER BY id`)
}

// ListByReason returns the IDs of records that terminated for reason.
func (s *Store) ListByReason(ctx context.Context, reason domain.Reason) ([]string, error) {
	return s.queryIDs(ctx, `SELECT id FROM traces WHERE reason = ? ORDER BY id`, string(reason))
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
