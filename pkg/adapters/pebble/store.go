package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/fieldline/pkg/domain"
	backend "github.com/cockroachdb/pebble"
	jsoniter "github.com/json-iterator/go"
)

const keyPrefix = "trace/"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store implements ports.ResultStore on a local pebble database, for archiving
// traces across CLI runs without a server.
type Store struct {
	db *backend.DB
}

// Open opens (or creates) the database at dir.
func Open(dir string) (*Store, error) {
	db, err := backend.Open(dir, &backend.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

// Save persists the record.
func (s *Store) Save(ctx context.Context, record *domain.TraceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.db.Set(key(record.ID), data, backend.Sync); err != nil {
		return fmt.Errorf("pebble: set %s: %w", record.ID, err)
	}
	return nil
}

// Load retrieves a record.
func (s *Store) Load(ctx context.Context, id string) (*domain.TraceRecord, error) {
	value, closer, err := s.db.Get(key(id))
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, domain.ErrTraceNotFound
		}
		return nil, fmt.Errorf("pebble: get %s: %w", id, err)
	}
	defer closer.Close()

	// value is only valid until closer.Close; Unmarshal copies what it keeps.
	var record domain.TraceRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.Delete(key(id), backend.Sync); err != nil {
		return fmt.Errorf("pebble: delete %s: %w", id, err)
	}
	return nil
}

// List returns record IDs in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	iter, err := s.db.NewIter(&backend.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: prefixUpperBound([]byte(keyPrefix)),
	})
	if err != nil {
		return nil, fmt.Errorf("pebble: list iterator: %w", err)
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Key()[len(keyPrefix):]))
	}
	return ids, iter.Error()
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xFF {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}
