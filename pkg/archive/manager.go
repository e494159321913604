package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/fieldline/internal/logging"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to trace records by ID on top of a ResultStore.
// Locks are reference counted and dropped once no caller holds or waits for them.
type Manager struct {
	store ports.ResultStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.ResultStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the lock for id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// LoadOrCreate returns the stored record for id, or calls create and stores its
// result. Concurrent callers with the same id wait for the first one, so create
// runs once. A failed Save is logged and the created record is still returned.
func (m *Manager) LoadOrCreate(ctx context.Context, id string, create func(context.Context) (*domain.TraceRecord, error)) (record *domain.TraceRecord, created bool, err error) {
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		record, err = m.store.Load(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrTraceNotFound) {
			return fmt.Errorf("failed to load trace %s: %w", id, err)
		}

		record, err = create(ctx)
		if err != nil {
			return err
		}
		created = true

		if err := m.store.Save(ctx, record); err != nil {
			m.logger.Warn("failed to store trace", "trace_id", id, "err", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return record, created, nil
}

// Load retrieves a record.
func (m *Manager) Load(ctx context.Context, id string) (*domain.TraceRecord, error) {
	var record *domain.TraceRecord
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		record, err = m.store.Load(ctx, id)
		return err
	})
	return record, err
}

// Delete removes a record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
