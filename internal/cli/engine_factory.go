package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/fieldline"
	"github.com/aretw0/fieldline/pkg/adapters/memory"
	"github.com/aretw0/fieldline/pkg/adapters/pebble"
	"github.com/aretw0/fieldline/pkg/adapters/redis"
	"github.com/aretw0/fieldline/pkg/adapters/sqlite"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/observability"
	"github.com/aretw0/fieldline/pkg/ports"
)

// EngineOptions contains the engine-related flags shared by all commands.
type EngineOptions struct {
	Debug    bool
	LogLevel string // debug, info, warn or error
	Scheme   string
	Store    string // memory, redis, pebble or sqlite
	StoreDSN string // redis URL, pebble directory or sqlite file
	Hooks    domain.TraceHooks
}

// OpenStore opens the result store of the given kind. The returned func releases it.
func OpenStore(kind, dsn string) (ports.ResultStore, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(kind) {
	case "", "memory":
		return memory.NewStore(), noop, nil
	case "redis":
		if dsn == "" {
			dsn = "redis://localhost:6379/0"
		}
		s, err := redis.NewFromURL(dsn)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "pebble":
		if dsn == "" {
			dsn = ".fieldline/traces"
		}
		s, err := pebble.Open(dsn)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "sqlite":
		if dsn == "" {
			dsn = ".fieldline/traces.db"
		}
		s, err := sqlite.Open(dsn)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q (memory, redis, pebble, sqlite)", kind)
	}
}

// createEngine initializes an Engine with standard CLI conventions.
// The returned func closes the store.
func createEngine(opts EngineOptions, logger *slog.Logger) (*fieldline.Engine, func() error, error) {
	store, closeStore, err := OpenStore(opts.Store, opts.StoreDSN)
	if err != nil {
		return nil, closeStore, fmt.Errorf("error opening store: %w", err)
	}

	hooks := opts.Hooks
	if opts.Debug {
		hooks = observability.Chain(observability.LogHooks(logger), hooks)
	}

	engineOpts := []fieldline.Option{
		fieldline.WithLogger(logger),
		fieldline.WithStore(store),
		fieldline.WithHooks(hooks),
	}
	if opts.Scheme != "" {
		engineOpts = append(engineOpts, fieldline.WithScheme(opts.Scheme))
	}

	engine, err := fieldline.New(engineOpts...)
	if err != nil {
		closeStore()
		return nil, func() error { return nil }, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closeStore, nil
}
