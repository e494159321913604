package fieldline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/fieldline/internal/logging"
	"github.com/aretw0/fieldline/internal/runtime"
	"github.com/aretw0/fieldline/pkg/adapters/memory"
	"github.com/aretw0/fieldline/pkg/archive"
	"github.com/aretw0/fieldline/pkg/calibration"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/aretw0/fieldline/pkg/registry"
	"github.com/aretw0/fieldline/pkg/schema"
)

// Engine is the high-level entry point for the fieldline library.
// It wraps the internal tracer, resolves named models and caches finished traces.
type Engine struct {
	tracer    *runtime.Tracer
	registry  *registry.Registry
	store     ports.ResultStore
	archive   *archive.Manager
	logger    *slog.Logger
	hooks     domain.TraceHooks
	scheme    string
	threshold float64
	halvings  int
}

var _ ports.TraceService = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.TraceHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithScheme selects the integration scheme by name ("merson" or "doubling").
func WithScheme(name string) Option {
	return func(e *Engine) {
		e.scheme = name
	}
}

// WithRegistry replaces the default model registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithStore sets where Run caches trace records (default: in memory).
func WithStore(s ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithDegenerateThreshold sets the field magnitude (nT) below which tracing stops.
func WithDegenerateThreshold(nT float64) Option {
	return func(e *Engine) {
		e.threshold = nT
	}
}

// WithMaxHalvings bounds step rejections per integration step.
func WithMaxHalvings(n int) Option {
	return func(e *Engine) {
		e.halvings = n
	}
}

// New initializes an Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{scheme: runtime.Merson{}.Name()}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.registry == nil {
		eng.registry = registry.Default()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	eng.archive = archive.NewManager(eng.store, archive.WithLogger(eng.logger))

	scheme, err := runtime.SchemeByName(eng.scheme)
	if err != nil {
		return nil, err
	}

	eng.tracer = runtime.NewTracer(
		runtime.WithLogger(eng.logger),
		runtime.WithHooks(eng.hooks),
		runtime.WithScheme(scheme),
		runtime.WithMaxHalvings(eng.halvings),
		runtime.WithDegenerateThreshold(eng.threshold),
	)
	return eng, nil
}

// Trace runs one trace with caller-supplied evaluators. See runtime.Tracer.Trace for
// the result and error contract.
func (e *Engine) Trace(ctx context.Context, cfg domain.TraceConfig, internal, external ports.FieldEvaluator, cal *domain.Calibration) (*domain.TraceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.tracer.Trace(ctx, cfg, internal, external, cal)
}

// Run resolves the request's models and calibration, traces it and stores the record.
// An identical earlier request is answered from the store, and concurrent identical
// requests are traced once.
//
// Fatal trace conditions are not returned as errors: the record carries the partial
// result and the error text. Requests that cannot be traced (bad configuration, unknown
// model or model parameters, bad calibration) fail with domain.ErrInvalidConfiguration.
func (e *Engine) Run(ctx context.Context, req domain.TraceRequest) (*domain.TraceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate before hashing: non-finite values cannot be encoded into an ID.
	if err := schema.ValidateConfig(req.Config); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	id, err := req.ID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	logger := e.logger.With("trace_id", id)

	record, created, err := e.archive.LoadOrCreate(ctx, id, func(ctx context.Context) (*domain.TraceRecord, error) {
		return e.run(ctx, id, req)
	})
	if err != nil {
		return nil, err
	}
	if !created {
		logger.Debug("trace served from store")
		return record, nil
	}
	logger.Info("trace finished", "reason", record.Result.Reason, "points", len(record.Result.Points))
	return record, nil
}

func (e *Engine) run(ctx context.Context, id string, req domain.TraceRequest) (*domain.TraceRecord, error) {
	internal, err := e.registry.Build(req.Internal)
	if err != nil {
		return nil, fmt.Errorf("%w: internal model: %w", domain.ErrInvalidConfiguration, err)
	}
	external, err := e.registry.Build(req.External)
	if err != nil {
		return nil, fmt.Errorf("%w: external model: %w", domain.ErrInvalidConfiguration, err)
	}
	cal, err := calibration.FromSpec(req.Calibration)
	if err != nil {
		return nil, fmt.Errorf("%w: calibration: %w", domain.ErrInvalidConfiguration, err)
	}

	res, err := e.tracer.Trace(ctx, req.Config, internal, external, cal)
	if errors.Is(err, domain.ErrInvalidConfiguration) {
		return nil, err
	}

	record := &domain.TraceRecord{
		ID:        id,
		Request:   req,
		Result:    res,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		record.Error = err.Error()
	}
	return record, nil
}

// Lookup returns a stored record by ID.
func (e *Engine) Lookup(ctx context.Context, id string) (*domain.TraceRecord, error) {
	return e.archive.Load(ctx, id)
}

// List returns the IDs of all stored records.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.archive.List(ctx)
}

// Forget deletes a stored record so the next identical request is traced again.
func (e *Engine) Forget(ctx context.Context, id string) error {
	return e.archive.Delete(ctx, id)
}

// Models returns the registered field model names.
func (e *Engine) Models() []string {
	return e.registry.Names()
}

// Scheme returns the name of the integration scheme in use.
func (e *Engine) Scheme() string {
	return e.tracer.Scheme().Name()
}
