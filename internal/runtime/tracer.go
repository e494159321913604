package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/fieldline/internal/logging"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/aretw0/fieldline/pkg/schema"
)

// Tracer is the field line state machine:
// initializing → stepping → resolving_boundary → terminated.
// A Tracer holds only configuration; each Trace call owns its own state,
// so a single Tracer may run concurrent traces.
type Tracer struct {
	stepper   *Stepper
	threshold float64
	logger    *slog.Logger
	hooks     domain.TraceHooks
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) TracerOption {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.TraceHooks) TracerOption {
	return func(t *Tracer) {
		t.hooks = hooks
	}
}

// WithScheme selects the integration scheme (default Merson).
func WithScheme(scheme Scheme) TracerOption {
	return func(t *Tracer) {
		if scheme != nil {
			t.stepper.Scheme = scheme
		}
	}
}

// WithMaxHalvings bounds step rejections per step.
func WithMaxHalvings(n int) TracerOption {
	return func(t *Tracer) {
		if n > 0 {
			t.stepper.MaxHalvings = n
		}
	}
}

// WithDegenerateThreshold sets the field magnitude (nT) below which the direction is undefined.
func WithDegenerateThreshold(threshold float64) TracerOption {
	return func(t *Tracer) {
		if threshold > 0 {
			t.threshold = threshold
		}
	}
}

// NewTracer creates a tracer with the Merson scheme and default limits.
func NewTracer(opts ...TracerOption) *Tracer {
	t := &Tracer{
		stepper:   NewStepper(Merson{}, DefaultMaxHalvings),
		threshold: DefaultDegenerateThreshold,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Scheme returns the integration scheme in use.
func (t *Tracer) Scheme() Scheme {
	return t.stepper.Scheme
}

// Trace follows the field line from cfg.Start until it crosses a boundary, the
// capacity is exhausted, or a fatal condition occurs.
//
// Invalid configurations return a nil result and an error wrapping
// domain.ErrInvalidConfiguration. Fatal conditions return the partial result
// together with a *domain.TraceError.
func (t *Tracer) Trace(ctx context.Context, cfg domain.TraceConfig, internal, external ports.FieldEvaluator, cal *domain.Calibration) (*domain.TraceResult, error) {
	if err := schema.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	if internal == nil || external == nil {
		return nil, fmt.Errorf("%w: both internal and external field evaluators are required", domain.ErrInvalidConfiguration)
	}

	run := &traceRun{
		Tracer:  t,
		ctx:     ctx,
		cfg:     cfg,
		field:   NewField(internal, external, cfg.Model, cal, cfg.Direction, t.threshold),
		bounds:  shells{inner: cfg.InnerRadius, outer: cfg.OuterRadius},
		phase:   domain.PhaseInitializing,
		started: time.Now(),
		result:  &domain.TraceResult{Points: []domain.Vec3{}},
	}
	return run.execute()
}

// traceRun is the per-call state of one trace. It is never shared.
type traceRun struct {
	*Tracer
	ctx     context.Context
	cfg     domain.TraceConfig
	field   *Field
	bounds  shells
	phase   domain.Phase
	started time.Time
	result  *domain.TraceResult
}

func (r *traceRun) execute() (*domain.TraceResult, error) {
	start := r.cfg.Start
	radius := start.Norm()

	// A start on a boundary counts as already crossed.
	if reason := r.bounds.classify(radius); reason != "" {
		return r.finish(reason, start), nil
	}

	r.enter(domain.PhaseStepping)
	r.result.Points = make([]domain.Vec3, 0, min(r.cfg.Capacity, 256))
	r.result.Points = append(r.result.Points, start)
	if len(r.result.Points) >= r.cfg.Capacity {
		return r.finish(domain.ReasonCapacityExhausted, start), nil
	}

	pos, prevRadius := start, radius
	ds := r.cfg.FirstStep()
	for {
		step, err := r.stepper.Advance(r.field, pos, r.damp(ds, radius, prevRadius), r.cfg.MaxStep, r.cfg.Tolerance)
		r.result.Rejected += step.Rejected
		if err != nil {
			return r.fail(err, pos)
		}

		next := step.Position
		nextRadius := next.Norm()
		if r.bounds.classify(nextRadius) != "" {
			return r.resolve(pos, step)
		}

		r.result.Steps++
		r.result.ArcLength += step.Length
		r.result.Points = append(r.result.Points, next)
		r.onStep(next, nextRadius, step)
		if len(r.result.Points) >= r.cfg.Capacity {
			return r.finish(domain.ReasonCapacityExhausted, next), nil
		}

		pos, prevRadius, radius, ds = next, radius, nextRadius, step.Next
	}
}

// damp shortens the trial step while the line descends below ApproachRadius so the
// points near the footpoint stay dense. GEOPACK TRACE_08 does the same inside 3 Re.
func (r *traceRun) damp(ds, radius, prevRadius float64) float64 {
	if r.cfg.ApproachRadius <= 0 || radius >= r.cfg.ApproachRadius || radius >= prevRadius {
		return ds
	}
	fc := 0.2
	if radius-r.cfg.InnerRadius < 0.05 {
		fc = 0.05
	}
	if limit := fc * (radius - r.cfg.InnerRadius + 0.2); limit < ds {
		return limit
	}
	return ds
}

func (r *traceRun) resolve(from domain.Vec3, step Step) (*domain.TraceResult, error) {
	r.enter(domain.PhaseResolvingBoundary)

	c, err := resolveCrossing(r.field, r.stepper.Scheme, from, step.Position, step.Length, r.bounds, r.cfg.CrossingTolerance())
	if err != nil {
		return r.fail(err, from)
	}

	r.result.Steps++
	r.result.ArcLength += c.Arc
	// Capacity was checked after the previous append, so there is room.
	r.result.Points = append(r.result.Points, c.Position)
	return r.finish(c.Reason, c.Position), nil
}

func (r *traceRun) fail(err error, pos domain.Vec3) (*domain.TraceResult, error) {
	reason := domain.ReasonFor(err)
	r.logger.Warn("trace terminated by fatal condition", "reason", reason, "steps", r.result.Steps, "error", err)
	res := r.finish(reason, pos)
	return res, &domain.TraceError{Reason: reason, Step: res.Steps, Position: pos, Err: err}
}

func (r *traceRun) finish(reason domain.Reason, endpoint domain.Vec3) *domain.TraceResult {
	r.result.Reason = reason
	r.result.Endpoint = endpoint
	r.result.Evaluations = r.field.Evaluations()
	r.enter(domain.PhaseTerminated)

	r.logger.Debug("trace terminated",
		"reason", reason,
		"points", len(r.result.Points),
		"steps", r.result.Steps,
		"rejected", r.result.Rejected,
		"evaluations", r.result.Evaluations,
	)
	if r.hooks.OnTerminate != nil {
		r.hooks.OnTerminate(r.ctx, &domain.TerminateEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTerminate},
			Reason:    reason,
			Points:    len(r.result.Points),
			Steps:     r.result.Steps,
			Endpoint:  endpoint,
			Duration:  time.Since(r.started).Seconds(),
		})
	}
	return r.result
}

func (r *traceRun) enter(to domain.Phase) {
	from := r.phase
	r.phase = to
	if r.hooks.OnPhaseChange != nil {
		r.hooks.OnPhaseChange(r.ctx, &domain.PhaseEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPhaseChange},
			From:      from,
			To:        to,
		})
	}
}

func (r *traceRun) onStep(pos domain.Vec3, radius float64, step Step) {
	if r.hooks.OnStep == nil {
		return
	}
	r.hooks.OnStep(r.ctx, &domain.StepEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
		Index:      len(r.result.Points) - 1,
		Position:   pos,
		Radius:     radius,
		StepLength: step.Length,
		Rejected:   step.Rejected,
	})
}
