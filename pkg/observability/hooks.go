package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/fieldline/pkg/domain"
)

// LogHooks logs phase changes at Debug and terminations at Info (Warn when fatal).
func LogHooks(logger *slog.Logger) domain.TraceHooks {
	return domain.TraceHooks{
		OnPhaseChange: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.DebugContext(ctx, "phase_change", "from", e.From, "to", e.To)
		},
		OnTerminate: func(ctx context.Context, e *domain.TerminateEvent) {
			level := slog.LevelInfo
			if e.Reason.IsFatal() {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "trace_terminated",
				"reason", e.Reason,
				"points", e.Points,
				"steps", e.Steps,
				"duration_seconds", e.Duration,
			)
		},
	}
}

// Chain calls each hook set in order.
func Chain(sets ...domain.TraceHooks) domain.TraceHooks {
	var out domain.TraceHooks
	for _, h := range sets {
		if h.OnPhaseChange != nil {
			out.OnPhaseChange = chain(out.OnPhaseChange, h.OnPhaseChange)
		}
		if h.OnStep != nil {
			out.OnStep = chain(out.OnStep, h.OnStep)
		}
		if h.OnTerminate != nil {
			out.OnTerminate = chain(out.OnTerminate, h.OnTerminate)
		}
	}
	return out
}

func chain[E any](first, next func(context.Context, *E)) func(context.Context, *E) {
	if first == nil {
		return next
	}
	return func(ctx context.Context, e *E) {
		first(ctx, e)
		next(ctx, e)
	}
}
