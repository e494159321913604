package schema

import (
	"math"

	"github.com/aretw0/fieldline/pkg/domain"
)

// ValidateConfig checks a TraceConfig before tracing.
// Returns an *AggregateError with all validation failures found.
func ValidateConfig(cfg domain.TraceConfig) error {
	var errs []error
	fail := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	if !cfg.Start.IsFinite() {
		fail("start", "must be finite", cfg.Start)
	}
	if cfg.Direction != domain.Forward && cfg.Direction != domain.Backward {
		fail("direction", "must be +1 or -1", cfg.Direction)
	}
	if !positive(cfg.MaxStep) {
		fail("max_step", "must be positive", cfg.MaxStep)
	}
	if !positive(cfg.Tolerance) {
		fail("tolerance", "must be positive", cfg.Tolerance)
	}
	if !nonNegative(cfg.InnerRadius) {
		fail("inner_radius", "must be non-negative", cfg.InnerRadius)
	}
	if !positive(cfg.OuterRadius) {
		fail("outer_radius", "must be positive", cfg.OuterRadius)
	} else if nonNegative(cfg.InnerRadius) && cfg.InnerRadius >= cfg.OuterRadius {
		fail("inner_radius", "must be smaller than outer_radius", cfg.InnerRadius)
	}
	if cfg.Capacity <= 0 {
		fail("capacity", "must be positive", cfg.Capacity)
	}

	// Optional knobs: zero selects the default.
	if !nonNegative(cfg.InitialStep) {
		fail("initial_step", "must be non-negative", cfg.InitialStep)
	}
	if !nonNegative(cfg.RadiusTolerance) {
		fail("radius_tolerance", "must be non-negative", cfg.RadiusTolerance)
	}
	if !nonNegative(cfg.ApproachRadius) {
		fail("approach_radius", "must be non-negative", cfg.ApproachRadius)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// nonNegative is false for NaN.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
