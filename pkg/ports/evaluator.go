package ports

import "github.com/aretw0/fieldline/pkg/domain"

// FieldEvaluator computes a field vector at a position.
// The tracer holds two of them, one for internal and one for external sources,
// and sums their contributions.
type FieldEvaluator interface {
	// Evaluate returns the field at pos in nT. params is forwarded unchanged from the
	// TraceConfig and cal is read-only. Implementations that cannot produce a finite
	// vector should return an error; the tracer treats it as a fatal model failure.
	Evaluate(pos domain.Vec3, params domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error)
}

// EvaluatorFunc adapts a plain function to FieldEvaluator.
type EvaluatorFunc func(pos domain.Vec3, params domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error)

func (f EvaluatorFunc) Evaluate(pos domain.Vec3, params domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error) {
	return f(pos, params, cal)
}
