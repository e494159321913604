package runtime

import (
	"fmt"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
)

// DefaultDegenerateThreshold is the combined field magnitude (nT) below which
// the field direction is considered undefined.
const DefaultDegenerateThreshold = 1e-10

// Field is the right-hand side of the field line equation: the unit tangent of
// the summed internal and external fields, signed by the tracing direction.
// A Field belongs to a single trace and is not safe for concurrent use.
type Field struct {
	Internal    ports.FieldEvaluator
	External    ports.FieldEvaluator
	Params      domain.ModelParams
	Calibration *domain.Calibration
	Sign        float64
	Threshold   float64

	evaluations int
}

// NewField builds the right-hand side for one trace.
func NewField(internal, external ports.FieldEvaluator, params domain.ModelParams, cal *domain.Calibration, dir domain.Direction, threshold float64) *Field {
	if threshold <= 0 {
		threshold = DefaultDegenerateThreshold
	}
	return &Field{
		Internal:    internal,
		External:    external,
		Params:      params,
		Calibration: cal,
		Sign:        float64(dir),
		Threshold:   threshold,
	}
}

// Evaluations returns how many times the field sources were sampled.
func (f *Field) Evaluations() int {
	return f.evaluations
}

// Combined returns internal + external at pos.
func (f *Field) Combined(pos domain.Vec3) (domain.Vec3, error) {
	f.evaluations++
	bi, err := evaluate("internal", f.Internal, pos, f.Params, f.Calibration)
	if err != nil {
		return domain.Vec3{}, err
	}
	be, err := evaluate("external", f.External, pos, f.Params, f.Calibration)
	if err != nil {
		return domain.Vec3{}, err
	}
	return bi.Add(be), nil
}

// Tangent returns sign * B/|B| at pos.
func (f *Field) Tangent(pos domain.Vec3) (domain.Vec3, error) {
	b, err := f.Combined(pos)
	if err != nil {
		return domain.Vec3{}, err
	}
	n := b.Norm()
	if n < f.Threshold {
		return domain.Vec3{}, fmt.Errorf("%w: |B| = %g nT", domain.ErrDegenerateField, n)
	}
	return b.Mul(f.Sign / n), nil
}

func evaluate(source string, ev ports.FieldEvaluator, pos domain.Vec3, params domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error) {
	b, err := ev.Evaluate(pos, params, cal)
	if err != nil {
		return domain.Vec3{}, fmt.Errorf("%w: %s source: %w", domain.ErrModelEvaluation, source, err)
	}
	if !b.IsFinite() {
		return domain.Vec3{}, fmt.Errorf("%w: %s source returned non-finite field %+v", domain.ErrModelEvaluation, source, b)
	}
	return b, nil
}
