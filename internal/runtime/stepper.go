package runtime

import (
	"fmt"

	"github.com/aretw0/fieldline/pkg/domain"
)

// DefaultMaxHalvings bounds the number of rejected trial steps in one Advance call.
const DefaultMaxHalvings = 50

// Step size control, following GEOPACK STEP_08.
const (
	growthThreshold = 0.04 // grow when the estimate is below this fraction of the tolerance
	growthFactor    = 1.5
	shrinkFactor    = 0.5
)

// Step is the outcome of one accepted Advance call.
type Step struct {
	Position domain.Vec3
	// Length is the accepted arc length.
	Length float64
	// Next is the suggested trial length for the following call, capped at maxStep.
	Next     float64
	Error    float64
	Rejected int
}

// Stepper performs error-controlled steps along the field.
// It keeps no state between calls, so one Stepper can serve many traces.
type Stepper struct {
	Scheme      Scheme
	MaxHalvings int
}

// NewStepper creates a Stepper. A non-positive maxHalvings selects DefaultMaxHalvings.
func NewStepper(scheme Scheme, maxHalvings int) *Stepper {
	if scheme == nil {
		scheme = Merson{}
	}
	if maxHalvings <= 0 {
		maxHalvings = DefaultMaxHalvings
	}
	return &Stepper{Scheme: scheme, MaxHalvings: maxHalvings}
}

// Advance takes one step from pos, starting with trial length ds and halving it until
// the local error estimate is within tol. Lengths are always positive; the tracing
// direction lives in the Field. Boundaries are not considered here.
func (s *Stepper) Advance(f *Field, pos domain.Vec3, ds, maxStep, tol float64) (Step, error) {
	h := ds
	if h <= 0 || h > maxStep {
		h = maxStep
	}

	for rejected := 0; ; rejected++ {
		next, estimate, err := s.Scheme.Propagate(f, pos, h)
		if err != nil {
			return Step{Rejected: rejected}, err
		}

		if estimate <= tol {
			step := Step{
				Position: next,
				Length:   h,
				Next:     h,
				Error:    estimate,
				Rejected: rejected,
			}
			if estimate < growthThreshold*tol {
				step.Next = h * growthFactor
			}
			if step.Next > maxStep {
				step.Next = maxStep
			}
			return step, nil
		}

		if rejected >= s.MaxHalvings {
			return Step{Rejected: rejected}, fmt.Errorf("%w: estimate %.3g exceeds %.3g at step %.3g after %d halvings",
				domain.ErrStepConvergence, estimate, tol, h, rejected)
		}
		h *= shrinkFactor
	}
}
