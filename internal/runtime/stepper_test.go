package runtime_test

import (
	"math"
	"testing"

	"github.com/aretw0/fieldline/internal/runtime"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twister turns the field direction many times per unit length.
var twister = ports.EvaluatorFunc(func(p domain.Vec3, _ domain.ModelParams, _ *domain.Calibration) (domain.Vec3, error) {
	k := 1e4
	return domain.Vec3{X: math.Cos(k * p.X), Y: math.Sin(k * p.X), Z: math.Cos(k * p.Y)}, nil
})

func TestStepper_Advance(t *testing.T) {
	for _, scheme := range []runtime.Scheme{runtime.Merson{}, runtime.Doubling{}} {
		t.Run(scheme.Name(), func(t *testing.T) {
			t.Run("Straight field grows the step", func(t *testing.T) {
				f := runtime.NewField(uniform(domain.Vec3{Z: 5}), zero, domain.ModelParams{}, nil, domain.Forward, 0)
				s := runtime.NewStepper(scheme, 0)

				step, err := s.Advance(f, domain.Vec3{X: 2}, 0.5, 1, 1e-4)
				require.NoError(t, err)
				assert.Equal(t, 0.5, step.Length)
				assert.Equal(t, 0.75, step.Next)
				assert.Zero(t, step.Rejected)
				assert.InDelta(t, 0.5, step.Position.Z, 1e-12)
				assert.InDelta(t, 2.0, step.Position.X, 1e-12)
			})

			t.Run("Next is capped at max step", func(t *testing.T) {
				f := runtime.NewField(uniform(domain.Vec3{Z: 5}), zero, domain.ModelParams{}, nil, domain.Forward, 0)
				s := runtime.NewStepper(scheme, 0)

				step, err := s.Advance(f, domain.Vec3{X: 2}, 0.9, 1, 1e-4)
				require.NoError(t, err)
				assert.Equal(t, 1.0, step.Next)
			})

			t.Run("Oversized trial is clamped", func(t *testing.T) {
				f := runtime.NewField(uniform(domain.Vec3{Z: 5}), zero, domain.ModelParams{}, nil, domain.Forward, 0)
				s := runtime.NewStepper(scheme, 0)

				step, err := s.Advance(f, domain.Vec3{X: 2}, 7, 0.25, 1e-4)
				require.NoError(t, err)
				assert.Equal(t, 0.25, step.Length)
			})

			t.Run("Accepted error never exceeds tolerance", func(t *testing.T) {
				f := runtime.NewField(dipole, zero, domain.ModelParams{}, nil, domain.Forward, 0)
				s := runtime.NewStepper(scheme, 0)

				pos := domain.Vec3{X: 1.5, Z: 0.7}
				for _, tol := range []float64{1e-2, 1e-4, 1e-6, 1e-8} {
					step, err := s.Advance(f, pos, 1, 1, tol)
					require.NoError(t, err)
					assert.LessOrEqual(t, step.Error, tol)
				}
			})

			t.Run("Tighter tolerance never lengthens the step", func(t *testing.T) {
				f := runtime.NewField(dipole, zero, domain.ModelParams{}, nil, domain.Forward, 0)
				s := runtime.NewStepper(scheme, 0)

				pos := domain.Vec3{X: 1.2, Z: 0.3}
				prev := math.Inf(1)
				for _, tol := range []float64{1e-1, 1e-2, 1e-3, 1e-4, 1e-5, 1e-6, 1e-7} {
					step, err := s.Advance(f, pos, 1, 1, tol)
					require.NoError(t, err)
					assert.LessOrEqual(t, step.Length, prev, "tol=%g", tol)
					prev = step.Length
				}
				assert.Less(t, prev, 1.0, "the tightest tolerance should force at least one halving")
			})

			t.Run("Gives up after max halvings", func(t *testing.T) {
				f := runtime.NewField(twister, zero, domain.ModelParams{}, nil, domain.Forward, 0)
				s := runtime.NewStepper(scheme, 2)

				step, err := s.Advance(f, domain.Vec3{X: 3}, 0.5, 1, 1e-4)
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrStepConvergence)
				assert.Equal(t, 2, step.Rejected)
			})
		})
	}
}

func TestSchemeByName(t *testing.T) {
	s, err := runtime.SchemeByName("doubling")
	require.NoError(t, err)
	assert.Equal(t, "doubling", s.Name())

	_, err = runtime.SchemeByName("euler")
	assert.ErrorContains(t, err, "merson")

	assert.Equal(t, []string{"doubling", "merson"}, runtime.SchemeNames())
}
