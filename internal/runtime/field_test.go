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

func TestField_Tangent(t *testing.T) {
	t.Run("Superposes and normalizes", func(t *testing.T) {
		f := runtime.NewField(uniform(domain.Vec3{X: 3}), uniform(domain.Vec3{Y: 4}), domain.ModelParams{}, nil, domain.Forward, 0)

		tan, err := f.Tangent(domain.Vec3{X: 2})
		require.NoError(t, err)
		assert.InDelta(t, 0.6, tan.X, 1e-12)
		assert.InDelta(t, 0.8, tan.Y, 1e-12)
		assert.Equal(t, 1, f.Evaluations())
	})

	t.Run("Backward flips the sign", func(t *testing.T) {
		f := runtime.NewField(dipole, zero, domain.ModelParams{}, nil, domain.Backward, 0)

		tan, err := f.Tangent(domain.Vec3{X: 3})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, tan.Z, 1e-12)
	})

	t.Run("Degenerate below threshold", func(t *testing.T) {
		f := runtime.NewField(uniform(domain.Vec3{Z: 1e-3}), zero, domain.ModelParams{}, nil, domain.Forward, 1e-2)

		_, err := f.Tangent(domain.Vec3{X: 2})
		assert.ErrorIs(t, err, domain.ErrDegenerateField)
	})

	t.Run("Evaluator error", func(t *testing.T) {
		f := runtime.NewField(dipole, broken, domain.ModelParams{}, nil, domain.Forward, 0)

		_, err := f.Tangent(domain.Vec3{X: 2})
		assert.ErrorIs(t, err, domain.ErrModelEvaluation)
		assert.ErrorIs(t, err, errBroken)
		assert.Contains(t, err.Error(), "external")
	})

	t.Run("Non-finite output", func(t *testing.T) {
		f := runtime.NewField(uniform(domain.Vec3{X: math.NaN()}), zero, domain.ModelParams{}, nil, domain.Forward, 0)

		_, err := f.Tangent(domain.Vec3{X: 2})
		assert.ErrorIs(t, err, domain.ErrModelEvaluation)
		assert.Contains(t, err.Error(), "internal")
	})

	t.Run("Forwards parameters unchanged", func(t *testing.T) {
		params := domain.ModelParams{Index: 4, Aux: []float64{1, 2}}
		cal := &domain.Calibration{SinTilt: 0.1}
		var seen []domain.ModelParams
		recorder := ports.EvaluatorFunc(func(_ domain.Vec3, p domain.ModelParams, c *domain.Calibration) (domain.Vec3, error) {
			seen = append(seen, p)
			assert.Same(t, cal, c)
			return domain.Vec3{Z: 1}, nil
		})
		f := runtime.NewField(recorder, recorder, params, cal, domain.Forward, 0)

		_, err := f.Tangent(domain.Vec3{X: 2})
		require.NoError(t, err)
		require.Len(t, seen, 2)
		assert.Equal(t, params, seen[0])
		assert.Equal(t, params, seen[1])
	})
}
