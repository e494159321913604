package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/fieldline/pkg/domain"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := domain.Vec3{X: 1, Y: 2, Z: 3}
	b := domain.Vec3{X: 4, Y: 5, Z: 6}

	assert.Equal(t, domain.Vec3{X: 5, Y: 7, Z: 9}, a.Add(b))
	assert.Equal(t, domain.Vec3{X: -3, Y: -3, Z: -3}, a.Sub(b))
	assert.Equal(t, domain.Vec3{X: 2, Y: 4, Z: 6}, a.Mul(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, domain.Vec3{X: -3, Y: 6, Z: -3}, a.Cross(b))
	assert.Equal(t, 6.0, a.AbsSum())
	assert.InDelta(t, math.Sqrt(14), a.Norm(), 1e-15)
}

func TestVec3_Normalize(t *testing.T) {
	t.Run("Unit Length", func(t *testing.T) {
		n := domain.Vec3{X: 3, Y: 0, Z: 4}.Normalize()
		assert.InDelta(t, 1.0, n.Norm(), 1e-15)
		assert.InDelta(t, 0.6, n.X, 1e-15)
	})

	t.Run("Zero Stays Zero", func(t *testing.T) {
		assert.Equal(t, domain.Vec3{}, domain.Vec3{}.Normalize())
	})
}

func TestVec3_IsFinite(t *testing.T) {
	assert.True(t, domain.Vec3{X: 1}.IsFinite())
	assert.False(t, domain.Vec3{Y: math.NaN()}.IsFinite())
	assert.False(t, domain.Vec3{Z: math.Inf(-1)}.IsFinite())
}

func TestSpherical_RoundTrip(t *testing.T) {
	cases := []domain.Vec3{
		{X: 1, Y: 1, Z: 1},
		{X: -2, Y: 0.5, Z: -3},
		{X: 0.1, Y: -4, Z: 0},
	}
	for _, v := range cases {
		r, theta, phi := v.Spherical()
		back := domain.Spherical(r, theta, phi)
		assert.InDelta(t, v.X, back.X, 1e-12)
		assert.InDelta(t, v.Y, back.Y, 1e-12)
		assert.InDelta(t, v.Z, back.Z, 1e-12)
		assert.GreaterOrEqual(t, phi, 0.0)
		assert.Less(t, phi, 2*math.Pi)
	}
}

func TestSpherical_Poles(t *testing.T) {
	r, theta, phi := domain.Vec3{Z: 2}.Spherical()
	assert.Equal(t, 2.0, r)
	assert.Equal(t, 0.0, theta)
	assert.Equal(t, 0.0, phi)

	r, theta, phi = domain.Vec3{Z: -3}.Spherical()
	assert.Equal(t, 3.0, r)
	assert.Equal(t, math.Pi, theta)
	assert.Equal(t, 0.0, phi)
}

func TestTraceConfig_FirstStep(t *testing.T) {
	cfg := domain.NewTraceConfig(domain.Vec3{X: 3}, domain.Forward)
	assert.Equal(t, domain.DefaultInitialStep, cfg.FirstStep())

	cfg.MaxStep = 0.1
	assert.Equal(t, 0.1, cfg.FirstStep())

	cfg.InitialStep = 0
	cfg.MaxStep = 2
	assert.Equal(t, domain.DefaultInitialStep, cfg.FirstStep())
}

func TestReason_Classification(t *testing.T) {
	assert.True(t, domain.ReasonInnerBoundary.IsBoundary())
	assert.True(t, domain.ReasonOuterBoundary.IsBoundary())
	assert.False(t, domain.ReasonCapacityExhausted.IsBoundary())
	assert.False(t, domain.ReasonCapacityExhausted.IsFatal())
	assert.True(t, domain.ReasonDegenerateField.IsFatal())
	assert.True(t, domain.ReasonStepConvergence.IsFatal())
}

func TestTraceRequest_ID(t *testing.T) {
	req := domain.TraceRequest{
		Config:   domain.NewTraceConfig(domain.Vec3{X: 3}, domain.Forward),
		Internal: domain.ModelSpec{Name: "dipole"},
		External: domain.ModelSpec{Name: "uniform", Params: map[string]any{"bz": -5.0, "bx": 1.0}},
	}
	id1, err := req.ID()
	assert.NoError(t, err)
	assert.Len(t, id1, 16)

	// Same content, different map construction order
	same := req
	same.External = domain.ModelSpec{Name: "uniform", Params: map[string]any{"bx": 1.0, "bz": -5.0}}
	id2, err := same.ID()
	assert.NoError(t, err)
	assert.Equal(t, id1, id2)

	other := req
	other.Config.Direction = domain.Backward
	id3, err := other.ID()
	assert.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}
