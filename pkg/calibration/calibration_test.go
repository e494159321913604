package calibration_test

import (
	"math"
	"testing"
	"time"

	"github.com/aretw0/fieldline/pkg/calibration"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func northPole(cal *domain.Calibration) domain.Vec3 {
	return domain.Vec3{X: -cal.G11, Y: -cal.H11, Z: -cal.G10}.Normalize()
}

func TestRecalc(t *testing.T) {
	t.Run("Rotation is orthonormal", func(t *testing.T) {
		cal, err := calibration.Recalc(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), domain.Vec3{})
		require.NoError(t, err)

		m := cal.GEOToGSWMatrix
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				dot := m[i][0]*m[j][0] + m[i][1]*m[j][1] + m[i][2]*m[j][2]
				want := 0.0
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, dot, 1e-9, "rows %d,%d", i, j)
			}
		}
		assert.InDelta(t, 1.0, cal.SinTilt*cal.SinTilt+cal.CosTilt*cal.CosTilt, 1e-12)
	})

	t.Run("Dipole axis lies in the GSW XZ plane", func(t *testing.T) {
		cal, err := calibration.Recalc(time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC), domain.Vec3{})
		require.NoError(t, err)

		d := cal.GEOToGSW(northPole(cal))
		assert.InDelta(t, cal.SinTilt, d.X, 1e-9)
		assert.InDelta(t, 0.0, d.Y, 1e-9)
		assert.InDelta(t, cal.CosTilt, d.Z, 1e-9)
	})

	t.Run("Round trip", func(t *testing.T) {
		cal, err := calibration.Recalc(time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC), domain.Vec3{X: -450, Y: 30, Z: -10})
		require.NoError(t, err)

		v := domain.Vec3{X: 1.5, Y: -2, Z: 0.25}
		back := cal.GSWToGEO(cal.GEOToGSW(v))
		assert.InDelta(t, v.X, back.X, 1e-12)
		assert.InDelta(t, v.Y, back.Y, 1e-12)
		assert.InDelta(t, v.Z, back.Z, 1e-12)
	})

	t.Run("Seasonal tilt", func(t *testing.T) {
		// The northern pole faces the Sun near 17 UT at the June solstice and
		// points furthest away near 05 UT at the December solstice.
		june, err := calibration.Recalc(time.Date(2025, 6, 21, 16, 50, 0, 0, time.UTC), domain.Vec3{})
		require.NoError(t, err)
		december, err := calibration.Recalc(time.Date(2025, 12, 21, 4, 50, 0, 0, time.UTC), domain.Vec3{})
		require.NoError(t, err)

		assert.Greater(t, calibration.TiltDegrees(june), 25.0)
		assert.Less(t, calibration.TiltDegrees(june), 36.0)
		assert.Less(t, calibration.TiltDegrees(december), -25.0)
	})

	t.Run("Secular drift", func(t *testing.T) {
		cal, err := calibration.Recalc(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), domain.Vec3{})
		require.NoError(t, err)
		assert.InDelta(t, -29351.8+2*12.0, cal.G10, 1e-6)
		assert.InDelta(t, 4545.4-2*21.5, cal.H11, 1e-6)
	})

	t.Run("Epoch out of range", func(t *testing.T) {
		_, err := calibration.Recalc(time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC), domain.Vec3{})
		assert.ErrorIs(t, err, calibration.ErrEpochOutOfRange)
	})
}

func TestWithTilt(t *testing.T) {
	cal := calibration.WithTilt(math.Pi / 6)

	assert.InDelta(t, 0.5, cal.SinTilt, 1e-12)
	assert.InDelta(t, 30.0, calibration.TiltDegrees(cal), 1e-9)
	assert.InDelta(t, 29740, cal.DipoleMoment(), 10)
	v := domain.Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, v, cal.GEOToGSW(v))
}

func TestFromSpec(t *testing.T) {
	t.Run("Tilt wins", func(t *testing.T) {
		tilt := -20.0
		cal, err := calibration.FromSpec(domain.CalibrationSpec{
			Epoch:       time.Date(2025, 6, 21, 16, 50, 0, 0, time.UTC),
			TiltDegrees: &tilt,
		})
		require.NoError(t, err)
		assert.InDelta(t, -20.0, calibration.TiltDegrees(cal), 1e-9)
	})

	t.Run("Epoch", func(t *testing.T) {
		epoch := time.Date(2025, 6, 21, 16, 50, 0, 0, time.UTC)
		cal, err := calibration.FromSpec(domain.CalibrationSpec{Epoch: epoch})
		require.NoError(t, err)
		assert.Equal(t, epoch, cal.Epoch)
		assert.Greater(t, calibration.TiltDegrees(cal), 25.0)
	})

	t.Run("Empty is untilted", func(t *testing.T) {
		cal, err := calibration.FromSpec(domain.CalibrationSpec{})
		require.NoError(t, err)
		assert.Zero(t, cal.SinTilt)
		assert.Equal(t, 1.0, cal.CosTilt)
	})

	t.Run("Tilt out of range", func(t *testing.T) {
		tilt := 120.0
		_, err := calibration.FromSpec(domain.CalibrationSpec{TiltDegrees: &tilt})
		assert.Error(t, err)
	})
}
