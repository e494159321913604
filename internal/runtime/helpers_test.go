package runtime_test

import (
	"errors"
	"math"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/models"
	"github.com/aretw0/fieldline/pkg/ports"
)

// earthMoment is a round dipole moment in nT.
const earthMoment = 30000.0

// dipole is untilted without a calibration: the field points north (+z) on the equator.
var dipole ports.FieldEvaluator = models.Dipole{Moment: earthMoment}

var zero ports.FieldEvaluator = models.Zero{}

func uniform(b domain.Vec3) ports.FieldEvaluator {
	return models.Uniform{X: b.X, Y: b.Y, Z: b.Z}
}

var errBroken = errors.New("model table not loaded")

var broken = ports.EvaluatorFunc(func(domain.Vec3, domain.ModelParams, *domain.Calibration) (domain.Vec3, error) {
	return domain.Vec3{}, errBroken
})

// lShell returns r/cos²(latitude), which is constant along an untilted dipole line.
func lShell(p domain.Vec3) float64 {
	r := p.Norm()
	rho2 := p.X*p.X + p.Y*p.Y
	return r * r * r / rho2
}

func latitudeDeg(p domain.Vec3) float64 {
	return math.Asin(p.Z/p.Norm()) * 180 / math.Pi
}

// segmentDistance returns the distance from p to the polyline.
func segmentDistance(points []domain.Vec3, p domain.Vec3) float64 {
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		ab := b.Sub(a)
		t := 0.0
		if l2 := ab.Dot(ab); l2 > 0 {
			t = math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
		}
		if d := a.Add(ab.Mul(t)).Sub(p).Norm(); d < best {
			best = d
		}
	}
	return best
}
