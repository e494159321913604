package runtime

import (
	"math"

	"github.com/aretw0/fieldline/pkg/domain"
)

const (
	// maxMarches bounds the safe-distance walk that brackets the first crossing.
	maxMarches    = 100000
	maxBisections = 100
	// marchFloor is the smallest march as a fraction of the step length.
	marchFloor = 1e-4
)

// shells holds the two tracing boundaries.
type shells struct {
	inner, outer float64
}

// classify returns the boundary reason for a radius outside the open shell, or "".
func (b shells) classify(r float64) domain.Reason {
	switch {
	case r <= b.inner:
		return domain.ReasonInnerBoundary
	case r >= b.outer:
		return domain.ReasonOuterBoundary
	}
	return ""
}

func (b shells) radius(reason domain.Reason) float64 {
	if reason == domain.ReasonInnerBoundary {
		return b.inner
	}
	return b.outer
}

func (b shells) beyond(r float64, reason domain.Reason) bool {
	if reason == domain.ReasonInnerBoundary {
		return r <= b.inner
	}
	return r >= b.outer
}

// crossing is a resolved boundary point and the arc length from the step origin.
type crossing struct {
	Position domain.Vec3
	Reason   domain.Reason
	Arc      float64
}

// resolveCrossing locates where the field line starting at from (inside the shell)
// first leaves it within arc length h. end is the accepted endpoint of the full step.
// The step is re-sampled with the same scheme, so the resolved point lies on the
// integrated curve rather than on the chord.
//
// The tangent is a unit vector, so the radius changes by at most the arc length
// travelled: from radius r the line cannot cross either shell within
// min(r-inner, outer-r). Marching by that distance brackets the first crossing
// along the step, even when the line dips through one shell and leaves through
// the other before the step ends.
func resolveCrossing(f *Field, scheme Scheme, from, end domain.Vec3, h float64, b shells, tol float64) (crossing, error) {
	lo, pLo := 0.0, from
	hi, pHi := h, end
	reason := domain.Reason("")

	floor := math.Max(tol, h*marchFloor)
	for i := 0; i < maxMarches && lo < h; i++ {
		r := pLo.Norm()
		s := lo + math.Max(math.Min(r-b.inner, b.outer-r), floor)
		if s >= h {
			break
		}
		p, _, err := scheme.Propagate(f, from, s)
		if err != nil {
			return crossing{}, err
		}
		if reason = b.classify(p.Norm()); reason != "" {
			hi, pHi = s, p
			break
		}
		lo, pLo = s, p
	}
	if reason == "" {
		reason = b.classify(end.Norm())
	}

	target := b.radius(reason)
	for i := 0; i < maxBisections; i++ {
		if math.Abs(pHi.Norm()-target) <= tol {
			return crossing{Position: pHi, Reason: reason, Arc: hi}, nil
		}
		if math.Abs(pLo.Norm()-target) <= tol {
			return crossing{Position: pLo, Reason: reason, Arc: lo}, nil
		}
		mid := 0.5 * (lo + hi)
		if mid <= lo || mid >= hi {
			break
		}
		p, _, err := scheme.Propagate(f, from, mid)
		if err != nil {
			return crossing{}, err
		}
		if b.beyond(p.Norm(), reason) {
			hi, pHi = mid, p
		} else {
			lo, pLo = mid, p
		}
	}

	// The bracket collapsed without reaching the tolerance: interpolate radially
	// between its ends.
	rLo, rHi := pLo.Norm(), pHi.Norm()
	frac := 1.0
	if rHi != rLo {
		frac = (target - rLo) / (rHi - rLo)
	}
	return crossing{
		Position: pLo.Add(pHi.Sub(pLo).Mul(frac)),
		Reason:   reason,
		Arc:      lo + (hi-lo)*frac,
	}, nil
}
