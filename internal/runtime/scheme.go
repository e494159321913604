package runtime

import (
	"fmt"
	"sort"

	"github.com/aretw0/fieldline/pkg/domain"
)

// Scheme is a fixed-step integration formula with a matched local error estimate.
// Propagate must be deterministic: the same inputs give the same position, which the
// boundary resolver relies on when it re-samples an accepted step.
type Scheme interface {
	Name() string
	// Propagate advances pos by arc length h along the field and returns the new
	// position and the estimated local error (L1 norm, planetary radii).
	Propagate(f *Field, pos domain.Vec3, h float64) (domain.Vec3, float64, error)
}

// Merson is the 4th-order Runge-Kutta-Merson scheme with its embedded 5-stage
// error estimate, as used by GEOPACK STEP_08.
type Merson struct{}

func (Merson) Name() string { return "merson" }

func (Merson) Propagate(f *Field, pos domain.Vec3, h float64) (domain.Vec3, float64, error) {
	c := h / 3

	t1, err := f.Tangent(pos)
	if err != nil {
		return pos, 0, err
	}
	r1 := t1.Mul(c)

	t2, err := f.Tangent(pos.Add(r1))
	if err != nil {
		return pos, 0, err
	}
	r2 := t2.Mul(c)

	t3, err := f.Tangent(pos.Add(r1.Add(r2).Mul(0.5)))
	if err != nil {
		return pos, 0, err
	}
	r3 := t3.Mul(c)

	t4, err := f.Tangent(pos.Add(r1.Add(r3.Mul(3)).Mul(0.375)))
	if err != nil {
		return pos, 0, err
	}
	r4 := t4.Mul(c)

	t5, err := f.Tangent(pos.Add(r1.Sub(r3.Mul(3)).Add(r4.Mul(4)).Mul(1.5)))
	if err != nil {
		return pos, 0, err
	}
	r5 := t5.Mul(c)

	estimate := r1.Sub(r3.Mul(4.5)).Add(r4.Mul(4)).Sub(r5.Mul(0.5)).AbsSum()
	next := pos.Add(r1.Add(r4.Mul(4)).Add(r5).Mul(0.5))
	return next, estimate, nil
}

// Doubling compares one classical RK4 step of length h with two steps of h/2.
// The two half steps are returned; the estimate is their Richardson difference.
type Doubling struct{}

func (Doubling) Name() string { return "doubling" }

func (Doubling) Propagate(f *Field, pos domain.Vec3, h float64) (domain.Vec3, float64, error) {
	full, err := rk4(f, pos, h)
	if err != nil {
		return pos, 0, err
	}
	mid, err := rk4(f, pos, h/2)
	if err != nil {
		return pos, 0, err
	}
	two, err := rk4(f, mid, h/2)
	if err != nil {
		return pos, 0, err
	}
	// 2^4 - 1 for a 4th-order formula
	return two, two.Sub(full).AbsSum() / 15, nil
}

func rk4(f *Field, pos domain.Vec3, h float64) (domain.Vec3, error) {
	k1, err := f.Tangent(pos)
	if err != nil {
		return pos, err
	}
	k2, err := f.Tangent(pos.Add(k1.Mul(h / 2)))
	if err != nil {
		return pos, err
	}
	k3, err := f.Tangent(pos.Add(k2.Mul(h / 2)))
	if err != nil {
		return pos, err
	}
	k4, err := f.Tangent(pos.Add(k3.Mul(h)))
	if err != nil {
		return pos, err
	}
	sum := k1.Add(k2.Mul(2)).Add(k3.Mul(2)).Add(k4)
	return pos.Add(sum.Mul(h / 6)), nil
}

var schemes = map[string]Scheme{
	Merson{}.Name():   Merson{},
	Doubling{}.Name(): Doubling{},
}

// SchemeByName returns a registered scheme.
func SchemeByName(name string) (Scheme, error) {
	s, ok := schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown integration scheme %q (available: %v)", name, SchemeNames())
	}
	return s, nil
}

// SchemeNames returns the registered scheme names, sorted.
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
