package domain

import "math"

// Vec3 is a Cartesian 3-vector. Positions are in planetary radii, field vectors in nT.
type Vec3 struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
	Z float64 `json:"z" yaml:"z" mapstructure:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Mul(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length. For a position this is the radial distance.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v, or the zero vector when v is zero.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Mul(1 / n)
}

// AbsSum is the L1 norm, used by the step error estimators.
func (v Vec3) AbsSum() float64 {
	return math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Spherical converts spherical coordinates (theta is colatitude, angles in radians)
// to a Cartesian vector.
func Spherical(r, theta, phi float64) Vec3 {
	sq := r * math.Sin(theta)
	return Vec3{
		X: sq * math.Cos(phi),
		Y: sq * math.Sin(phi),
		Z: r * math.Cos(theta),
	}
}

// Spherical returns (r, theta, phi) for v. On the polar axis phi is 0,
// and phi is always reported in [0, 2π).
func (v Vec3) Spherical() (r, theta, phi float64) {
	sq := v.X*v.X + v.Y*v.Y
	r = math.Sqrt(sq + v.Z*v.Z)
	if sq == 0 {
		if v.Z < 0 {
			return r, math.Pi, 0
		}
		return r, 0, 0
	}
	sq = math.Sqrt(sq)
	phi = math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta = math.Atan2(sq, v.Z)
	return r, theta, phi
}
