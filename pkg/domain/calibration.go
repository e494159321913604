package domain

import "time"

// Calibration is the epoch-dependent state field models read: dipole tilt,
// dipole moment and the GEO to GSW rotation. It is built outside the tracer
// and treated as immutable, so one value may be shared by concurrent traces.
type Calibration struct {
	Epoch time.Time `json:"epoch"`

	// SinTilt and CosTilt describe the dipole tilt angle psi.
	SinTilt float64 `json:"sin_tilt"`
	CosTilt float64 `json:"cos_tilt"`

	// G10, G11, H11 are the n=1 Gauss coefficients in nT.
	G10 float64 `json:"g10"`
	G11 float64 `json:"g11"`
	H11 float64 `json:"h11"`

	// GEOToGSWMatrix rows are the GSW axes expressed in GEO.
	GEOToGSWMatrix [3][3]float64 `json:"geo_to_gsw"`
}

// DipoleMoment returns the equatorial surface field of the n=1 dipole in nT.
func (c *Calibration) DipoleMoment() float64 {
	return Vec3{X: c.G10, Y: c.G11, Z: c.H11}.Norm()
}

// GEOToGSW rotates a geographic vector into GSW.
func (c *Calibration) GEOToGSW(v Vec3) Vec3 {
	m := c.GEOToGSWMatrix
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// GSWToGEO is the inverse of GEOToGSW.
func (c *Calibration) GSWToGEO(v Vec3) Vec3 {
	m := c.GEOToGSWMatrix
	return Vec3{
		X: m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		Y: m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		Z: m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}
}
