package calibration

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/fieldline/pkg/domain"
)

// WMM2025 n=1 Gauss coefficients (nT) and their secular variation (nT/yr).
const (
	wmmEpoch = 2025.0
	g10Base  = -29351.8
	g11Base  = -1410.8
	h11Base  = 4545.4
	g10Dot   = 12.0
	g11Dot   = 9.7
	h11Dot   = -21.5
)

const (
	minYear = 1901
	maxYear = 2099
	rad     = 180 / math.Pi
)

// DefaultSolarWind is the GSE solar wind velocity (km/s) assumed when none is given.
// A purely radial wind makes GSW coincide with GSM.
var DefaultSolarWind = domain.Vec3{X: -400}

// ErrEpochOutOfRange is returned for epochs the solar ephemeris does not cover.
var ErrEpochOutOfRange = errors.New("epoch outside 1901-2099")

// Recalc builds the calibration for epoch t: dipole coefficients drifted to t, the
// dipole tilt and the GEO to GSW rotation for the given GSE solar wind velocity.
// A zero solarWind selects DefaultSolarWind.
func Recalc(t time.Time, solarWind domain.Vec3) (*domain.Calibration, error) {
	t = t.UTC()
	if t.Year() < minYear || t.Year() > maxYear {
		return nil, fmt.Errorf("%w: %d", ErrEpochOutOfRange, t.Year())
	}
	if solarWind == (domain.Vec3{}) {
		solarWind = DefaultSolarWind
	}
	if !solarWind.IsFinite() {
		return nil, fmt.Errorf("solar wind velocity must be finite: %+v", solarWind)
	}

	g10, g11, h11 := coefficients(t)
	axis := dipoleAxisGEO(g10, g11, h11)

	gst, sunGEI := sun(t)
	sg, cg := math.Sincos(gst)
	dipole := domain.Vec3{
		X: axis.X*cg - axis.Y*sg,
		Y: axis.X*sg + axis.Y*cg,
		Z: axis.Z,
	}

	// GSE axes in GEI: X to the Sun, Z to the ecliptic pole.
	obliq := obliquity(t)
	eclZ := domain.Vec3{Y: -math.Sin(obliq), Z: math.Cos(obliq)}
	eclY := eclZ.Cross(sunGEI)

	// GSW X points against the solar wind flow.
	v := solarWind.Normalize().Mul(-1)
	x := sunGEI.Mul(v.X).Add(eclY.Mul(v.Y)).Add(eclZ.Mul(v.Z))
	y := dipole.Cross(x).Normalize()
	z := x.Cross(y)

	sps := dipole.Dot(x)
	cal := &domain.Calibration{
		Epoch:   t,
		SinTilt: sps,
		CosTilt: math.Sqrt(1 - sps*sps),
		G10:     g10,
		G11:     g11,
		H11:     h11,
	}
	for i, a := range []domain.Vec3{x, y, z} {
		// GEI to GEO is a rotation by GST about Z.
		cal.GEOToGSWMatrix[i] = [3]float64{
			a.X*cg + a.Y*sg,
			-a.X*sg + a.Y*cg,
			a.Z,
		}
	}
	return cal, nil
}

// WithTilt returns a calibration with the given dipole tilt (radians), the WMM2025
// epoch moment and GEO aligned with GSW.
func WithTilt(psi float64) *domain.Calibration {
	sps, cps := math.Sincos(psi)
	return &domain.Calibration{
		Epoch:          epochTime(),
		SinTilt:        sps,
		CosTilt:        cps,
		G10:            g10Base,
		G11:            g11Base,
		H11:            h11Base,
		GEOToGSWMatrix: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

// FromSpec picks WithTilt when a tilt is given, Recalc when an epoch is given,
// and an untilted calibration otherwise.
func FromSpec(spec domain.CalibrationSpec) (*domain.Calibration, error) {
	switch {
	case spec.TiltDegrees != nil:
		if math.IsNaN(*spec.TiltDegrees) || math.Abs(*spec.TiltDegrees) > 90 {
			return nil, fmt.Errorf("tilt must be within [-90, 90] degrees, got %g", *spec.TiltDegrees)
		}
		return WithTilt(*spec.TiltDegrees / rad), nil
	case !spec.Epoch.IsZero():
		var sw domain.Vec3
		if spec.SolarWindGSE != nil {
			sw = *spec.SolarWindGSE
		}
		return Recalc(spec.Epoch, sw)
	default:
		return WithTilt(0), nil
	}
}

// TiltDegrees returns the dipole tilt angle of cal in degrees.
func TiltDegrees(cal *domain.Calibration) float64 {
	return math.Atan2(cal.SinTilt, cal.CosTilt) * rad
}

func coefficients(t time.Time) (g10, g11, h11 float64) {
	delta := decimalYear(t) - wmmEpoch
	return g10Base + g10Dot*delta, g11Base + g11Dot*delta, h11Base + h11Dot*delta
}

// dipoleAxisGEO is the unit vector toward the northern geomagnetic pole.
func dipoleAxisGEO(g10, g11, h11 float64) domain.Vec3 {
	return domain.Vec3{X: -g11, Y: -h11, Z: -g10}.Normalize()
}

// sun returns Greenwich sidereal time (radians) and the unit Sun direction in GEI.
// Low-precision formulas valid for 1901-2099, accurate to about 0.006 degrees.
func sun(t time.Time) (gst float64, dir domain.Vec3) {
	dj, fday := julianOffset(t)
	T := dj / 36525

	vl := math.Mod(279.696678+0.9856473354*dj, 360)
	gst = math.Mod(279.690983+0.9856473354*dj+360*fday+180, 360) / rad
	g := math.Mod(358.475845+0.985600267*dj, 360) / rad
	slong := (vl + (1.91946-0.004789*T)*math.Sin(g) + 0.020094*math.Sin(2*g)) / rad

	obliq := obliquity(t)
	slp := slong - 9.924e-5
	sind := math.Sin(obliq) * math.Sin(slp)
	cosd := math.Sqrt(1 - sind*sind)
	sdec := math.Atan(sind / cosd)
	srasn := math.Pi - math.Atan2(math.Cos(obliq)/math.Sin(obliq)*sind/cosd, -math.Cos(slp)/cosd)

	cd := math.Cos(sdec)
	return gst, domain.Vec3{X: math.Cos(srasn) * cd, Y: math.Sin(srasn) * cd, Z: math.Sin(sdec)}
}

func obliquity(t time.Time) float64 {
	dj, _ := julianOffset(t)
	return (23.45229 - 0.0130125*dj/36525) / rad
}

// julianOffset returns days since 1900 Jan 0.5 and the fraction of the UT day.
func julianOffset(t time.Time) (dj, fday float64) {
	y := t.Year()
	fday = float64(t.Hour()*3600+t.Minute()*60+t.Second()) / 86400
	dj = float64(365*(y-1900)+(y-1901)/4+t.YearDay()) - 0.5 + fday
	return dj, fday
}

func decimalYear(t time.Time) float64 {
	y := t.Year()
	start := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC)
	return float64(y) + float64(t.Sub(start))/float64(end.Sub(start))
}

func epochTime() time.Time {
	return time.Date(int(wmmEpoch), 1, 1, 0, 0, 0, 0, time.UTC)
}
