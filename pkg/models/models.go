package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/fieldline/pkg/calibration"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// ErrSingular is returned by models evaluated at a point where they are undefined.
var ErrSingular = errors.New("field model is singular at this position")

// untilted is used when a model is evaluated without a calibration.
var untilted = calibration.WithTilt(0)

// Dipole is the tilted centred dipole in GSW coordinates (GEOPACK DIP_08).
// Tilt and moment come from the calibration unless Moment overrides the latter.
type Dipole struct {
	// Moment is the equatorial surface field in nT. Zero uses the calibration moment.
	Moment float64 `mapstructure:"moment"`
}

func (d Dipole) Evaluate(pos domain.Vec3, _ domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error) {
	if cal == nil {
		cal = untilted
	}
	moment := d.Moment
	if moment == 0 {
		moment = cal.DipoleMoment()
	}

	x2, y2, z2 := pos.X*pos.X, pos.Y*pos.Y, pos.Z*pos.Z
	r2 := x2 + y2 + z2
	if r2 == 0 {
		return domain.Vec3{}, ErrSingular
	}
	q := moment / (r2 * r2 * math.Sqrt(r2))
	v := 3 * pos.Z * pos.X
	sps, cps := cal.SinTilt, cal.CosTilt

	return domain.Vec3{
		X: q * ((y2+z2-2*x2)*sps - v*cps),
		Y: -3 * pos.Y * q * (pos.X*sps + pos.Z*cps),
		Z: q * ((x2+y2-2*z2)*cps - v*sps),
	}, nil
}

// Uniform is a constant field (nT), e.g. a crude interplanetary field.
type Uniform struct {
	X float64 `mapstructure:"bx"`
	Y float64 `mapstructure:"by"`
	Z float64 `mapstructure:"bz"`
}

func (u Uniform) Evaluate(domain.Vec3, domain.ModelParams, *domain.Calibration) (domain.Vec3, error) {
	return domain.Vec3{X: u.X, Y: u.Y, Z: u.Z}, nil
}

// Zero contributes nothing. It stands in for an absent external model.
type Zero struct{}

func (Zero) Evaluate(domain.Vec3, domain.ModelParams, *domain.Calibration) (domain.Vec3, error) {
	return domain.Vec3{}, nil
}

// Scaled multiplies Base by the trace parameter Aux[Slot], so one trace
// configuration can sweep a model's strength without rebuilding it.
type Scaled struct {
	Base ports.FieldEvaluator
	Slot int
}

func (s Scaled) Evaluate(pos domain.Vec3, params domain.ModelParams, cal *domain.Calibration) (domain.Vec3, error) {
	if s.Slot < 0 || s.Slot >= len(params.Aux) {
		return domain.Vec3{}, fmt.Errorf("scale slot %d not present in %d aux parameters", s.Slot, len(params.Aux))
	}
	b, err := s.Base.Evaluate(pos, params, cal)
	if err != nil {
		return domain.Vec3{}, err
	}
	return b.Mul(params.Aux[s.Slot]), nil
}

// Decode copies free-form model parameters into out. Numbers given as strings are
// accepted; unknown keys are an error so typos do not pass silently.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid model parameters: %w", err)
	}
	return nil
}

// NewDipole builds a Dipole from parameters ("moment").
func NewDipole(params map[string]any) (ports.FieldEvaluator, error) {
	var d Dipole
	if err := Decode(params, &d); err != nil {
		return nil, err
	}
	if math.IsNaN(d.Moment) || math.IsInf(d.Moment, 0) {
		return nil, fmt.Errorf("invalid model parameters: moment must be finite")
	}
	return d, nil
}

// NewUniform builds a Uniform from parameters ("bx", "by", "bz" in nT).
func NewUniform(params map[string]any) (ports.FieldEvaluator, error) {
	var u Uniform
	if err := Decode(params, &u); err != nil {
		return nil, err
	}
	if !(domain.Vec3{X: u.X, Y: u.Y, Z: u.Z}).IsFinite() {
		return nil, fmt.Errorf("invalid model parameters: field must be finite")
	}
	return u, nil
}

// NewZero builds a Zero. It takes no parameters.
func NewZero(params map[string]any) (ports.FieldEvaluator, error) {
	if err := Decode(params, &struct{}{}); err != nil {
		return nil, err
	}
	return Zero{}, nil
}
