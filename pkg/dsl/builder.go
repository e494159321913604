package dsl

import (
	"time"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/schema"
)

// Builder accumulates a trace request.
type Builder struct {
	req domain.TraceRequest
}

// Trace starts a request at (x, y, z) Earth radii, traced forward with default settings.
func Trace(x, y, z float64) *Builder {
	return &Builder{req: domain.NewTraceRequest(domain.Vec3{X: x, Y: y, Z: z}, domain.Forward)}
}

// Backward traces against the field direction.
func (b *Builder) Backward() *Builder {
	b.req.Config.Direction = domain.Backward
	return b
}

// Internal selects the internal field model.
func (b *Builder) Internal(name string, params map[string]any) *Builder {
	b.req.Internal = domain.ModelSpec{Name: name, Params: params}
	return b
}

// External selects the external field model.
func (b *Builder) External(name string, params map[string]any) *Builder {
	b.req.External = domain.ModelSpec{Name: name, Params: params}
	return b
}

// Within sets the inner and outer boundary radii.
func (b *Builder) Within(inner, outer float64) *Builder {
	b.req.Config.InnerRadius = inner
	b.req.Config.OuterRadius = outer
	return b
}

// Step sets the largest step and the local error tolerance.
func (b *Builder) Step(maxStep, tolerance float64) *Builder {
	b.req.Config.MaxStep = maxStep
	b.req.Config.Tolerance = tolerance
	if b.req.Config.InitialStep > maxStep {
		b.req.Config.InitialStep = maxStep
	}
	return b
}

// Capacity bounds the number of returned points.
func (b *Builder) Capacity(n int) *Builder {
	b.req.Config.Capacity = n
	return b
}

// Params sets the opaque payload forwarded to both models.
func (b *Builder) Params(index int, aux ...float64) *Builder {
	b.req.Config.Model = domain.ModelParams{Index: index, Aux: aux}
	return b
}

// Tilt fixes the dipole tilt angle in degrees.
func (b *Builder) Tilt(degrees float64) *Builder {
	b.req.Calibration.TiltDegrees = &degrees
	return b
}

// At computes the calibration for epoch t with the given GSE solar wind velocity.
// A zero wind selects the default radial flow.
func (b *Builder) At(t time.Time, solarWind domain.Vec3) *Builder {
	b.req.Calibration.Epoch = t.UTC()
	if solarWind != (domain.Vec3{}) {
		b.req.Calibration.SolarWindGSE = &solarWind
	}
	return b
}

// Build validates the configuration and returns the request.
func (b *Builder) Build() (domain.TraceRequest, error) {
	if err := schema.ValidateConfig(b.req.Config); err != nil {
		return domain.TraceRequest{}, err
	}
	return b.req, nil
}
