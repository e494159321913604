package domain

// Defaults follow common GEOPACK tracing usage.
const (
	DefaultMaxStep         = 1.0
	DefaultTolerance       = 1e-4
	DefaultInitialStep     = 0.5
	DefaultInnerRadius     = 1.0
	DefaultOuterRadius     = 60.0
	DefaultCapacity        = 1000
	DefaultRadiusTolerance = 1e-6
	DefaultApproachRadius  = 3.0
)

// Direction is the tracing sign: Forward follows the field vector, Backward opposes it.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// ModelParams is the opaque payload forwarded unchanged to both field evaluators.
type ModelParams struct {
	Index int       `json:"index" yaml:"index"`
	Aux   []float64 `json:"aux,omitempty" yaml:"aux,omitempty"`
}

// TraceConfig holds the immutable inputs of a single trace.
type TraceConfig struct {
	Start     Vec3      `json:"start" yaml:"start"`
	Direction Direction `json:"direction" yaml:"direction"`

	// MaxStep caps the arc length of a single step.
	MaxStep float64 `json:"max_step" yaml:"max_step"`
	// Tolerance is the permissible local error per step.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	InnerRadius float64 `json:"inner_radius" yaml:"inner_radius"`
	OuterRadius float64 `json:"outer_radius" yaml:"outer_radius"`

	Model ModelParams `json:"model" yaml:"model"`

	// Capacity bounds the number of returned points.
	Capacity int `json:"capacity" yaml:"capacity"`

	// InitialStep is the first trial step. Zero means DefaultInitialStep capped at MaxStep.
	InitialStep float64 `json:"initial_step,omitempty" yaml:"initial_step,omitempty"`
	// RadiusTolerance is how close a resolved crossing must be to the boundary radius.
	RadiusTolerance float64 `json:"radius_tolerance,omitempty" yaml:"radius_tolerance,omitempty"`
	// ApproachRadius enables footpoint step damping below this radius. Zero disables it.
	ApproachRadius float64 `json:"approach_radius,omitempty" yaml:"approach_radius,omitempty"`
}

// NewTraceConfig returns a configuration with default tolerances and boundaries.
func NewTraceConfig(start Vec3, dir Direction) TraceConfig {
	return TraceConfig{
		Start:           start,
		Direction:       dir,
		MaxStep:         DefaultMaxStep,
		Tolerance:       DefaultTolerance,
		InnerRadius:     DefaultInnerRadius,
		OuterRadius:     DefaultOuterRadius,
		Capacity:        DefaultCapacity,
		InitialStep:     DefaultInitialStep,
		RadiusTolerance: DefaultRadiusTolerance,
		ApproachRadius:  DefaultApproachRadius,
	}
}

// FirstStep returns the trial length of the first step.
func (c TraceConfig) FirstStep() float64 {
	ds := c.InitialStep
	if ds <= 0 {
		ds = DefaultInitialStep
	}
	if ds > c.MaxStep {
		ds = c.MaxStep
	}
	return ds
}

// CrossingTolerance returns RadiusTolerance or its default.
func (c TraceConfig) CrossingTolerance() float64 {
	if c.RadiusTolerance <= 0 {
		return DefaultRadiusTolerance
	}
	return c.RadiusTolerance
}
