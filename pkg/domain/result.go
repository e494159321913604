package domain

// Reason explains why a trace terminated.
type Reason string

const (
	ReasonInnerBoundary     Reason = "inner_boundary"
	ReasonOuterBoundary     Reason = "outer_boundary"
	ReasonCapacityExhausted Reason = "capacity_exhausted"
	ReasonDegenerateField   Reason = "degenerate_field"
	ReasonModelFailure      Reason = "model_failure"
	ReasonStepConvergence   Reason = "step_convergence"
)

// IsBoundary reports whether the trace ended on one of the two spheres.
func (r Reason) IsBoundary() bool {
	return r == ReasonInnerBoundary || r == ReasonOuterBoundary
}

// IsFatal reports whether the trace was cut short by an error.
func (r Reason) IsFatal() bool {
	switch r {
	case ReasonDegenerateField, ReasonModelFailure, ReasonStepConvergence:
		return true
	}
	return false
}

// Phase is the tracer state machine position.
type Phase string

const (
	PhaseInitializing      Phase = "initializing"
	PhaseStepping          Phase = "stepping"
	PhaseResolvingBoundary Phase = "resolving_boundary"
	PhaseTerminated        Phase = "terminated"
)

// TraceResult is the ordered output of one trace, in arc-length order from the start.
type TraceResult struct {
	Points   []Vec3 `json:"points"`
	Endpoint Vec3   `json:"endpoint"`
	Reason   Reason `json:"reason"`

	// Statistics
	Steps       int     `json:"steps"`
	Rejected    int     `json:"rejected"`
	Evaluations int     `json:"evaluations"`
	ArcLength   float64 `json:"arc_length"`
}
