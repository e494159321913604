package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPhaseChange EventType = "phase_change"
	EventStep        EventType = "step"
	EventTerminate   EventType = "terminate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PhaseEvent reports a tracer state machine transition.
type PhaseEvent struct {
	EventBase
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

// StepEvent reports one accepted integration step.
type StepEvent struct {
	EventBase
	Index      int     `json:"index"`
	Position   Vec3    `json:"position"`
	Radius     float64 `json:"radius"`
	StepLength float64 `json:"step_length"`
	Rejected   int     `json:"rejected"`
}

// TerminateEvent reports the final state of a trace.
type TerminateEvent struct {
	EventBase
	Reason   Reason  `json:"reason"`
	Points   int     `json:"points"`
	Steps    int     `json:"steps"`
	Endpoint Vec3    `json:"endpoint"`
	Duration float64 `json:"duration_seconds"`
}

// TraceHooks defines callbacks for tracer observability.
// Hooks run synchronously on the tracing goroutine.
type TraceHooks struct {
	OnPhaseChange func(context.Context, *PhaseEvent)
	OnStep        func(context.Context, *StepEvent)
	OnTerminate   func(context.Context, *TerminateEvent)
}
