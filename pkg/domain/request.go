package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

// ModelSpec names a registered field model and its free-form parameters.
type ModelSpec struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// CalibrationSpec selects how the Calibration is built.
// With TiltDegrees set the tilt is taken as given; otherwise it is computed for Epoch.
type CalibrationSpec struct {
	Epoch        time.Time `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	TiltDegrees  *float64  `json:"tilt_degrees,omitempty" yaml:"tilt_degrees,omitempty"`
	SolarWindGSE *Vec3     `json:"solar_wind_gse,omitempty" yaml:"solar_wind_gse,omitempty"`
}

// TraceRequest is the serializable description of a trace used by the CLI,
// the HTTP API and the MCP server.
type TraceRequest struct {
	Config      TraceConfig     `json:"config" yaml:"config"`
	Internal    ModelSpec       `json:"internal" yaml:"internal"`
	External    ModelSpec       `json:"external" yaml:"external"`
	Calibration CalibrationSpec `json:"calibration" yaml:"calibration"`
}

// NewTraceRequest returns a request with default tracing parameters, a dipole
// internal model and no external field. Decoding JSON or YAML into it keeps the
// defaults for omitted fields.
func NewTraceRequest(start Vec3, dir Direction) TraceRequest {
	return TraceRequest{
		Config:   NewTraceConfig(start, dir),
		Internal: ModelSpec{Name: "dipole"},
		External: ModelSpec{Name: "zero"},
	}
}

// ID returns a stable identifier for the request: the xxh3 hash of its JSON form.
// encoding/json sorts map keys, so equal requests hash equally.
func (r TraceRequest) ID() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

// TraceRecord is a stored trace: the request, its result and any fatal error text.
type TraceRecord struct {
	ID        string       `json:"id"`
	Request   TraceRequest `json:"request"`
	Result    *TraceResult `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
