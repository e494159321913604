package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/fieldline/pkg/domain"
	"gopkg.in/yaml.v3"
)

// TraceOptions contains the request-related flags of the trace command.
// Nil and empty values leave the request (file or defaults) untouched.
type TraceOptions struct {
	File        string
	Start       []float64
	Backward    bool
	Internal    string
	External    string
	MaxStep     *float64
	Tolerance   *float64
	InnerRadius *float64
	OuterRadius *float64
	Capacity    *int
	TiltDegrees *float64
	Epoch       string
	JSON        bool
}

// LoadRequest reads a trace request from a YAML or JSON file, chosen by extension.
// Omitted fields keep the defaults of domain.NewTraceRequest; unknown fields are an error.
func LoadRequest(path string) (domain.TraceRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TraceRequest{}, fmt.Errorf("failed to read request: %w", err)
	}
	return DecodeRequest(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// DecodeRequest decodes data in the given format ("yaml", "yml" or "json").
func DecodeRequest(data []byte, format string) (domain.TraceRequest, error) {
	req := domain.NewTraceRequest(domain.Vec3{}, domain.Forward)

	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return domain.TraceRequest{}, fmt.Errorf("invalid JSON request: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			return domain.TraceRequest{}, fmt.Errorf("invalid YAML request: %w", err)
		}
	default:
		return domain.TraceRequest{}, fmt.Errorf("unsupported request format %q (use .yaml or .json)", format)
	}
	return req, nil
}

// BuildRequest assembles the request from --file (if any) and the override flags.
func BuildRequest(opts TraceOptions) (domain.TraceRequest, error) {
	var req domain.TraceRequest
	switch {
	case opts.File != "":
		var err error
		if req, err = LoadRequest(opts.File); err != nil {
			return req, err
		}
	case len(opts.Start) == 0:
		return req, errors.New("a start point is required (--start x,y,z or --file)")
	default:
		req = domain.NewTraceRequest(domain.Vec3{}, domain.Forward)
	}

	if len(opts.Start) > 0 {
		if len(opts.Start) != 3 {
			return req, fmt.Errorf("--start needs 3 coordinates, got %d", len(opts.Start))
		}
		req.Config.Start = domain.Vec3{X: opts.Start[0], Y: opts.Start[1], Z: opts.Start[2]}
	}
	if opts.Backward {
		req.Config.Direction = domain.Backward
	}

	cfg := &req.Config
	if opts.MaxStep != nil {
		cfg.MaxStep = *opts.MaxStep
	}
	if opts.Tolerance != nil {
		cfg.Tolerance = *opts.Tolerance
	}
	if opts.InnerRadius != nil {
		cfg.InnerRadius = *opts.InnerRadius
	}
	if opts.OuterRadius != nil {
		cfg.OuterRadius = *opts.OuterRadius
	}
	if opts.Capacity != nil {
		cfg.Capacity = *opts.Capacity
	}
	if opts.Internal != "" {
		req.Internal = domain.ModelSpec{Name: opts.Internal}
	}
	if opts.External != "" {
		req.External = domain.ModelSpec{Name: opts.External}
	}
	if opts.TiltDegrees != nil {
		req.Calibration.TiltDegrees = opts.TiltDegrees
	}
	if opts.Epoch != "" {
		epoch, err := time.Parse(time.RFC3339, opts.Epoch)
		if err != nil {
			return req, fmt.Errorf("--epoch must be RFC 3339: %w", err)
		}
		req.Calibration.Epoch = epoch.UTC()
	}
	return req, nil
}
