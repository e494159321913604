package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/fieldline/internal/presentation/tui"
)

// ErrTraceFatal is returned after printing a trace that terminated on a fatal condition.
var ErrTraceFatal = errors.New("trace terminated abnormally")

// RunTrace executes the trace command: builds the request, runs it and prints the record.
func RunTrace(ctx context.Context, engOpts EngineOptions, opts TraceOptions, stdout io.Writer) error {
	req, err := BuildRequest(opts)
	if err != nil {
		return err
	}

	logger := createLogger(engOpts)
	engine, closeStore, err := createEngine(engOpts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	record, err := engine.Run(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case opts.JSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	default:
		tty, width := isTerminal(stdout)
		if err := tui.Write(stdout, record, tty, width); err != nil {
			return err
		}
	}

	if record.Error != "" {
		return fmt.Errorf("%w: %s", ErrTraceFatal, record.Error)
	}
	return nil
}
