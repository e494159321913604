package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/fieldline/pkg/adapters/http"
	"github.com/aretw0/fieldline/pkg/adapters/mcp"
	"github.com/aretw0/fieldline/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the engine, its metrics and the HTTP API on top of them.
// The returned func closes the store.
func NewHTTPHandler(engOpts EngineOptions, reg *prometheus.Registry) (http.Handler, func() error, error) {
	logger := createLogger(engOpts)

	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	engOpts.Hooks = observability.Chain(engOpts.Hooks, metrics.Hooks())

	engine, closeStore, err := createEngine(engOpts, logger)
	if err != nil {
		return nil, nil, err
	}
	handler, err := httpAdapter.NewHandler(engine,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(reg),
	)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return handler, closeStore, nil
}

// Serve runs the HTTP API on addr until ctx is cancelled.
func Serve(ctx context.Context, engOpts EngineOptions, addr string, stdout io.Writer) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, closeStore, err := NewHTTPHandler(engOpts, reg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(stdout, "fieldline API listening on %s (store: %s)", addr, storeName(engOpts.Store))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		printSystemMessage(stdout, "fieldline API stopped")
		return nil
	}
}

// ServeMCP runs the MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, engOpts EngineOptions, transport string, port int) error {
	logger := createLogger(engOpts)
	engine, closeStore, err := createEngine(engOpts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(engine, logger)
	switch transport {
	case "stdio":
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		err := srv.ServeSSE(ctx, port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport %q (stdio, sse)", transport)
	}
}

func storeName(kind string) string {
	if kind == "" {
		return "memory"
	}
	return kind
}
