package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/fieldline"
	"github.com/aretw0/fieldline/internal/logging"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const modelsURI = "fieldline://models"

// TraceArgs are the arguments of the trace_field_line tool.
// Zero values keep the engine defaults.
type TraceArgs struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Z           float64  `json:"z"`
	Direction   int      `json:"direction,omitempty"`
	InnerRadius float64  `json:"inner_radius,omitempty"`
	OuterRadius float64  `json:"outer_radius,omitempty"`
	MaxStep     float64  `json:"max_step,omitempty"`
	Tolerance   float64  `json:"tolerance,omitempty"`
	Capacity    int      `json:"capacity,omitempty"`
	Internal    string   `json:"internal,omitempty"`
	External    string   `json:"external,omitempty"`
	TiltDegrees *float64 `json:"tilt_degrees,omitempty"`
	Epoch       string   `json:"epoch,omitempty"`
}

// Request converts the arguments into a trace request.
func (a TraceArgs) Request() (domain.TraceRequest, error) {
	dir := domain.Forward
	switch a.Direction {
	case 0, 1:
	case -1:
		dir = domain.Backward
	default:
		return domain.TraceRequest{}, fmt.Errorf("%w: direction must be 1 or -1, got %d", domain.ErrInvalidConfiguration, a.Direction)
	}

	req := domain.NewTraceRequest(domain.Vec3{X: a.X, Y: a.Y, Z: a.Z}, dir)
	cfg := &req.Config
	if a.InnerRadius != 0 {
		cfg.InnerRadius = a.InnerRadius
	}
	if a.OuterRadius != 0 {
		cfg.OuterRadius = a.OuterRadius
	}
	if a.MaxStep != 0 {
		cfg.MaxStep = a.MaxStep
		cfg.InitialStep = min(cfg.InitialStep, a.MaxStep)
	}
	if a.Tolerance != 0 {
		cfg.Tolerance = a.Tolerance
	}
	if a.Capacity != 0 {
		cfg.Capacity = a.Capacity
	}
	if a.Internal != "" {
		req.Internal.Name = a.Internal
	}
	if a.External != "" {
		req.External.Name = a.External
	}

	req.Calibration.TiltDegrees = a.TiltDegrees
	if a.Epoch != "" {
		epoch, err := time.Parse(time.RFC3339, a.Epoch)
		if err != nil {
			return domain.TraceRequest{}, fmt.Errorf("%w: epoch must be RFC 3339: %w", domain.ErrInvalidConfiguration, err)
		}
		req.Calibration.Epoch = epoch.UTC()
	}
	return req, nil
}

// Server exposes a TraceService as an MCP server.
type Server struct {
	service   ports.TraceService
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(service ports.TraceService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		service:   service,
		logger:    logger,
		mcpServer: server.NewMCPServer("fieldline-mcp", strings.TrimSpace(fieldline.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	traceTool := mcp.NewTool("trace_field_line",
		mcp.WithDescription("Trace a magnetic field line from a start point (GSW, Earth radii) until it reaches the inner or outer boundary sphere."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Start X in Earth radii")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Start Y in Earth radii")),
		mcp.WithNumber("z", mcp.Required(), mcp.Description("Start Z in Earth radii")),
		mcp.WithNumber("direction", mcp.Description("1 follows the field, -1 opposes it (default 1)")),
		mcp.WithNumber("inner_radius", mcp.Description("Inner boundary radius (default 1)")),
		mcp.WithNumber("outer_radius", mcp.Description("Outer boundary radius (default 60)")),
		mcp.WithNumber("max_step", mcp.Description("Largest step in Earth radii (default 1)")),
		mcp.WithNumber("tolerance", mcp.Description("Local error tolerance per step (default 1e-4)")),
		mcp.WithNumber("capacity", mcp.Description("Maximum number of returned points (default 1000)")),
		mcp.WithString("internal", mcp.Description("Internal field model name (default dipole)")),
		mcp.WithString("external", mcp.Description("External field model name (default zero)")),
		mcp.WithNumber("tilt_degrees", mcp.Description("Dipole tilt angle; overrides epoch")),
		mcp.WithString("epoch", mcp.Description("RFC 3339 time used to compute the tilt")),
		mcp.WithOutputSchema[domain.TraceRecord](),
	)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTrace))

	s.mcpServer.AddTool(mcp.NewTool("get_trace",
		mcp.WithDescription("Fetch a stored trace record by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Trace record ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		record, err := s.service.Lookup(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(record)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleTrace(ctx context.Context, _ mcp.CallToolRequest, args TraceArgs) (domain.TraceRecord, error) {
	req, err := args.Request()
	if err != nil {
		return domain.TraceRecord{}, err
	}
	record, err := s.service.Run(ctx, req)
	if err != nil {
		s.logger.Warn("MCP trace rejected", "error", err)
		return domain.TraceRecord{}, fmt.Errorf("trace failed: %w", err)
	}
	return *record, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(modelsURI, "Registered field models",
		mcp.WithMIMEType("application/json"),
	), s.readModels)
}

func (s *Server) readModels(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(map[string]any{"models": s.service.Models()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode models: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      modelsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
