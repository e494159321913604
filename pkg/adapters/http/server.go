package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/fieldline"
	"github.com/aretw0/fieldline/internal/logging"
	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/aretw0/fieldline/pkg/ports"
	"github.com/aretw0/fieldline/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodyBytes bounds POST /traces bodies.
const maxBodyBytes = 1 << 20

// Server serves a TraceService over HTTP.
type Server struct {
	Service ports.TraceService

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	swagger  *openapi3.T
	request  *openapi3.Schema
	traceID  *openapi3.Schema
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// GetSwagger parses the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// NewServer prepares a Server and its request validators.
func NewServer(svc ports.TraceService, opts ...Option) (*Server, error) {
	s := &Server{Service: svc}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	s.swagger = doc

	ref, ok := doc.Components.Schemas["TraceRequest"]
	if !ok || ref.Value == nil {
		return nil, errors.New("openapi spec has no TraceRequest schema")
	}
	s.request = ref.Value

	item := doc.Paths.Find("/traces/{id}")
	if item == nil || item.Get == nil || len(item.Get.Parameters) == 0 {
		return nil, errors.New("openapi spec has no trace id parameter")
	}
	s.traceID = item.Get.Parameters[0].Value.Schema.Value
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/traces", s.ListTraces)
	r.Post("/traces", s.CreateTrace)
	r.Get("/traces/{id}", s.GetTrace)
	r.Get("/models", s.ListModels)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc ports.TraceService, opts ...Option) (http.Handler, error) {
	s, err := NewServer(svc, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// CreateTrace handles POST /traces.
func (s *Server) CreateTrace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if err := s.request.VisitJSON(raw, openapi3.MultiErrors()); err != nil {
		s.logger.Warn("CreateTrace: request rejected by schema", "error", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	req := domain.NewTraceRequest(domain.Vec3{}, domain.Forward)
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid trace request: %w", err))
		return
	}

	record, err := s.Service.Run(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidConfiguration) || errors.Is(err, domain.ErrUnknownModel) {
			status = http.StatusBadRequest
		} else {
			s.logger.Error("CreateTrace failed", "error", err)
		}
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// TracesResponse is the body of GET /traces.
type TracesResponse struct {
	IDs []string `json:"ids"`
}

// ListTraces handles GET /traces.
func (s *Server) ListTraces(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.List(r.Context())
	if err != nil {
		s.logger.Error("ListTraces failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, TracesResponse{IDs: ids})
}

// GetTrace handles GET /traces/{id}.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return
	}
	if err := s.traceID.VisitJSON(id); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid trace id %q", id))
		return
	}

	record, err := s.Service.Lookup(r.Context(), id)
	if errors.Is(err, domain.ErrTraceNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.logger.Error("GetTrace failed", "error", err, "trace_id", id)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// ModelsResponse is the body of GET /models.
type ModelsResponse struct {
	Models []string `json:"models"`
	Scheme string   `json:"scheme,omitempty"`
}

// ListModels handles GET /models.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	resp := ModelsResponse{Models: s.Service.Models()}
	if sch, ok := s.Service.(interface{ Scheme() string }); ok {
		resp.Scheme = sch.Scheme()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.swagger.Info != nil {
		apiVersion = s.swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "fieldline-http",
		"version":     strings.TrimSpace(fieldline.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Fields: schema.Keys(err)})
}
