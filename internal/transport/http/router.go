// Package httptransport exposes the command dispatcher over HTTP.
package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dossier/internal/command"
	"dossier/internal/platform/middleware"
	"dossier/pkg/platform/jsonx"
)

const defaultMaxBodyBytes = 4 << 20

// Executor runs one command envelope.
type Executor interface {
	Execute(ctx context.Context, body []byte) command.Response
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	executor     Executor
	logger       *slog.Logger
	checks       map[string]HealthCheck
	metrics      http.Handler
	maxBodyBytes int64
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithHealthCheck adds a named dependency to GET /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		h.checks[name] = check
	}
}

// WithMetricsHandler replaces the default Prometheus handler.
func WithMetricsHandler(handler http.Handler) Option {
	return func(h *Handler) {
		h.metrics = handler
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		h.maxBodyBytes = n
	}
}

func New(executor Executor, opts ...Option) *Handler {
	h := &Handler{
		executor:     executor,
		logger:       slog.Default(),
		checks:       make(map[string]HealthCheck),
		metrics:      promhttp.Handler(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router wires the public endpoints.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestTime)

	r.With(middleware.Logger(h.logger)).Post("/command", h.handleCommand)
	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", h.metrics)
	return r
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}

	resp := h.executor.Execute(r.Context(), body)
	writeJSON(w, resp.HTTPStatus(), resp)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonx.NewEncoder(w).Encode(v)
}
