// Package health provides the HTTP liveness endpoint served next to the scheduler.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Status    string `json:"status"`
	Bot       string `json:"bot"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Healthy bool    `json:"healthy"`
	Uptime  float64 `json:"uptime"`
	Domains int     `json:"domains"`
}

// Option configures a Server.
type Option func(*Server)

// WithMCP mounts an MCP streamable HTTP handler under /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) {
		s.mcp = h
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// Server is the HTTP health server.
type Server struct {
	tracker driving.TrackerService
	mcp     http.Handler
	router  chi.Router
	now     func() time.Time
	started time.Time
}

// NewServer creates a health server reporting on the given tracker.
func NewServer(tracker driving.TrackerService, opts ...Option) *Server {
	s := &Server{
		tracker: tracker,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleStatus)
	r.Get("/health", s.handleHealth)

	if s.mcp != nil {
		r.Mount("/mcp", s.mcp)
	}

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Event("health server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "OK",
		Bot:       "running",
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Healthy: true,
		Uptime:  s.now().Sub(s.started).Seconds(),
		Domains: len(s.tracker.List(r.Context())),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("health: encoding response: %v", err)
	}
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
