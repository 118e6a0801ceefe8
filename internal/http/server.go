// Package http serves the ledger tools over JSON/HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"moneyleft/internal/log"
	"moneyleft/internal/middleware/ratelimit"
	"moneyleft/internal/middleware/security"
	"moneyleft/internal/middleware/trace"
	"moneyleft/internal/tools"
)

const (
	defaultMaxBodyBytes = 1 << 20
	readyTimeout        = 2 * time.Second
)

// Pinger reports whether the backing store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	RateLimitPerMinute int
	MaxBodyBytes       int64
	Logger             *log.Logger
}

type Server struct {
	http.Server
	registry *tools.Registry
	ready    Pinger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	logger   *log.Logger
	maxBody  int64

	shutdownOnce sync.Once
}

func NewServer(addr string, registry *tools.Registry, ready Pinger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	rlConfig := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		rlConfig.RequestsPerMinute = opts.RateLimitPerMinute
	}

	detector := security.NewDetector()
	s := &Server{
		registry: registry,
		ready:    ready,
		limiter:  ratelimit.NewLimiter(rlConfig),
		detector: detector,
		tracer:   trace.NewMiddleware(detector.ExtractClientIP, logger),
		logger:   logger,
		maxBody:  maxBody,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.Handle("POST /tools/{name}",
		s.limiter.Middleware(detector.ExtractClientIP, s.onRateLimit)(http.HandlerFunc(s.handleCallTool)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(detector.Middleware(headers.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server", "addr", s.Addr)
	s.shutdownOnce.Do(s.limiter.Stop)
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.ready.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry.List()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope(tools.ErrorTypeInvalidInput,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorEnvelope(tools.ErrorTypeInvalidInput, "could not read request body"))
		return
	}

	env := s.registry.Call(r.Context(), "http", name, body)
	writeJSON(w, statusFor(env), env)
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded", log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorEnvelope("rate_limited", "rate limit exceeded, retry later"))
}

// Metrics is a snapshot of the middleware counters.
type Metrics struct {
	Trace     trace.Metrics
	RateLimit ratelimit.Metrics
	Security  security.DetectionMetrics
}

func (s *Server) Metrics() Metrics {
	return Metrics{
		Trace:     s.tracer.GetMetrics(),
		RateLimit: s.limiter.GetMetrics(),
		Security:  s.detector.GetMetrics(),
	}
}
