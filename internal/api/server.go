// Package api serves doc entry extraction over HTTP.
package api

import (
	"net/http"

	"fortio.org/safecast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"moonwave/internal/diagfmt"
	"moonwave/internal/trace"
)

// Options configures the HTTP server.
type Options struct {
	// MaxBodyBytes limits the size of a posted stream document.
	MaxBodyBytes   int64
	Jobs           int
	MaxDiagnostics int
	// PathMode controls file paths in diagnostic locations.
	PathMode diagfmt.PathMode
	// RateLimit caps POST /v1/entries at this many requests per second,
	// with bursts of RateBurst. Zero disables the limit.
	RateLimit float64
	RateBurst int
}

// Server is the HTTP API server for moonwave.
type Server struct {
	router chi.Router
	tracer trace.Tracer
	opts   Options
}

// NewServer creates and configures the HTTP server. Requests are traced
// through tracer; pass trace.Nop to disable.
func NewServer(tracer trace.Tracer, opts Options) *Server {
	if tracer == nil {
		tracer = trace.Nop
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 4 << 20
	}
	s := &Server{tracer: tracer, opts: opts}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.tracer))

	r.Get("/health", s.handleHealth)
	r.With(RateLimit(s.limiter())).Post("/v1/entries", s.handleEntries)
	if ring := trace.RingOf(s.tracer); ring != nil {
		r.Get("/debug/trace", s.handleTraceDump(ring))
	}

	s.router = r
}

// limiter returns the token bucket for extraction requests, or nil when
// requests are not limited.
func (s *Server) limiter() *rate.Limiter {
	if s.opts.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(s.opts.RateLimit), max(s.opts.RateBurst, 1))
}

// maxSourceSize bounds a source rebuilt from a posted document. A body can
// never describe more source than it carries, so the body limit applies.
func (s *Server) maxSourceSize() uint32 {
	n, err := safecast.Conv[uint32](s.opts.MaxBodyBytes)
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
