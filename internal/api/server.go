// Package api exposes the assistant over HTTP: a streaming plain-text
// POST /ask endpoint plus a health probe, wrapped in the standard
// middleware stack.
package api

import (
	"errors"
	"net/http"

	"github.com/jawellis/internship-finder/internal/assistant"
	"github.com/jawellis/internship-finder/internal/log"
)

// Config contains configuration for creating the API server.
type Config struct {
	Logger      log.Logger      // Required
	Flow        *assistant.Flow // Required
	CORSOrigins []string        // Allowed origins; "*" allows any
	TrustProxy  bool            // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst   int             // Rate limiter burst size per IP (0 = default 60)
}

// Server is the assistant HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the API server with all routes configured.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Flow == nil {
		return nil, errors.New("assistant flow is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	ah := &askHandler{
		logger: cfg.Logger,
		flow:   cfg.Flow,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", ah.ask)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, cfg.Logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(cfg.Logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(cfg.Logger)(handler)

	// Health probe bypasses the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
