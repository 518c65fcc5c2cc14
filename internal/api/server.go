package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/davidsl88/asteroids/internal/auth"
	"github.com/davidsl88/asteroids/internal/health"
	"github.com/davidsl88/asteroids/internal/metrics"
	"github.com/davidsl88/asteroids/internal/neo"
)

// NeoFetcher returns the largest near-Earth objects for a day window.
type NeoFetcher interface {
	FetchTop(ctx context.Context, days int) ([]neo.Record, error)
}

// Config holds inbound HTTP configuration.
type Config struct {
	Addr         string
	Auth         auth.Config
	CORSOrigins  []string      // empty disables CORS handling
	TrustProxy   bool          // take the logged client IP from X-Forwarded-For/X-Real-IP
	WriteTimeout time.Duration // must exceed the feed timeout (default: 40s)
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(cfg Config, logger *slog.Logger, fetcher NeoFetcher) *Server {
	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/asteroids/get", asteroidsHandler(logger, fetcher))

	// Build middleware chain: metrics -> cors -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(cfg.Auth)(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet},
			AllowedHeaders: []string{"Authorization", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}).Handler(handler)
	}
	handler = metrics.Middleware(handler)

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 40 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Handler returns the root handler including all middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}
