// Package web provides the HTTP server and handlers for DataLens.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JonMunkholm/DataLens/internal/config"
	"github.com/JonMunkholm/DataLens/internal/core"
	mw "github.com/JonMunkholm/DataLens/internal/web/middleware"
)

// Server is the DataLens HTTP server.
type Server struct {
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *mw.Limiter
	parses  *core.ParseLimiter
	now     func() time.Time
}

// NewServer builds the router for cfg. Nothing listens until Start.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		parses: core.NewParseLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		now:    time.Now,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if c := s.cfg.CORS; c.Enabled() {
		if c.Wildcard() && c.AllowCredentials {
			slog.Warn("cors: wildcard origin with credentials is unsafe for production",
				"origins", c.AllowedOrigins)
		}
		s.router.Use(cors.Handler(corsOptions(c)))
	}

	if s.cfg.Rate.Enabled {
		s.limiter = mw.NewLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.limiter.OnLimit = func(w http.ResponseWriter, r *http.Request) {
			s.respondError(w, r, core.ErrRateLimited, http.StatusTooManyRequests)
		}
		s.router.Use(s.limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)

	// Dataset operations
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/analyze", s.handleAnalyze)
	s.router.Route("/report", func(r chi.Router) {
		r.Post("/pdf", s.handleReport("pdf"))
		r.Post("/xlsx", s.handleReport("xlsx"))
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests, then waits for running parses.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if n := s.parses.Active(); n > 0 {
		slog.Info("waiting for uploads to finish", "active", n)
	}
	return s.parses.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// allMethods replaces "*" in CORS_ALLOWED_METHODS; go-chi/cors has no
// method wildcard.
var allMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

func corsOptions(c config.CORSConfig) cors.Options {
	methods := c.AllowedMethods
	for _, m := range methods {
		if m == "*" {
			methods = allMethods
			break
		}
	}
	return cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition", "X-Report-ID"},
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// The landing page submits the analyze form with an inline handler.
			if csp {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}

			next.ServeHTTP(w, r)
		})
	}
}
