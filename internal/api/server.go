// Package api exposes the campaign wizard over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ignite/campaign-manager/internal/metrics"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, health *HealthChecker, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)

	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/health", health.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/wizard/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/messages", h.SendMessage)
				r.Post("/creation", h.StartCreation)
				r.Delete("/creation", h.CancelCreation)
				r.Patch("/draft", h.UpdateDraft)
				r.Post("/selections/{kind}/{itemID}", h.ToggleSelection)
				r.Get("/insights", h.GetInsights)
				r.Post("/finalize", h.Finalize)
			})
		})
		r.Get("/campaigns/{id}", h.GetCampaign)
	})

	return r
}

// Server represents the API server
type Server struct {
	server *http.Server
}

// NewServer wraps handler in an http.Server bound to addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{server: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// assistant replies can take a while
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}}
}

// ListenAndServe starts the HTTP server. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
