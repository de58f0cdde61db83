// Package router assembles the HTTP surface of the intake service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/carebridge/complaint-intake/internal/http/middleware"
	"github.com/carebridge/complaint-intake/internal/intake"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	IntakeHandler      *intake.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.IntakeHandler != nil {
		r.Route("/intake", func(r chi.Router) {
			// The intake surface is public; per-IP limiting keeps one
			// client from monopolizing the language models.
			r.Use(httpmiddleware.RateLimit(5, 10))
			r.Post("/start", cfg.IntakeHandler.Start)
			r.Post("/message", cfg.IntakeHandler.Message)
			r.Post("/end", cfg.IntakeHandler.End)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
