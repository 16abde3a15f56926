package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatentVault/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentVault/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the route tree. Nil handlers leave their routes unmounted.
type RouterConfig struct {
	// Handlers
	PatentHandler    *handlers.PatentHandler
	ImportHandler    *handlers.ImportHandler
	AssistantHandler *handlers.AssistantHandler
	HealthHandler    *handlers.HealthHandler

	// Middleware
	CORS        *middleware.CORSConfig
	RateLimiter *middleware.ClientLimiter
	MaxBodySize int64
	Timeout     time.Duration

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, middleware.DefaultRateLimitConfig()))
	}

	// --- Probes and scrape endpoint ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		if cfg.MaxBodySize > 0 {
			api.Use(chimw.RequestSize(cfg.MaxBodySize))
		}
		if cfg.Timeout > 0 {
			api.Use(chimw.Timeout(cfg.Timeout))
		}
		registerPatentRoutes(api, cfg.PatentHandler)
		registerImportRoutes(api, cfg.ImportHandler)
		registerAssistantRoutes(api, cfg.AssistantHandler)
	})

	return r
}

// registerPatentRoutes mounts the dashboard endpoints under /patents.
func registerPatentRoutes(r chi.Router, h *handlers.PatentHandler) {
	if h == nil {
		return
	}
	r.Route("/patents", func(pr chi.Router) {
		pr.Get("/", h.List)
		pr.Post("/", h.Create)
		pr.Get("/stats", h.Stats)
		pr.Get("/alerts", h.Alerts)
		pr.Get("/export", h.Export)

		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Put("/", h.Update)
			item.Delete("/", h.Delete)
			item.Get("/reminder", h.Reminder)
			item.Post("/reminder/send", h.SendReminder)
		})
	})
}

// registerImportRoutes mounts document import endpoints under /import.
func registerImportRoutes(r chi.Router, h *handlers.ImportHandler) {
	if h == nil {
		return
	}
	r.Route("/import", func(ir chi.Router) {
		ir.Post("/text", h.Text)
		ir.Post("/file", h.File)
		ir.Post("/batch", h.Batch)
	})
}

// registerAssistantRoutes mounts the chat assistant under /assistant.
func registerAssistantRoutes(r chi.Router, h *handlers.AssistantHandler) {
	if h == nil {
		return
	}
	r.Route("/assistant", func(ar chi.Router) {
		ar.Get("/chat", h.History)
		ar.Post("/chat", h.Chat)
		ar.Delete("/chat", h.Reset)
	})
}

//Personal.AI order the ending
