package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	Auth           middleware.TokenValidator

	// TrustProxy liga o chimw.RealIP; só vale atrás de um proxy que
	// sobrescreve X-Forwarded-For/X-Real-IP.
	TrustProxy bool

	Lead      *LeadHandler
	Leads     *LeadsHandler
	Pipelines *PipelineHandler
	Pages     *PageHandler
	Events    *EventHandler
	Health    *HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	// Rotas públicas
	r.Post("/api/lead", cfg.Lead.CaptureLead)
	r.Get("/api/pages/{userSlug}", cfg.Pages.GetJSON)
	r.Get("/p/{userSlug}", cfg.Pages.Public)
	r.Post("/api/events/click", cfg.Events.Click)

	// Rotas do painel
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Auth))

		r.Route("/api/leads", func(r chi.Router) {
			r.Get("/", cfg.Leads.List)
			r.Post("/", cfg.Leads.Create)
			r.Patch("/", cfg.Leads.Update)
			r.Delete("/", cfg.Leads.Delete)
			r.Post("/import", cfg.Leads.Import)

			r.Get("/{id}", cfg.Leads.Get)
			r.Patch("/{id}", cfg.Leads.Update)
			r.Delete("/{id}", cfg.Leads.Delete)
			r.Post("/{id}/move", cfg.Leads.Move)
		})

		r.Route("/api/pipelines", func(r chi.Router) {
			r.Get("/", cfg.Pipelines.List)
			r.Post("/", cfg.Pipelines.Create)
			r.Delete("/", cfg.Pipelines.Delete)
			r.Get("/{id}/board", cfg.Pipelines.Board)
			r.Delete("/{id}", cfg.Pipelines.Delete)
		})

		r.Put("/api/pages/me", cfg.Pages.UpdateMine)
	})

	return r
}
