package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger

	// RequestLogging enables chi's access log.
	RequestLogging bool

	// WebhookSecret is the WhatsApp app secret; empty disables signature checks.
	WebhookSecret string
}

type Handlers struct {
	Health    *HealthHandler
	Contacts  *ContactHandler
	Inbound   *InboundHandler
	Messages  *MessageHandler
	Scheduler *SchedulerHandler
	Audit     *AuditHandler
}

// NewHandlers builds every handler around the same bot.
func NewHandlers(bot LeadBot, health *HealthHandler, limiter *RateLimiter, logger *slog.Logger) Handlers {
	return Handlers{
		Health:    health,
		Contacts:  NewContactHandler(bot, limiter, logger),
		Inbound:   NewInboundHandler(bot, logger),
		Messages:  NewMessageHandler(bot, logger),
		Scheduler: NewSchedulerHandler(bot, logger),
		Audit:     NewAuditHandler(bot, logger),
	}
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/contacts", func(r chi.Router) {
		r.Post("/", h.Contacts.Register)
		r.Post("/revoke-consent", h.Contacts.RevokeConsent)
	})
	r.With(VerifyWhatsAppSignature(cfg.WebhookSecret)).Post("/webhooks/whatsapp/inbound", h.Inbound.Handle)
	r.Post("/messages/send", h.Messages.Send)
	r.Post("/scheduler/run", h.Scheduler.Run)
	r.Get("/audit", h.Audit.List)

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	return r
}
