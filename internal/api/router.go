package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medischedule/medischedule/internal/aivalidate"
	"github.com/medischedule/medischedule/internal/scheduling"
)

type RouterConfig struct {
	Service  *scheduling.Service
	AIClient *aivalidate.Client
	Redis    *redis.Client
	PgPool   *pgxpool.Pool // nil when the event log is disabled
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.Redis, cfg.PgPool, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/signup", signupHandler(cfg.Service))
	r.Post("/login", loginHandler(cfg.Service))
	r.Post("/logout", logoutHandler(cfg.Service))
	r.Get("/session", sessionHandler(cfg.Service))

	r.Get("/doctors", listDoctorsHandler(cfg.Service))
	r.Put("/doctors/{id}", updateDoctorHandler(cfg.Service))
	r.Put("/users/{id}/details", updateUserDetailsHandler(cfg.Service))

	r.Get("/slots", slotsHandler(cfg.Service))

	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Post("/appointments", bookAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/status", statusHandler(cfg.Service))
	r.Post("/appointments/validate-slot", validateSlotHandler(cfg.Service, cfg.AIClient))

	r.Get("/resources", listResourcesHandler(cfg.Service))
	r.Post("/resources", addResourceHandler(cfg.Service))
	r.Post("/resources/{id}/status", resourceStatusHandler(cfg.Service))

	r.Post("/notifications", notifyHandler(cfg.Service))

	return r
}
