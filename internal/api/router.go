package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Source SnapshotSource
	// Cache is optional; nil computes availability on every request.
	Cache    AvailabilityCache
	Location *time.Location
	Logger   zerolog.Logger

	PostgresCheck CheckFunc
	RedisCheck    CheckFunc
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	h := &handlers{
		src:   cfg.Source,
		cache: cfg.Cache,
		loc:   loc,
		log:   cfg.Logger,
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PostgresCheck, cfg.RedisCheck, cfg.Source, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", h.listDoctors)
		r.Get("/by-specialty", h.doctorsBySpecialty)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getDoctor)
			r.Get("/appointments", h.listAppointments)
			r.Get("/availability", h.availability)
			r.Get("/stats", h.stats)
			r.Get("/overlaps", h.overlaps)
			r.Get("/schedule", h.schedule)
		})
	})
	r.Get("/patients/{id}", h.getPatient)

	r.Get("/slots", h.slots)
	r.Get("/weeks", h.week)
	r.Get("/appointments/counts", h.counts)

	return r
}
