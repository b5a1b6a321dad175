package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/handler"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/middleware"
	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/metrics"
)

func New(h *handler.Handler, log *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(m))

	r.NotFound(h.HandleNotFound)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/progress", h.HandleGetProgress)
	})

	return r
}
