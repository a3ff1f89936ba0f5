package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/indredK/history-sub002/internal/api/handlers"
	"github.com/indredK/history-sub002/internal/domain"
	"go.uber.org/zap"
)

// NewUpstreamApp builds the history API that the site server reads in api
// mode, backed by the records table.
func NewUpstreamApp(records domain.RecordStore, db Pinger, opts Options, logger *zap.Logger) *App {
	app := newApp(opts, logger)
	r := app.Router

	recordHandler := handlers.NewRecordHandler(records, logger)

	r.Get("/health", dbHealthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/{resource}", recordHandler.List)
		r.Get("/{resource}/{id}", recordHandler.GetByID)
	})

	return app
}
