package api

import (
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/indredK/history-sub002/internal/api/handlers"
	mw "github.com/indredK/history-sub002/internal/api/middleware"
	"github.com/indredK/history-sub002/internal/config"
	"github.com/indredK/history-sub002/internal/service"
	"go.uber.org/zap"
)

// Options are the HTTP settings shared by both servers.
type Options struct {
	AdminToken     string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// OptionsFromConfig reads Options from the environment.
func OptionsFromConfig() Options {
	return Options{
		AdminToken:     config.AdminToken(),
		CORSOrigins:    config.CORSOrigins(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}
}

// App holds the router and the counters behind /metrics.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
	limitedCount atomic.Int64
	stopCleanup  func()
}

// Close stops the rate limiter janitor.
func (app *App) Close() {
	app.stopCleanup()
}

func newApp(opts Options, logger *zap.Logger) *App {
	r := chi.NewRouter()
	app := &App{Router: r, startTime: time.Now()}

	limiter := mw.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	app.stopCleanup = limiter.StartCleanup(10 * time.Minute)
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, &app.limitedCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(limiter.Middleware)

	return app
}

// NewApp builds the site data server: resource reads under /v1 plus the
// fallback status and control routes.
func NewApp(catalog *service.Catalog, opts Options, logger *zap.Logger) *App {
	app := newApp(opts, logger)
	r := app.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))

	resourceHandler := handlers.NewResourceHandler(catalog, logger)
	fallbackHandler := handlers.NewFallbackHandler(catalog, logger)

	r.Get("/health", siteHealthHandler(catalog))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/", resourceHandler.Index)
		r.Get("/status", fallbackHandler.Status)

		r.Route("/fallback", func(r chi.Router) {
			r.Get("/", fallbackHandler.State)
			r.Group(func(r chi.Router) {
				r.Use(mw.AdminToken(opts.AdminToken))
				r.Post("/activate", fallbackHandler.Activate)
				r.Post("/deactivate", fallbackHandler.Deactivate)
				r.Post("/reset", fallbackHandler.Reset)
				r.Patch("/config", fallbackHandler.UpdateConfig)
			})
		})

		r.Get("/{resource}", resourceHandler.List)
		r.Get("/{resource}/{id}", resourceHandler.GetByID)
	})

	return app
}
