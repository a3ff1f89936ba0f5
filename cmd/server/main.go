package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indredK/history-sub002/internal/api"
	"github.com/indredK/history-sub002/internal/apiclient"
	"github.com/indredK/history-sub002/internal/assets"
	"github.com/indredK/history-sub002/internal/buildconfig"
	"github.com/indredK/history-sub002/internal/config"
	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/indredK/history-sub002/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	mode, err := config.DataSource()
	if err != nil {
		logger.Fatal("invalid data source", zap.Error(err))
	}
	if mode == datasource.ModeAPI && config.APIBaseURL() == "" {
		logger.Fatal("API_BASE_URL is required when DATA_SOURCE=api")
	}

	var loader *assets.Loader
	if origin := config.StaticURL(); origin != "" {
		loader = assets.NewHTTP(origin, config.BasePath(), &http.Client{Timeout: config.APITimeout()}, logger)
		logger.Info("loading assets over http", zap.String("origin", origin))
	} else {
		loader = assets.NewFS(os.DirFS(config.StaticRoot()), config.BasePath(), logger)
		logger.Info("loading assets from disk", zap.String("root", config.StaticRoot()))
	}

	client := apiclient.New(config.APIBaseURL(),
		apiclient.WithTimeout(config.APITimeout()),
		apiclient.WithLogger(logger),
	)

	fallbackCfg, err := config.FallbackConfig()
	if err != nil {
		logger.Fatal("invalid fallback config", zap.Error(err))
	}
	catalog := service.NewCatalog(service.Deps{
		Mode:     mode,
		Fallback: fallback.New(fallbackCfg, logger),
		API:      client,
		Assets:   loader,
		Retry:    config.RetryPolicy(),
		Logger:   logger,
	})

	refresher := service.NewRefresherService(loader, config.AssetRefreshInterval(), logger)
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	refresher.Warm(warmCtx)
	cancelWarm()
	if config.AssetRefreshInterval() > 0 {
		refresher.Start()
		defer refresher.Stop()
	}

	app := api.NewApp(catalog, api.OptionsFromConfig(), logger)
	defer app.Close()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("mode", mode.String()),
			zap.String("api_base_url", client.BaseURL()),
			zap.Int("fallback_threshold", fallbackCfg.FallbackThreshold),
			zap.Duration("fallback_duration", fallbackCfg.FallbackDuration),
			zap.String("version", buildconfig.Version()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
