package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roadboard/road-data-api/internal/adapter/featureservice"
	"github.com/roadboard/road-data-api/internal/adapter/httpapi"
	"github.com/roadboard/road-data-api/internal/adapter/nominatim"
	"github.com/roadboard/road-data-api/internal/adapter/openmeteo"
	"github.com/roadboard/road-data-api/internal/config"
	"github.com/roadboard/road-data-api/internal/downloader"
	"github.com/roadboard/road-data-api/internal/observability"
	"github.com/roadboard/road-data-api/internal/roadnet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	signs := featureservice.NewClient(cfg.SignsBaseURL, cfg.SignsPageTimeout, logger, metrics)
	dl := downloader.New(signs, cfg.DataDir, logger, metrics)

	store, err := roadnet.Open(cfg.RoadNetworkDB, logger, metrics)
	if err != nil {
		logger.Error("failed to open road network db", "error", err, "path", cfg.RoadNetworkDB)
		os.Exit(1)
	}

	forecast := openmeteo.NewClient(cfg.ForecastBaseURL, cfg.ForecastTimeout, logger, metrics)
	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout, logger, metrics),
		cfg.GeocoderCacheSize,
		metrics,
	)

	ready := httpapi.ReadinessFunc(func(ctx context.Context) error {
		if err := store.CheckReadiness(ctx); err != nil {
			return err
		}
		return dl.CheckReadiness(ctx)
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, dl, store, forecast, geocoder, ready, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("road network db close error", "error", err)
	}

	logger.Info("shutdown complete")
}
