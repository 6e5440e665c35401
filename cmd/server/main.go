package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/mapaddress-backend/config"
	"github.com/ikkim/mapaddress-backend/internal/app/controller"
	"github.com/ikkim/mapaddress-backend/internal/app/repository"
	"github.com/ikkim/mapaddress-backend/internal/app/service"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/ikkim/mapaddress-backend/internal/router"
	"github.com/ikkim/mapaddress-backend/internal/scheduler"
	"github.com/ikkim/mapaddress-backend/internal/storage"
	"github.com/ikkim/mapaddress-backend/internal/websocket"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"github.com/ikkim/mapaddress-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if cfg.Server.Environment == "development" && logLevel == "info" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting address book server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
		"log_level":   logLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	addressRepo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open address store", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close store connection", err)
		}
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	// Change feed
	hub := websocket.NewHub(m)
	go hub.Run(ctx)

	// Initialize services
	addressService := service.NewAddressService(addressRepo, hub)
	geocodeService := newGeocodeService(cfg, m)
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	backupService := service.NewBackupService(addressService, newBackupStore(ctx, cfg), cfg.Backup.Prefix, m)

	// Scheduled backups
	if cfg.Backup.Schedule != "" {
		backupScheduler := scheduler.NewBackupScheduler(backupService)
		if err := backupScheduler.Start(cfg.Backup.Schedule); err != nil {
			logger.Fatal("Failed to start backup scheduler", err)
		}
		defer backupScheduler.Stop()
	}

	// Initialize controllers
	var geocodeController *controller.GeocodeController
	if geocodeService != nil {
		geocodeController = controller.NewGeocodeController(geocodeService)
	}

	// Setup router
	r := router.NewRouter(
		controller.NewAddressController(addressService),
		geocodeController,
		controller.NewExportController(backupService),
		controller.NewHealthController(addressRepo),
		controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins),
		m,
		registry,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

// newGeocodeService returns nil when no provider can be built, which leaves
// the /geocode route unregistered.
func newGeocodeService(cfg *config.Config, m *metrics.Metrics) service.GeocodeService {
	providerCfg := geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Provider),
		APIKey:    cfg.Geocoder.APIKey,
		BaseURL:   cfg.Geocoder.NominatimURL,
		UserAgent: cfg.Geocoder.UserAgent,
	}
	provider, err := geocoding.NewProvider(providerCfg)
	if err != nil {
		logger.Warn("Geocoding disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var cache service.GeocodeCache
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Geocode cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewGeocodeCache(redis.GetClient(), cfg.Geocoder.CacheTTL)
		}
	}

	logger.Info("Geocoding enabled", map[string]interface{}{
		"provider": string(providerCfg.ResolveType()),
		"cached":   cache != nil,
	})
	return service.NewGeocodeService(provider, string(providerCfg.ResolveType()), cache, m)
}

// newBackupStore returns nil when no bucket is configured.
func newBackupStore(ctx context.Context, cfg *config.Config) service.ObjectStore {
	if cfg.S3.Bucket == "" {
		return nil
	}
	s3Storage, err := storage.NewS3Storage(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", err)
	}
	return s3Storage
}
