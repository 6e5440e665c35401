package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/mapaddress-backend/config"
	"github.com/ikkim/mapaddress-backend/internal/client"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Logs go to stderr so they do not interleave with the prompt.
	logger.Initialize(logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewAPIClient(cfg.Client.APIBaseURL, &http.Client{Timeout: 15 * time.Second})

	// Device location comes from CLIENT_LOCATION or the Google Geolocation API.
	var locator geocoding.Locator
	switch {
	case cfg.Client.Location != "":
		pos, err := client.ParsePoint(cfg.Client.Location)
		if err != nil {
			logger.Fatal("Invalid CLIENT_LOCATION", err)
		}
		locator = geocoding.StaticLocator{Position: pos}
	case cfg.Geocoder.APIKey != "":
		googleLocator, err := geocoding.NewLocator(geocoding.ProviderConfig{APIKey: cfg.Geocoder.APIKey})
		if err != nil {
			logger.Warn("Geolocation unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			locator = googleLocator
		}
	}

	session := client.NewSession(
		api,
		api,
		locator,
		client.NewConsoleMap(os.Stdout),
		client.NewConsoleAlerter(os.Stdout),
		cfg.Client.UserID,
	)

	logger.Info("Client connected", map[string]interface{}{
		"api":     cfg.Client.APIBaseURL,
		"user_id": cfg.Client.UserID,
	})

	if err := client.RunConsole(ctx, session, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Fatal("Console stopped", err)
	}
}
