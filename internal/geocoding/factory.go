package geocoding

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	ProviderTypeGoogle    ProviderType = "google"
	ProviderTypeNominatim ProviderType = "nominatim"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type      ProviderType // empty picks google when APIKey is set, nominatim otherwise
	APIKey    string       // Google Maps key
	RateLimit int          // requests per second, Google only
	BaseURL   string       // Nominatim endpoint root
	UserAgent string       // sent to Nominatim
}

// ResolveType applies the default provider choice.
func (c ProviderConfig) ResolveType() ProviderType {
	if c.Type != "" {
		return c.Type
	}
	if c.APIKey != "" {
		return ProviderTypeGoogle
	}
	return ProviderTypeNominatim
}

// NewProvider creates a geocoding provider based on the provided configuration.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.ResolveType() {
	case ProviderTypeGoogle:
		client, err := newMapsClient(config)
		if err != nil {
			return nil, err
		}
		return NewGoogleProvider(client), nil
	case ProviderTypeNominatim:
		return NewNominatimProvider(&http.Client{Timeout: 10 * time.Second}, config.BaseURL, config.UserAgent), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// NewLocator returns the Google geolocation locator. It needs an API key.
func NewLocator(config ProviderConfig) (Locator, error) {
	client, err := newMapsClient(config)
	if err != nil {
		return nil, err
	}
	return NewGoogleLocator(client), nil
}

func newMapsClient(config ProviderConfig) (*maps.Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}
	return client, nil
}
