package geocoding

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"googlemaps.github.io/maps"
)

// GoogleAPIClient is the part of *maps.Client the providers use.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// GoogleProvider geocodes with the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient
}

func NewGoogleProvider(client GoogleAPIClient) *GoogleProvider {
	return &GoogleProvider{client: client}
}

// Geocode returns the location of the first result. ZERO_RESULTS maps to
// ErrNotFound; any other non-OK status is returned as an error.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	logger.Debug("Geocoding using Google Maps", map[string]interface{}{
		"address": address,
	})

	results, err := gp.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	loc := results[0].Geometry.Location
	return &model.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// GoogleLocator estimates position with the Geolocation API from the
// caller's IP address.
type GoogleLocator struct {
	client GoogleAPIClient
}

func NewGoogleLocator(client GoogleAPIClient) *GoogleLocator {
	return &GoogleLocator{client: client}
}

func (gl *GoogleLocator) Locate(ctx context.Context) (*model.Coordinates, error) {
	result, err := gl.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		return nil, fmt.Errorf("failed to geolocate: %w", err)
	}
	if result == nil {
		return nil, ErrNotFound
	}

	logger.Debug("Geolocated device", map[string]interface{}{
		"accuracy_m": result.Accuracy,
	})
	return &model.Coordinates{Lat: result.Location.Lat, Lng: result.Location.Lng}, nil
}

// StaticLocator always reports the same position.
type StaticLocator struct {
	Position model.Coordinates
}

func (s StaticLocator) Locate(context.Context) (*model.Coordinates, error) {
	pos := s.Position
	return &pos, nil
}
