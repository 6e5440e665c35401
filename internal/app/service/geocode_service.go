package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
)

// GeocodeCache stores provider answers keyed by the query text.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (*model.Coordinates, bool, error)
	Set(ctx context.Context, address string, coords model.Coordinates) error
}

type GeocodeService interface {
	Geocode(ctx context.Context, address string) (*model.Coordinates, error)
}

type geocodeService struct {
	provider     geocoding.Provider
	providerName string
	cache        GeocodeCache
	metrics      *metrics.Metrics
}

// NewGeocodeService wraps provider with an optional cache. cache and m may be nil.
func NewGeocodeService(provider geocoding.Provider, providerName string, cache GeocodeCache, m *metrics.Metrics) GeocodeService {
	return &geocodeService{
		provider:     provider,
		providerName: providerName,
		cache:        cache,
		metrics:      m,
	}
}

func (s *geocodeService) observe(outcome string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.GeocodeRequests.WithLabelValues(s.providerName, outcome).Inc()
	if outcome != "cache_hit" {
		s.metrics.GeocodeSeconds.WithLabelValues(s.providerName).Observe(time.Since(started).Seconds())
	}
}

// Geocode resolves address, consulting the cache first. Cache failures are
// logged and otherwise ignored; misses are never cached.
func (s *geocodeService) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, geocoding.ErrEmptyAddress
	}
	started := time.Now()

	if s.cache != nil {
		coords, ok, err := s.cache.Get(ctx, address)
		if err != nil {
			logger.Warn("Geocode cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if ok {
			s.observe("cache_hit", started)
			return coords, nil
		}
	}

	coords, err := s.provider.Geocode(ctx, address)
	if errors.Is(err, geocoding.ErrNotFound) {
		s.observe("not_found", started)
		logger.Info("Address not found by geocoder", map[string]interface{}{
			"provider": s.providerName,
			"address":  address,
		})
		return nil, err
	}
	if err != nil {
		s.observe("error", started)
		logger.Error("Geocoding provider failed", err, map[string]interface{}{
			"provider": s.providerName,
		})
		return nil, err
	}
	s.observe("success", started)

	if s.cache != nil {
		if err := s.cache.Set(ctx, address, *coords); err != nil {
			logger.Warn("Geocode cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return coords, nil
}
