package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls  int
	coords *model.Coordinates
	err    error
}

func (p *stubProvider) Geocode(_ context.Context, _ string) (*model.Coordinates, error) {
	p.calls++
	return p.coords, p.err
}

type mapCache struct {
	entries map[string]model.Coordinates
	getErr  error
}

func (c *mapCache) Get(_ context.Context, address string) (*model.Coordinates, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	coords, ok := c.entries[strings.ToLower(address)]
	if !ok {
		return nil, false, nil
	}
	return &coords, true, nil
}

func (c *mapCache) Set(_ context.Context, address string, coords model.Coordinates) error {
	c.entries[strings.ToLower(address)] = coords
	return nil
}

func TestGeocodeService_CachesHits(t *testing.T) {
	provider := &stubProvider{coords: &model.Coordinates{Lat: 48.85, Lng: 2.35}}
	cache := &mapCache{entries: map[string]model.Coordinates{}}
	m := metrics.NewNop()
	svc := NewGeocodeService(provider, "nominatim", cache, m)
	ctx := context.Background()

	first, err := svc.Geocode(ctx, "Paris")
	require.NoError(t, err)
	second, err := svc.Geocode(ctx, " paris ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("nominatim", "cache_hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("nominatim", "success")), 0)
}

func TestGeocodeService_NotFoundIsNotCached(t *testing.T) {
	provider := &stubProvider{err: geocoding.ErrNotFound}
	cache := &mapCache{entries: map[string]model.Coordinates{}}
	svc := NewGeocodeService(provider, "google", cache, nil)

	_, err := svc.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, geocoding.ErrNotFound)
	assert.Empty(t, cache.entries)
}

func TestGeocodeService_CacheFailureFallsThrough(t *testing.T) {
	provider := &stubProvider{coords: &model.Coordinates{Lat: 1, Lng: 1}}
	cache := &mapCache{entries: map[string]model.Coordinates{}, getErr: errors.New("redis down")}
	svc := NewGeocodeService(provider, "google", cache, nil)

	coords, err := svc.Geocode(context.Background(), "Somewhere")
	require.NoError(t, err)
	assert.Equal(t, 1.0, coords.Lat)
	assert.Equal(t, 1, provider.calls)
}

func TestGeocodeService_ProviderErrorAndBlank(t *testing.T) {
	provider := &stubProvider{err: errors.New("REQUEST_DENIED")}
	svc := NewGeocodeService(provider, "google", nil, nil)

	_, err := svc.Geocode(context.Background(), "Somewhere")
	require.Error(t, err)
	assert.NotErrorIs(t, err, geocoding.ErrNotFound)

	_, err = svc.Geocode(context.Background(), "  ")
	assert.ErrorIs(t, err, geocoding.ErrEmptyAddress)
	assert.Equal(t, 1, provider.calls)
}
