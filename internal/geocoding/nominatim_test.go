package geocoding_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNominatimServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNominatimProvider_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		srv := newNominatimServer(t, http.StatusOK, `[{"lat":"51.5074","lon":"-0.1278"}]`)
		provider := geocoding.NewNominatimProvider(srv.Client(), srv.URL, "test-agent")

		coords, err := provider.Geocode(ctx, "London")
		require.NoError(t, err)
		assert.Equal(t, &model.Coordinates{Lat: 51.5074, Lng: -0.1278}, coords)
	})

	t.Run("empty result", func(t *testing.T) {
		srv := newNominatimServer(t, http.StatusOK, `[]`)
		provider := geocoding.NewNominatimProvider(srv.Client(), srv.URL, "test-agent")

		_, err := provider.Geocode(ctx, "zzzz")
		require.ErrorIs(t, err, geocoding.ErrNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		srv := newNominatimServer(t, http.StatusServiceUnavailable, `busy`)
		provider := geocoding.NewNominatimProvider(srv.Client(), srv.URL, "test-agent")

		_, err := provider.Geocode(ctx, "London")
		require.Error(t, err)
		assert.NotErrorIs(t, err, geocoding.ErrNotFound)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("bad coordinates", func(t *testing.T) {
		srv := newNominatimServer(t, http.StatusOK, `[{"lat":"north","lon":"0"}]`)
		provider := geocoding.NewNominatimProvider(srv.Client(), srv.URL, "test-agent")

		_, err := provider.Geocode(ctx, "London")
		require.Error(t, err)
	})

	t.Run("blank address", func(t *testing.T) {
		provider := geocoding.NewNominatimProvider(http.DefaultClient, "", "")
		_, err := provider.Geocode(ctx, "")
		require.ErrorIs(t, err, geocoding.ErrEmptyAddress)
	})
}
