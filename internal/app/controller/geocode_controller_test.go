package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/app/service"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	results map[string]model.Coordinates
	err     error
}

func (p stubProvider) Geocode(_ context.Context, address string) (*model.Coordinates, error) {
	if p.err != nil {
		return nil, p.err
	}
	coords, ok := p.results[address]
	if !ok {
		return nil, geocoding.ErrNotFound
	}
	return &coords, nil
}

func newGeocodeRouter(provider geocoding.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewGeocodeController(service.NewGeocodeService(provider, "stub", nil, nil))
	router.GET("/geocode", ctrl.Geocode)
	return router
}

func TestGeocodeController_Geocode(t *testing.T) {
	provider := stubProvider{results: map[string]model.Coordinates{
		"1600 Amphitheatre Pkwy": {Lat: 37.422, Lng: -122.084},
	}}

	tests := []struct {
		name       string
		provider   geocoding.Provider
		query      string
		wantStatus int
		wantCode   string
	}{
		{name: "Found", provider: provider, query: "1600 Amphitheatre Pkwy", wantStatus: http.StatusOK},
		{name: "Not found", provider: provider, query: "nowhere at all", wantStatus: http.StatusNotFound, wantCode: "GEOCODE_NOT_FOUND"},
		{name: "Blank", provider: provider, query: "   ", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_REQUIRED"},
		{name: "Provider down", provider: stubProvider{err: errors.New("dial tcp: i/o timeout")}, query: "x", wantStatus: http.StatusBadGateway, wantCode: "INTERNAL_EXTERNAL_API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGeocodeRouter(tt.provider)
			w, response := doJSON(router, http.MethodGet, "/geocode?address="+url.QueryEscape(tt.query), "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, response["error"])
				return
			}
			coords := response["coordinates"].(map[string]interface{})
			assert.Equal(t, 37.422, coords["lat"])
			assert.Equal(t, -122.084, coords["lng"])
		})
	}
}

func TestGeocodeController_NotFoundMessage(t *testing.T) {
	router := newGeocodeRouter(stubProvider{})

	req, _ := http.NewRequest(http.MethodGet, "/geocode?address=atlantis", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Address not found. Please try again.")
}
