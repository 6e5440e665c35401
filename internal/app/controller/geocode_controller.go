package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/internal/app/service"
	apperrors "github.com/ikkim/mapaddress-backend/internal/errors"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/ikkim/mapaddress-backend/internal/middleware"
)

type GeocodeController struct {
	geocodeService service.GeocodeService
}

func NewGeocodeController(geocodeService service.GeocodeService) *GeocodeController {
	return &GeocodeController{geocodeService: geocodeService}
}

// Geocode resolves a free-text address to coordinates
// GET /geocode?address=
func (ctrl *GeocodeController) Geocode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	address := c.Query("address")

	coords, err := ctrl.geocodeService.Geocode(c.Request.Context(), address)
	switch {
	case errors.Is(err, geocoding.ErrEmptyAddress):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "address query parameter is required")
		return
	case errors.Is(err, geocoding.ErrNotFound):
		apperrors.NotFound(c, apperrors.GeocodeNotFound, "Address not found. Please try again.")
		return
	case err != nil:
		log.Error("Geocoding failed", err)
		apperrors.BadGateway(c, apperrors.InternalExternalAPI, "An error occurred. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":     address,
		"coordinates": coords,
	})
}
