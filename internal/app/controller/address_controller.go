package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/app/service"
	apperrors "github.com/ikkim/mapaddress-backend/internal/errors"
	"github.com/ikkim/mapaddress-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	RegisterValidators()
	return &AddressController{
		addressService: addressService,
	}
}

// Coordinates are pointers so that 0 is distinguishable from absent.
type CoordinatesRequest struct {
	Lat *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
}

func (r *CoordinatesRequest) toModel() model.Coordinates {
	return model.Coordinates{Lat: *r.Lat, Lng: *r.Lng}
}

type CreateAddressRequest struct {
	UserID      string              `json:"userId" binding:"required"`
	House       string              `json:"house"`
	Apartment   string              `json:"apartment"`
	Category    string              `json:"category" binding:"omitempty,address_category"`
	Coordinates *CoordinatesRequest `json:"coordinates" binding:"required"`
	Favorite    bool                `json:"favorite"`
}

type UpdateAddressRequest struct {
	UserID      *string             `json:"userId" binding:"omitempty,min=1"`
	House       *string             `json:"house"`
	Apartment   *string             `json:"apartment"`
	Category    *string             `json:"category" binding:"omitempty,address_category"`
	Coordinates *CoordinatesRequest `json:"coordinates"`
	Favorite    *bool               `json:"favorite"`
}

func (r *UpdateAddressRequest) toPatch() model.AddressPatch {
	patch := model.AddressPatch{
		UserID:    r.UserID,
		House:     r.House,
		Apartment: r.Apartment,
		Favorite:  r.Favorite,
	}
	if r.Category != nil {
		category := model.Category(*r.Category)
		patch.Category = &category
	}
	if r.Coordinates != nil {
		coords := r.Coordinates.toModel()
		patch.Coordinates = &coords
	}
	return patch
}

// respondServiceError maps service sentinels to 4xx and everything else to
// a 500 with a fixed message.
func respondServiceError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrInvalidAddress):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
	case errors.Is(err, service.ErrInvalidAddressID):
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid address id")
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Address not found")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, operation)
	}
}

// CreateAddress stores a new address
// POST /add
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid address payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	address := &model.Address{
		UserID:      req.UserID,
		House:       req.House,
		Apartment:   req.Apartment,
		Category:    model.Category(req.Category),
		Coordinates: req.Coordinates.toModel(),
		Favorite:    req.Favorite,
	}

	if err := ctrl.addressService.CreateAddress(c.Request.Context(), address); err != nil {
		log.Error("Failed to add address", err)
		respondServiceError(c, err, "add address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"address": address,
	})
}

// ListAddresses returns every stored address
// GET /get
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	addresses, err := ctrl.addressService.ListAddresses(c.Request.Context())
	if err != nil {
		log.Error("Failed to list addresses", err)
		respondServiceError(c, err, "list addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "All addresses",
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// UpdateAddress applies a partial update and returns the updated record
// PUT /update/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req UpdateAddressRequest
	// An empty body is an empty patch.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Invalid address update payload", map[string]interface{}{
			"address_id": id,
			"error":      err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	updated, err := ctrl.addressService.UpdateAddress(c.Request.Context(), id, req.toPatch())
	if err != nil {
		log.Warn("Address update failed", map[string]interface{}{
			"address_id": id,
			"error":      err.Error(),
		})
		respondServiceError(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"address": updated,
	})
}

// DeleteAddress removes an address. Deleting an unknown id succeeds with a
// null address.
// DELETE /delete/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	deleted, err := ctrl.addressService.DeleteAddress(c.Request.Context(), id)
	if err != nil {
		log.Warn("Address delete failed", map[string]interface{}{
			"address_id": id,
			"error":      err.Error(),
		})
		respondServiceError(c, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
		"address": deleted,
	})
}
