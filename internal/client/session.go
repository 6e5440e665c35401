package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/geocoding"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Alert texts shown to the user.
const (
	MsgAddressNotFound        = "Address not found. Please try again."
	MsgGenericError           = "An error occurred. Please try again."
	MsgLocationUnavailable    = "Unable to retrieve your location. Please try again."
	MsgGeolocationUnsupported = "Geolocation is not supported by this client."
)

var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// AddressAPI is the server surface the session mutates through.
type AddressAPI interface {
	List(ctx context.Context) ([]model.Address, error)
	Create(ctx context.Context, address model.Address) (*model.Address, error)
	Update(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error)
	Delete(ctx context.Context, id string) (*model.Address, error)
}

// Alerter shows a blocking message.
type Alerter interface {
	Alert(msg string)
}

// Session drives one user's map interaction. Not safe for concurrent use.
type Session struct {
	api      AddressAPI
	geocoder geocoding.Provider
	locator  geocoding.Locator
	m        Map
	marker   *MarkerSlot
	alerts   Alerter
	userID   string
	state    *State
}

// NewSession builds a session. locator may be nil when the device cannot
// report its position.
func NewSession(api AddressAPI, geocoder geocoding.Provider, locator geocoding.Locator, m Map, alerts Alerter, userID string) *Session {
	return &Session{
		api:      api,
		geocoder: geocoder,
		locator:  locator,
		m:        m,
		marker:   NewMarkerSlot(m),
		alerts:   alerts,
		userID:   userID,
		state:    NewState(),
	}
}

// State returns a snapshot of the current client state.
func (s *Session) State() State {
	snapshot := *s.state
	snapshot.Addresses = append([]model.Address(nil), s.state.Addresses...)
	return snapshot
}

// Load fetches the full list. It does not depend on the location state.
func (s *Session) Load(ctx context.Context) error {
	addresses, err := s.api.List(ctx)
	if err != nil {
		logger.Error("Error fetching addresses", err)
		return err
	}
	s.state.Addresses = addresses
	return nil
}

func (s *Session) refresh(ctx context.Context) {
	// Load already logs; the list just stays stale.
	_ = s.Load(ctx)
}

func (s *Session) choose(c model.Coordinates) {
	s.state.ChooseLocation(c)
	s.m.Center(c)
	s.marker.Place(c)
}

// ChooseByGeolocation asks the locator for the device position. It may be
// called again after a location was chosen to re-centre on the device.
func (s *Session) ChooseByGeolocation(ctx context.Context) error {
	if s.locator == nil {
		s.alerts.Alert(MsgGeolocationUnsupported)
		return ErrGeolocationUnsupported
	}

	coords, err := s.locator.Locate(ctx)
	if err != nil {
		logger.Error("Error getting location", err)
		if s.state.Phase == AwaitingLocationChoice {
			s.state.PermissionDenied = true
		}
		s.alerts.Alert(MsgLocationUnavailable)
		return err
	}

	s.choose(*coords)
	return nil
}

// ChooseByAddress geocodes free text and moves the pin to the result.
func (s *Session) ChooseByAddress(ctx context.Context, text string) error {
	coords, err := s.geocoder.Geocode(ctx, text)
	if err != nil {
		if errors.Is(err, geocoding.ErrNotFound) || errors.Is(err, geocoding.ErrEmptyAddress) {
			s.alerts.Alert(MsgAddressNotFound)
		} else {
			logger.Error("Error fetching geocoding data", err, map[string]interface{}{
				"address": text,
			})
			s.alerts.Alert(MsgGenericError)
		}
		return err
	}

	s.choose(*coords)
	return nil
}

func (s *Session) ChooseByMapClick(lat, lng float64) error {
	c := model.Coordinates{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return err
	}
	s.choose(c)
	return nil
}

// OpenForm starts a new address at the chosen position.
func (s *Session) OpenForm() error {
	return s.state.OpenForm()
}

// Edit opens the form pre-filled with a saved record.
func (s *Session) Edit(id string) error {
	address, ok := s.state.Find(id)
	if !ok {
		return ErrUnknownAddress
	}
	s.state.BeginEdit(address)
	s.m.Center(address.Coordinates)
	s.marker.Place(address.Coordinates)
	return nil
}

func (s *Session) CancelForm() {
	s.state.CloseForm()
}

// SetField updates one form field: house, apartment, category or favorite.
func (s *Session) SetField(field, value string) error {
	if s.state.FormState != FormOpen {
		return ErrFormClosed
	}

	switch strings.ToLower(field) {
	case "house":
		s.state.Form.House = value
	case "apartment":
		s.state.Form.Apartment = value
	case "category":
		category := model.Category(value)
		if !category.IsValid() {
			return fmt.Errorf("unknown category %q", value)
		}
		s.state.Form.Category = category
	case "favorite":
		favorite, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("favorite must be true or false: %w", err)
		}
		s.state.Form.Favorite = favorite
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Submit saves the form: an update when editing, a create otherwise. On
// failure the form stays open and the list is not refreshed.
func (s *Session) Submit(ctx context.Context) error {
	if s.state.FormState != FormOpen {
		return ErrFormClosed
	}

	form := s.state.Form
	position := s.state.Position

	var err error
	if s.state.EditingID != "" {
		_, err = s.api.Update(ctx, s.state.EditingID, model.AddressPatch{
			UserID:      &s.userID,
			House:       &form.House,
			Apartment:   &form.Apartment,
			Category:    &form.Category,
			Coordinates: &position,
			Favorite:    &form.Favorite,
		})
	} else {
		_, err = s.api.Create(ctx, model.Address{
			UserID:      s.userID,
			House:       form.House,
			Apartment:   form.Apartment,
			Category:    form.Category,
			Coordinates: position,
			Favorite:    form.Favorite,
		})
	}
	if err != nil {
		logger.Error("Error saving/updating address", err, map[string]interface{}{
			"editing_id": s.state.EditingID,
		})
		return err
	}

	s.refresh(ctx)
	s.state.CloseForm()
	return nil
}

func (s *Session) ToggleFavorite(ctx context.Context, id string) error {
	address, ok := s.state.Find(id)
	if !ok {
		return ErrUnknownAddress
	}

	favorite := !address.Favorite
	if _, err := s.api.Update(ctx, id, model.AddressPatch{Favorite: &favorite}); err != nil {
		logger.Error("Error toggling favorite", err, map[string]interface{}{
			"address_id": id,
		})
		return err
	}

	s.refresh(ctx)
	return nil
}

func (s *Session) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, id); err != nil {
		logger.Error("Error removing address", err, map[string]interface{}{
			"address_id": id,
		})
		return err
	}

	s.refresh(ctx)
	return nil
}

// NearestSaved returns the saved address closest to the chosen position and
// its great-circle distance in metres.
func (s *Session) NearestSaved() (model.Address, float64, bool) {
	if s.state.Phase != LocationChosen || len(s.state.Addresses) == 0 {
		return model.Address{}, 0, false
	}

	from := orb.Point{s.state.Position.Lng, s.state.Position.Lat}
	best := -1
	bestDist := math.Inf(1)
	for i, a := range s.state.Addresses {
		d := geo.Distance(from, orb.Point{a.Coordinates.Lng, a.Coordinates.Lat})
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return s.state.Addresses[best], bestDist, true
}
