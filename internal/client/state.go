package client

import (
	"errors"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
)

// Phase tracks whether the user has picked a point on the map yet.
type Phase int

const (
	AwaitingLocationChoice Phase = iota
	LocationChosen
)

func (p Phase) String() string {
	if p == LocationChosen {
		return "location-chosen"
	}
	return "awaiting-location"
}

type FormState int

const (
	FormClosed FormState = iota
	FormOpen
)

// DefaultCenter is San Francisco.
var DefaultCenter = model.Coordinates{Lat: 37.7749, Lng: -122.4194}

const DefaultZoom = 10

var (
	ErrNoLocation     = errors.New("choose a location first")
	ErrFormClosed     = errors.New("form is not open")
	ErrUnknownAddress = errors.New("no saved address with that id")
	ErrUnknownField   = errors.New("unknown form field")
)

// Form holds the metadata typed into the save/edit form.
type Form struct {
	House     string
	Apartment string
	Category  model.Category
	Favorite  bool
}

func DefaultForm() Form {
	return Form{Category: model.DefaultCategory}
}

// State is everything the client shows. Transitions go through methods so
// location, form and edit target cannot drift apart.
type State struct {
	Phase    Phase
	Position model.Coordinates

	FormState FormState
	// EditingID is the record being edited; empty means the form creates.
	EditingID string
	Form      Form

	Addresses []model.Address

	// PermissionDenied is set when the first geolocation attempt fails.
	PermissionDenied bool
}

func NewState() *State {
	return &State{
		Phase:     AwaitingLocationChoice,
		Position:  DefaultCenter,
		FormState: FormClosed,
		Form:      DefaultForm(),
		Addresses: []model.Address{},
	}
}

func (s *State) ChooseLocation(c model.Coordinates) {
	s.Position = c
	s.Phase = LocationChosen
	s.PermissionDenied = false
}

func (s *State) OpenForm() error {
	if s.Phase != LocationChosen {
		return ErrNoLocation
	}
	s.FormState = FormOpen
	return nil
}

// BeginEdit loads a saved record into the form and moves the chosen
// position to the record's pin.
func (s *State) BeginEdit(a model.Address) {
	s.EditingID = a.ID
	s.Form = Form{
		House:     a.House,
		Apartment: a.Apartment,
		Category:  a.Category,
		Favorite:  a.Favorite,
	}
	s.ChooseLocation(a.Coordinates)
	s.FormState = FormOpen
}

// CloseForm hides the form and forgets any edit in progress.
func (s *State) CloseForm() {
	s.FormState = FormClosed
	s.EditingID = ""
	s.Form = DefaultForm()
}

func (s *State) Find(id string) (model.Address, bool) {
	for _, a := range s.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return model.Address{}, false
}
