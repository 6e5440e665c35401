package client

import (
	"testing"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	st := NewState()

	assert.Equal(t, AwaitingLocationChoice, st.Phase)
	assert.Equal(t, DefaultCenter, st.Position)
	assert.Equal(t, FormClosed, st.FormState)
	assert.Equal(t, model.CategoryHome, st.Form.Category)
	assert.Empty(t, st.EditingID)
	assert.NotNil(t, st.Addresses)
}

func TestState_OpenFormNeedsLocation(t *testing.T) {
	st := NewState()

	assert.ErrorIs(t, st.OpenForm(), ErrNoLocation)
	assert.Equal(t, FormClosed, st.FormState)

	st.ChooseLocation(model.Coordinates{Lat: 1, Lng: 2})
	require.NoError(t, st.OpenForm())
	assert.Equal(t, FormOpen, st.FormState)
	assert.Empty(t, st.EditingID)
}

func TestState_BeginEditAndClose(t *testing.T) {
	st := NewState()
	record := model.Address{
		ID:          "a1",
		House:       "12A",
		Apartment:   "Elm St",
		Category:    model.CategoryOffice,
		Coordinates: model.Coordinates{Lat: 40.7, Lng: -74},
		Favorite:    true,
	}

	st.BeginEdit(record)
	assert.Equal(t, LocationChosen, st.Phase)
	assert.Equal(t, FormOpen, st.FormState)
	assert.Equal(t, "a1", st.EditingID)
	assert.Equal(t, record.Coordinates, st.Position)
	assert.Equal(t, Form{House: "12A", Apartment: "Elm St", Category: model.CategoryOffice, Favorite: true}, st.Form)

	st.CloseForm()
	assert.Equal(t, FormClosed, st.FormState)
	assert.Empty(t, st.EditingID)
	assert.Equal(t, DefaultForm(), st.Form)
	// The chosen location survives closing the form.
	assert.Equal(t, LocationChosen, st.Phase)
	assert.Equal(t, record.Coordinates, st.Position)
}

func TestState_ChooseLocationClearsDenied(t *testing.T) {
	st := NewState()
	st.PermissionDenied = true

	st.ChooseLocation(model.Coordinates{})
	assert.False(t, st.PermissionDenied)
	assert.Equal(t, model.Coordinates{}, st.Position)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "awaiting-location", AwaitingLocationChoice.String())
	assert.Equal(t, "location-chosen", LocationChosen.String())
}
