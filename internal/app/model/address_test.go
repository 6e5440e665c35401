package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryHome.IsValid())
	assert.True(t, CategoryOffice.IsValid())
	assert.True(t, Category("Friends & Family").IsValid())

	assert.False(t, Category("").IsValid())
	assert.False(t, Category("home").IsValid())
	assert.False(t, Category("Gym").IsValid())
}

func TestCoordinates_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coords  Coordinates
		wantErr bool
	}{
		{name: "origin is valid", coords: Coordinates{Lat: 0, Lng: 0}},
		{name: "san francisco", coords: Coordinates{Lat: 37.7749, Lng: -122.4194}},
		{name: "poles and antimeridian", coords: Coordinates{Lat: -90, Lng: 180}},
		{name: "latitude too high", coords: Coordinates{Lat: 90.1, Lng: 0}, wantErr: true},
		{name: "longitude too low", coords: Coordinates{Lat: 0, Lng: -180.5}, wantErr: true},
		{name: "nan latitude", coords: Coordinates{Lat: math.NaN(), Lng: 0}, wantErr: true},
		{name: "infinite longitude", coords: Coordinates{Lat: 0, Lng: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coords.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddressPatch_Apply(t *testing.T) {
	address := Address{
		ID:          "a1",
		UserID:      "user123",
		House:       "12A",
		Apartment:   "Elm St",
		Category:    CategoryHome,
		Coordinates: Coordinates{Lat: 1, Lng: 2},
	}

	favorite := true
	office := CategoryOffice
	patch := AddressPatch{Favorite: &favorite, Category: &office}
	assert.False(t, patch.IsEmpty())

	patch.Apply(&address)

	assert.True(t, address.Favorite)
	assert.Equal(t, CategoryOffice, address.Category)
	assert.Equal(t, "12A", address.House)
	assert.Equal(t, Coordinates{Lat: 1, Lng: 2}, address.Coordinates)
	assert.True(t, AddressPatch{}.IsEmpty())
}
