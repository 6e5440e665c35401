package repository

import (
	"testing"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	parsed, err := parseObjectID(oid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, oid, parsed)

	_, err = parseObjectID("12345")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestSetFields(t *testing.T) {
	favorite := false
	category := model.CategoryOffice
	coords := model.Coordinates{Lat: 0, Lng: 0}

	set := setFields(model.AddressPatch{
		Favorite:    &favorite,
		Category:    &category,
		Coordinates: &coords,
	})

	assert.Equal(t, bson.D{
		{Key: "category", Value: "Office"},
		{Key: "coordinates", Value: coordinatesDocument{Lat: 0, Lng: 0}},
		{Key: "favorite", Value: false},
	}, set)
	assert.Empty(t, setFields(model.AddressPatch{}))
}

func TestAddressDocument_RoundTrip(t *testing.T) {
	address := &model.Address{
		UserID:      "user123",
		House:       "5",
		Apartment:   "Main",
		Category:    model.CategoryFriendsFamily,
		Coordinates: model.Coordinates{Lat: -33.86, Lng: 151.2},
		Favorite:    true,
	}

	doc := newAddressDocument(address)
	assert.True(t, doc.ID.IsZero())

	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)
	assert.NotContains(t, bson.Raw(raw).String(), "_id")

	doc.ID = primitive.NewObjectID()
	back := doc.toModel()
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.Equal(t, address.Coordinates, back.Coordinates)
	assert.Equal(t, model.CategoryFriendsFamily, back.Category)
}
