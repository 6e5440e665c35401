package client

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConsole(t *testing.T) {
	api := &memoryAPI{}
	var out bytes.Buffer
	session := NewSession(api, geocoderFunc(func(context.Context, string) (*model.Coordinates, error) {
		return &model.Coordinates{Lat: 40.7128, Lng: -74.006}, nil
	}), nil, NewConsoleMap(&out), NewConsoleAlerter(&out), "user123")

	script := strings.Join([]string{
		"save",
		"search New York",
		"save",
		"set house 12A",
		"set category Friends & Family",
		"submit",
		"fav id-1",
		"nearest",
		"locate",
		"bogus",
		"quit",
		"list",
	}, "\n")

	require.NoError(t, RunConsole(context.Background(), session, strings.NewReader(script), &out))

	text := out.String()
	assert.Contains(t, text, "error: choose a location first")
	assert.Contains(t, text, "map centered at 40.71280, -74.00600 (zoom 10)")
	assert.Contains(t, text, "marker X placed at 40.71280, -74.00600")
	assert.Contains(t, text, "[id-1] 12A, , Friends & Family *")
	assert.Contains(t, text, "(0 m away)")
	assert.Contains(t, text, "!! "+MsgGeolocationUnsupported)
	assert.Contains(t, text, `unknown command "bogus"`)

	require.Len(t, api.addresses, 1)
	assert.Equal(t, model.CategoryFriendsFamily, api.addresses[0].Category)
	assert.True(t, api.addresses[0].Favorite)
	// Input after quit is not read.
	assert.Equal(t, 1, strings.Count(text, "Saved Addresses\n  [id-1] 12A, , Friends & Family *\n"))
}

func TestConsoleMap_MarkerRemoval(t *testing.T) {
	var out bytes.Buffer
	slot := NewMarkerSlot(NewConsoleMap(&out))

	slot.Place(model.Coordinates{Lat: 1, Lng: 2})
	slot.Place(model.Coordinates{Lat: 3, Lng: 4})

	assert.Equal(t,
		"marker X placed at 1.00000, 2.00000\n"+
			"marker at 1.00000, 2.00000 removed\n"+
			"marker X placed at 3.00000, 4.00000\n",
		out.String())
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("37.7749,-122.4194")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{Lat: 37.7749, Lng: -122.4194}, p)

	p, err = ParsePoint(" 0 0 ")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{}, p)

	for _, bad := range []string{"", "1", "a,2", "1,b", "1 2 3"} {
		_, err := ParsePoint(bad)
		assert.Error(t, err, bad)
	}
}
