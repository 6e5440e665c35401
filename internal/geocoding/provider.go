package geocoding

import (
	"context"
	"errors"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
)

// Provider turns free-text address into coordinates.
type Provider interface {
	Geocode(ctx context.Context, address string) (*model.Coordinates, error)
}

// Locator reports the current device position.
type Locator interface {
	Locate(ctx context.Context) (*model.Coordinates, error)
}

var (
	// ErrNotFound means the provider answered but had no match.
	ErrNotFound = errors.New("address not found")
	// ErrEmptyAddress is returned before any provider call for blank input.
	ErrEmptyAddress = errors.New("address is empty")
)
