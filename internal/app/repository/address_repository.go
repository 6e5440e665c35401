package repository

import (
	"context"
	"errors"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when an id is not in the store's id format.
	ErrInvalidID = errors.New("malformed record id")
)

// AddressRepository persists address records. Implementations must return
// a non-nil slice from FindAll and must return (nil, nil) from Delete when
// the id does not exist.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	CreateMany(ctx context.Context, addresses []model.Address) (int, error)
	FindAll(ctx context.Context) ([]model.Address, error)
	FindByID(ctx context.Context, id string) (*model.Address, error)
	Update(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error)
	Delete(ctx context.Context, id string) (*model.Address, error)
	Ping(ctx context.Context) error
}
