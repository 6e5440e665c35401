package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/app/repository"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrInvalidAddressID = errors.New("invalid address id")
	ErrInvalidAddress   = errors.New("invalid address")
)

// Change kinds published after a successful mutation.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeNotifier is told about every committed mutation.
type ChangeNotifier interface {
	NotifyAddressChange(kind string, address model.Address)
}

type AddressService interface {
	CreateAddress(ctx context.Context, address *model.Address) error
	ImportAddresses(ctx context.Context, addresses []model.Address) (int, error)
	ListAddresses(ctx context.Context) ([]model.Address, error)
	UpdateAddress(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error)
	DeleteAddress(ctx context.Context, id string) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
	notifier    ChangeNotifier
}

// NewAddressService builds the address service. notifier may be nil.
func NewAddressService(addressRepo repository.AddressRepository, notifier ChangeNotifier) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		notifier:    notifier,
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAddress, fmt.Sprintf(format, args...))
}

// normalize applies create defaults and checks the full record.
func normalize(address *model.Address) error {
	address.UserID = strings.TrimSpace(address.UserID)
	if address.UserID == "" {
		return invalid("userId is required")
	}
	if address.Category == "" {
		address.Category = model.DefaultCategory
	}
	if !address.Category.IsValid() {
		return invalid("unknown category %q", address.Category)
	}
	if err := address.Coordinates.Validate(); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func validatePatch(patch model.AddressPatch) error {
	if patch.UserID != nil && strings.TrimSpace(*patch.UserID) == "" {
		return invalid("userId cannot be empty")
	}
	if patch.Category != nil && !patch.Category.IsValid() {
		return invalid("unknown category %q", *patch.Category)
	}
	if patch.Coordinates != nil {
		if err := patch.Coordinates.Validate(); err != nil {
			return invalid("%v", err)
		}
	}
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrAddressNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidAddressID
	}
	return err
}

func (s *addressService) notify(kind string, address model.Address) {
	if s.notifier != nil {
		s.notifier.NotifyAddressChange(kind, address)
	}
}

func (s *addressService) CreateAddress(ctx context.Context, address *model.Address) error {
	// Ids are always store-assigned.
	address.ID = ""
	if err := normalize(address); err != nil {
		logger.Warn("Rejected address", map[string]interface{}{
			"user_id": address.UserID,
			"reason":  err.Error(),
		})
		return err
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return fmt.Errorf("failed to create address: %w", err)
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
		"category":   address.Category,
	})
	s.notify(ChangeCreated, *address)
	return nil
}

// ImportAddresses validates every row before inserting any of them.
func (s *addressService) ImportAddresses(ctx context.Context, addresses []model.Address) (int, error) {
	for i := range addresses {
		addresses[i].ID = ""
		if err := normalize(&addresses[i]); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	n, err := s.addressRepo.CreateMany(ctx, addresses)
	if err != nil {
		logger.Error("Failed to import addresses", err, map[string]interface{}{
			"count": len(addresses),
		})
		return 0, fmt.Errorf("failed to import addresses: %w", err)
	}

	logger.Info("Addresses imported successfully", map[string]interface{}{
		"count": n,
	})
	for _, a := range addresses {
		s.notify(ChangeCreated, a)
	}
	return n, nil
}

func (s *addressService) ListAddresses(ctx context.Context) ([]model.Address, error) {
	addresses, err := s.addressRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list addresses", err)
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	logger.Debug("Addresses listed", map[string]interface{}{
		"count": len(addresses),
	})
	return addresses, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"address_id": id,
	})

	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.UserID != nil {
		trimmed := strings.TrimSpace(*patch.UserID)
		patch.UserID = &trimmed
	}

	updated, err := s.addressRepo.Update(ctx, id, patch)
	if err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			logger.Error("Failed to update address", err, map[string]interface{}{
				"address_id": id,
			})
			return nil, fmt.Errorf("failed to update address: %w", err)
		}
		logger.Warn("Address not updated", map[string]interface{}{
			"address_id": id,
			"reason":     mapped.Error(),
		})
		return nil, mapped
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"address_id": id,
	})
	s.notify(ChangeUpdated, *updated)
	return updated, nil
}

// DeleteAddress returns the removed record, or nil when no record had that id.
func (s *addressService) DeleteAddress(ctx context.Context, id string) (*model.Address, error) {
	logger.Info("Deleting address", map[string]interface{}{
		"address_id": id,
	})

	deleted, err := s.addressRepo.Delete(ctx, id)
	if err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			logger.Error("Failed to delete address", err, map[string]interface{}{
				"address_id": id,
			})
			return nil, fmt.Errorf("failed to delete address: %w", err)
		}
		return nil, mapped
	}

	if deleted == nil {
		logger.Warn("Address not found for deletion", map[string]interface{}{
			"address_id": id,
		})
		return nil, nil
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"address_id": id,
	})
	s.notify(ChangeDeleted, *deleted)
	return deleted, nil
}
