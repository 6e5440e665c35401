package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"gorm.io/gorm"
)

type gormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository stores addresses in a SQL table through GORM.
// Ids are UUID strings.
func NewGormAddressRepository(db *gorm.DB) AddressRepository {
	return &gormAddressRepository{db: db}
}

func (r *gormAddressRepository) Create(ctx context.Context, address *model.Address) error {
	if address.ID == "" {
		address.ID = uuid.NewString()
	}

	logger.Debug("Creating address in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})

	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}
	return nil
}

func (r *gormAddressRepository) CreateMany(ctx context.Context, addresses []model.Address) (int, error) {
	if len(addresses) == 0 {
		return 0, nil
	}
	for i := range addresses {
		if addresses[i].ID == "" {
			addresses[i].ID = uuid.NewString()
		}
	}

	result := r.db.WithContext(ctx).CreateInBatches(addresses, 100)
	if result.Error != nil {
		logger.Error("Failed to bulk insert addresses", result.Error, map[string]interface{}{
			"count": len(addresses),
		})
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *gormAddressRepository) FindAll(ctx context.Context) ([]model.Address, error) {
	addresses := []model.Address{}
	if err := r.db.WithContext(ctx).Find(&addresses).Error; err != nil {
		logger.Error("Failed to list addresses from database", err)
		return nil, err
	}

	logger.Debug("Addresses listed from database", map[string]interface{}{
		"count": len(addresses),
	})
	return addresses, nil
}

func (r *gormAddressRepository) FindByID(ctx context.Context, id string) (*model.Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	var address model.Address
	err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to find address by ID in database", err, map[string]interface{}{
			"address_id": id,
		})
		return nil, err
	}
	return &address, nil
}

func (r *gormAddressRepository) Update(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": id,
	})

	var updated model.Address
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		patch.Apply(&updated)
		return tx.Save(&updated).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": id,
		})
		return nil, err
	}
	return &updated, nil
}

func (r *gormAddressRepository) Delete(ctx context.Context, id string) (*model.Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": id,
	})

	var deleted *model.Address
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Address
		err := tx.First(&existing, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.Address{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = &existing
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"address_id": id,
		})
		return nil, err
	}
	return deleted, nil
}

func (r *gormAddressRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
