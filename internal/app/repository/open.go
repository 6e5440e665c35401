package repository

import (
	"context"
	"fmt"

	"github.com/ikkim/mapaddress-backend/config"
	"github.com/ikkim/mapaddress-backend/internal/db"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
)

// Open connects to the store named by cfg.Store.Driver and returns its
// repository with a function that releases the connection.
func Open(ctx context.Context, cfg *config.Config) (AddressRepository, func() error, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, err := db.ConnectMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		collection := db.AddressCollection(client, &cfg.Mongo)
		if err := db.EnsureMongoIndexes(ctx, collection); err != nil {
			logger.Warn("Continuing without address indexes", map[string]interface{}{
				"error": err.Error(),
			})
		}
		closeFn := func() error {
			return client.Disconnect(context.Background())
		}
		return NewMongoAddressRepository(collection), closeFn, nil

	case "postgres":
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return NewGormAddressRepository(db.GetDB()), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
