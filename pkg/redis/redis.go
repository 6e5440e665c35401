package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/mapaddress-backend/config"
	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// GeocodeCache keeps geocoder answers in Redis under "geocode:<query>".
type GeocodeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewGeocodeCache(c redis.Cmdable, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{client: c, ttl: ttl}
}

// CacheKey normalizes case and whitespace so equivalent queries share an entry.
func CacheKey(address string) string {
	return "geocode:" + strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func (c *GeocodeCache) Get(ctx context.Context, address string) (*model.Coordinates, bool, error) {
	val, err := c.client.Get(ctx, CacheKey(address)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var coords model.Coordinates
	if err := json.Unmarshal(val, &coords); err != nil {
		return nil, false, fmt.Errorf("corrupt geocode cache entry: %w", err)
	}
	return &coords, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, address string, coords model.Coordinates) error {
	payload, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKey(address), payload, c.ttl).Err()
}
