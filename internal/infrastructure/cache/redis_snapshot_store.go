package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const defaultSnapshotKeyPrefix = "stock:snapshot:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSnapshotStore implements SnapshotStore using Redis.
// This is suitable for distributed deployments where multiple instances
// should see the same last-known quantities.
type RedisSnapshotStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSnapshotStore creates a new Redis-based snapshot store
func NewRedisSnapshotStore(cfg RedisConfig) (*RedisSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: defaultSnapshotKeyPrefix,
	}, nil
}

// Get returns the cached quantity for a warehouse-product pair
func (s *RedisSnapshotStore) Get(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	key := snapshotKey(s.keyPrefix, warehouseID, productID)

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read stock snapshot: %w", err)
	}

	qty, err := decimal.NewFromString(val)
	if err != nil {
		// Corrupt entry, treat as a miss
		return decimal.Zero, false, nil
	}

	return qty, true, nil
}

// Set stores a snapshot with the given TTL
func (s *RedisSnapshotStore) Set(ctx context.Context, warehouseID, productID uuid.UUID, qty decimal.Decimal, ttl time.Duration) error {
	key := snapshotKey(s.keyPrefix, warehouseID, productID)

	if err := s.client.Set(ctx, key, qty.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stock snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot for a warehouse-product pair
func (s *RedisSnapshotStore) Invalidate(ctx context.Context, warehouseID, productID uuid.UUID) error {
	key := snapshotKey(s.keyPrefix, warehouseID, productID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stock snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

var _ SnapshotStore = (*RedisSnapshotStore)(nil)
