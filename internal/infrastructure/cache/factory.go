package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/config"
)

// SnapshotStoreFactory creates snapshot stores based on configuration
type SnapshotStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotStoreFactoryOption is a functional option for configuring the factory
type SnapshotStoreFactoryOption func(*SnapshotStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotStoreFactory creates a new factory
func NewSnapshotStoreFactory(cfg config.RedisConfig, opts ...SnapshotStoreFactoryOption) *SnapshotStoreFactory {
	f := &SnapshotStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based snapshot store
func (f *SnapshotStoreFactory) CreateRedisStore() (SnapshotStore, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	store, err := NewRedisSnapshotStore(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis snapshot store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory snapshot store.
// Suitable for single-instance deployments and testing.
func (f *SnapshotStoreFactory) CreateInMemoryStore() SnapshotStore {
	return NewInMemorySnapshotStore()
}

// CreateStore creates a snapshot store based on whether Redis is available.
// It tries Redis first, falling back to in-memory when allowed. Stale or
// instance-local snapshots are tolerable here since the cache is advisory.
func (f *SnapshotStoreFactory) CreateStore() (SnapshotStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis stock snapshot store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for stock snapshots but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stock snapshot store",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
