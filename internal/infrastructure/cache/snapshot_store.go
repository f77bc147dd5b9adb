package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotStore holds last-known stock quantities for the advisory
// availability check. Entries are best effort and may lag behind the
// authoritative stock rows; the approval path never reads from here.
type SnapshotStore interface {
	// Get returns the cached quantity for a warehouse-product pair.
	// The second return is false when no fresh snapshot exists.
	Get(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error)

	// Set stores a snapshot with the given TTL.
	Set(ctx context.Context, warehouseID, productID uuid.UUID, qty decimal.Decimal, ttl time.Duration) error

	// Invalidate drops the snapshot for a warehouse-product pair.
	Invalidate(ctx context.Context, warehouseID, productID uuid.UUID) error

	// Close releases any resources held by the store.
	Close() error
}

// snapshotKey builds the cache key for a warehouse-product pair.
func snapshotKey(prefix string, warehouseID, productID uuid.UUID) string {
	return prefix + warehouseID.String() + ":" + productID.String()
}
