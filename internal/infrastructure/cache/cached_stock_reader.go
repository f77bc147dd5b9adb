package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
)

// CachedStockReader decorates a WarehouseStockReader with a snapshot
// cache. Intended for the advisory availability check only: serving a
// stale quantity there is acceptable because approval re-checks stock
// inside the transaction. Do not use this reader on the approval path.
type CachedStockReader struct {
	inner  inventory.WarehouseStockReader
	store  SnapshotStore
	ttl    time.Duration
	logger *zap.Logger
}

// CachedStockReaderOption is a functional option for configuring the reader
type CachedStockReaderOption func(*CachedStockReader)

// WithSnapshotTTL sets how long snapshots stay fresh
func WithSnapshotTTL(ttl time.Duration) CachedStockReaderOption {
	return func(r *CachedStockReader) {
		r.ttl = ttl
	}
}

// WithReaderLogger sets the logger for the reader
func WithReaderLogger(logger *zap.Logger) CachedStockReaderOption {
	return func(r *CachedStockReader) {
		r.logger = logger
	}
}

// NewCachedStockReader creates a reader that consults the snapshot store
// before falling through to the authoritative source
func NewCachedStockReader(inner inventory.WarehouseStockReader, store SnapshotStore, opts ...CachedStockReaderOption) *CachedStockReader {
	r := &CachedStockReader{
		inner:  inner,
		store:  store,
		ttl:    30 * time.Second,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// AvailableQuantity returns the cached quantity when a fresh snapshot
// exists, otherwise reads from the inner source and refreshes the cache.
// Cache failures degrade to a direct read, never to an error.
func (r *CachedStockReader) AvailableQuantity(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	qty, hit, err := r.store.Get(ctx, warehouseID, productID)
	if err != nil {
		r.logger.Warn("stock snapshot read failed, falling through",
			zap.String("warehouse_id", warehouseID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
	} else if hit {
		return qty, true, nil
	}

	qty, known, err := r.inner.AvailableQuantity(ctx, warehouseID, productID)
	if err != nil {
		return decimal.Zero, false, err
	}

	// Unknown pairs are not cached: a row may appear at any time and a
	// cached miss would mask it.
	if known {
		if setErr := r.store.Set(ctx, warehouseID, productID, qty, r.ttl); setErr != nil {
			r.logger.Warn("stock snapshot write failed",
				zap.String("warehouse_id", warehouseID.String()),
				zap.String("product_id", productID.String()),
				zap.Error(setErr),
			)
		}
	}

	return qty, known, nil
}

// Invalidate drops the snapshot for a warehouse-product pair. Called by
// the approval paths after stock moves so the next advisory check reads
// through.
func (r *CachedStockReader) Invalidate(ctx context.Context, warehouseID, productID uuid.UUID) {
	if err := r.store.Invalidate(ctx, warehouseID, productID); err != nil {
		r.logger.Warn("stock snapshot invalidation failed",
			zap.String("warehouse_id", warehouseID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
	}
}

// Ensure CachedStockReader implements WarehouseStockReader
var _ inventory.WarehouseStockReader = (*CachedStockReader)(nil)
