package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseStockReader is the read-only stock oracle consumed by the
// quantity ledger and the advisory availability check. The boolean result
// distinguishes a known quantity from unknown availability: a missing stock
// row is unknown, not zero.
type WarehouseStockReader interface {
	// AvailableQuantity returns the current quantity for a warehouse-product
	// pair, or (zero, false) when no stock row exists
	AvailableQuantity(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error)
}

// WarehouseStockRepository defines the interface for warehouse stock
// persistence. DecrementIfAvailable and Increment are the only mutations
// the fulfillment engine performs, both inside the approval transaction.
type WarehouseStockRepository interface {
	WarehouseStockReader

	// FindByWarehouseAndProduct finds the stock row for a pair
	FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*WarehouseStock, error)

	// Save creates or updates a stock row
	Save(ctx context.Context, stock *WarehouseStock) error

	// DecrementIfAvailable atomically deducts quantity with a conditional
	// update guarding against going negative. Returns ConflictError when
	// the current quantity no longer covers the deduction, meaning a
	// concurrent approval won the race.
	DecrementIfAvailable(ctx context.Context, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error

	// Increment atomically adds quantity, creating the row if absent
	Increment(ctx context.Context, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error
}
