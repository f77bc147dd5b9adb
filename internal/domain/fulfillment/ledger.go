package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuantityLedger derives remaining and already-consumed quantities by
// aggregating the linked documents. It is a pure read layer: it never
// mutates anything.
type QuantityLedger struct {
	returns ReturnOrderRepository
	stock   inventory.WarehouseStockReader
}

// NewQuantityLedger creates a new QuantityLedger
func NewQuantityLedger(returns ReturnOrderRepository, stock inventory.WarehouseStockReader) *QuantityLedger {
	return &QuantityLedger{returns: returns, stock: stock}
}

// RemainingQty derives the unfulfilled quantity of a sales order item.
// A negative derivation is reported as ledger corruption, never as a value.
func (l *QuantityLedger) RemainingQty(item *SalesOrderItem) (decimal.Decimal, error) {
	return item.RemainingQty()
}

// AlreadyReturned sums returnedQty across approved, non-deleted return order
// items referencing the delivery item. The return order currently being
// edited is excluded so an in-progress edit does not double-count its own
// prior value; pass nil when not editing.
func (l *QuantityLedger) AlreadyReturned(ctx context.Context, deliveryItemID uuid.UUID, excludeReturnOrderID *uuid.UUID) (decimal.Decimal, error) {
	sums, err := l.returns.ReturnedQuantities(ctx, []uuid.UUID{deliveryItemID}, excludeReturnOrderID)
	if err != nil {
		return decimal.Zero, err
	}
	return sums[deliveryItemID], nil
}

// AlreadyReturnedBatch is the batch variant of AlreadyReturned. The result
// map carries a zero for delivery items with no approved returns.
func (l *QuantityLedger) AlreadyReturnedBatch(ctx context.Context, deliveryItemIDs []uuid.UUID, excludeReturnOrderID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums, err := l.returns.ReturnedQuantities(ctx, deliveryItemIDs, excludeReturnOrderID)
	if err != nil {
		return nil, err
	}
	for _, id := range deliveryItemIDs {
		if _, ok := sums[id]; !ok {
			sums[id] = decimal.Zero
		}
	}
	return sums, nil
}

// ReturnableQty derives the remaining returnable quantity of a delivery
// item: deliveredQty minus already-returned. Negative derivations are
// ledger corruption.
func (l *QuantityLedger) ReturnableQty(ctx context.Context, item *DeliveryItem, excludeReturnOrderID *uuid.UUID) (decimal.Decimal, error) {
	returned, err := l.AlreadyReturned(ctx, item.ID, excludeReturnOrderID)
	if err != nil {
		return decimal.Zero, err
	}
	returnable := item.DeliveredQty.Sub(returned)
	if returnable.IsNegative() {
		return decimal.Zero, shared.ErrLedgerCorrupted
	}
	return returnable, nil
}

// AvailableStock looks up the current warehouse stock for a (warehouse,
// product) pair. The second return value is false when availability is
// unknown: either id absent, or no stock row exists. Unknown is never
// treated as zero, to avoid false insufficiency warnings before a
// warehouse has been chosen.
func (l *QuantityLedger) AvailableStock(ctx context.Context, warehouseID *uuid.UUID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	if warehouseID == nil || *warehouseID == uuid.Nil || productID == uuid.Nil {
		return decimal.Zero, false, nil
	}
	return l.stock.AvailableQuantity(ctx, *warehouseID, productID)
}
