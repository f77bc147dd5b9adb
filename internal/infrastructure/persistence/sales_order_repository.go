package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// GormSalesOrderReader implements SalesOrderReader using GORM. The
// fulfillment engine only reads orders; sales entry owns the writes. The
// cumulative delivered quantity per item is not trusted from the order row:
// it is derived on every load from the engine's own delivery documents.
type GormSalesOrderReader struct {
	db *gorm.DB
}

// NewGormSalesOrderReader creates a new GormSalesOrderReader
func NewGormSalesOrderReader(db *gorm.DB) *GormSalesOrderReader {
	return &GormSalesOrderReader{db: db}
}

// FindByID fetches a sales order with its items and derives each item's
// delivered quantity from the active deliveries against it
func (r *GormSalesOrderReader) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	var order fulfillment.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadDeliveredQuantities(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// loadDeliveredQuantities overwrites each item's DeliveredQty with the sum of
// delivered quantities across the item's delivery lines. Cancelled and
// soft-deleted deliveries stop counting; items without any delivery line sum
// to zero.
func (r *GormSalesOrderReader) loadDeliveredQuantities(ctx context.Context, order *fulfillment.SalesOrder) error {
	if len(order.Items) == 0 {
		return nil
	}

	itemIDs := make([]uuid.UUID, len(order.Items))
	for i := range order.Items {
		itemIDs[i] = order.Items[i].ID
	}

	var rows []struct {
		SalesOrderItemID uuid.UUID
		Total            decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("delivery_items").
		Select("delivery_items.sales_order_item_id, COALESCE(SUM(delivery_items.delivered_qty), 0) AS total").
		Joins("JOIN deliveries ON deliveries.id = delivery_items.delivery_id").
		Where("delivery_items.sales_order_item_id IN ?", itemIDs).
		Where("deliveries.status <> ?", fulfillment.DeliveryStatusCancelled).
		Where("deliveries.deleted_at IS NULL").
		Group("delivery_items.sales_order_item_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	totals := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.SalesOrderItemID] = row.Total
	}
	for i := range order.Items {
		order.Items[i].DeliveredQty = totals[order.Items[i].ID]
	}
	return nil
}

// Ensure GormSalesOrderReader implements SalesOrderReader
var _ fulfillment.SalesOrderReader = (*GormSalesOrderReader)(nil)
