package fulfillment

import (
	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesOrderStatus represents the status of a sales order as reported by the
// sales order store. The fulfillment engine only reads sales orders; their
// lifecycle is owned by sales entry.
type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "DRAFT"
	SalesOrderStatusConfirmed SalesOrderStatus = "CONFIRMED"
	SalesOrderStatusCompleted SalesOrderStatus = "COMPLETED"
	SalesOrderStatusCancelled SalesOrderStatus = "CANCELLED"
)

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// SalesOrderItem is a line of a sales order. DeliveredQty is the cumulative
// delivered quantity across active (non-cancelled, non-deleted) deliveries;
// the reader derives it from the delivery documents on every load.
type SalesOrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName  string          `gorm:"size:200"`
	WarehouseID  *uuid.UUID      `gorm:"type:uuid"`
	OrderedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeliveredQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// RemainingQty derives the unfulfilled quantity: orderedQty minus cumulative
// delivered quantity. A negative derivation means the document graph is
// inconsistent and is reported as an error, never as a value.
func (i *SalesOrderItem) RemainingQty() (decimal.Decimal, error) {
	remaining := i.OrderedQty.Sub(i.DeliveredQty)
	if remaining.IsNegative() {
		return decimal.Zero, shared.ErrLedgerCorrupted
	}
	return remaining, nil
}

// SalesOrder is the read model of a customer order consumed by document
// assembly. Fetched through SalesOrderReader; never mutated by this engine.
type SalesOrder struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderNumber string           `gorm:"size:50;uniqueIndex"`
	Status      SalesOrderStatus `gorm:"size:20;not null"`
	Items       []SalesOrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// GetItem returns an item by its ID
func (o *SalesOrder) GetItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// DeliverableItems returns the items with remaining quantity > 0
func (o *SalesOrder) DeliverableItems() ([]SalesOrderItem, error) {
	eligible := make([]SalesOrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		remaining, err := item.RemainingQty()
		if err != nil {
			return nil, err
		}
		if remaining.GreaterThan(decimal.Zero) {
			eligible = append(eligible, item)
		}
	}
	return eligible, nil
}
