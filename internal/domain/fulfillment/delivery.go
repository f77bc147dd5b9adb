package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DeliveryStatus represents the status of a delivery
type DeliveryStatus string

const (
	DeliveryStatusDraft     DeliveryStatus = "DRAFT"
	DeliveryStatusPicked    DeliveryStatus = "PICKED"
	DeliveryStatusShipped   DeliveryStatus = "SHIPPED"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusCancelled DeliveryStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusDraft, DeliveryStatusPicked, DeliveryStatusShipped,
		DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DeliveryStatus
func (s DeliveryStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Delivered -> Cancelled is not in this table; it needs a manager override
// and is handled by Delivery.Cancel.
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	switch s {
	case DeliveryStatusDraft:
		return target == DeliveryStatusPicked || target == DeliveryStatusCancelled
	case DeliveryStatusPicked:
		return target == DeliveryStatusShipped || target == DeliveryStatusCancelled
	case DeliveryStatusShipped:
		return target == DeliveryStatusDelivered || target == DeliveryStatusCancelled
	case DeliveryStatusDelivered, DeliveryStatusCancelled:
		return false
	}
	return false
}

// DeliveryItem represents a line item in a delivery. Each line references the
// sales order item it fulfills; WarehouseID stays unset until the operator
// assigns one when the source order did not carry it. ReturnedQty accrues as
// returns against the line are approved and never exceeds DeliveredQty.
type DeliveryItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DeliveryID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalesOrderItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"size:200"`
	WarehouseID      *uuid.UUID      `gorm:"type:uuid"`
	PlannedQty       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeliveredQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReturnedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (DeliveryItem) TableName() string {
	return "delivery_items"
}

// Delivery represents a shipment plan against a sales order, tracked through
// pick/ship/deliver states. It is the aggregate root of the delivery workflow.
type Delivery struct {
	shared.BaseAggregateRoot
	DeliveryNumber string         `gorm:"size:50;uniqueIndex"`
	SalesOrderID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status         DeliveryStatus `gorm:"size:20;not null"`
	Items          []DeliveryItem `gorm:"foreignKey:DeliveryID;references:ID"`
	Carrier        string         `gorm:"size:100"`
	TrackingNumber string         `gorm:"size:100"`
	Notes          string         `gorm:"size:500"`
	PickedAt       *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"size:200"`
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// NewDelivery creates a new delivery in draft status. Items are populated by
// the document assembler from the source sales order.
func NewDelivery(deliveryNumber string, salesOrderID uuid.UUID) (*Delivery, error) {
	if deliveryNumber == "" {
		return nil, shared.NewDomainError("INVALID_DELIVERY_NUMBER", "Delivery number cannot be empty")
	}
	if salesOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALES_ORDER", "Sales order ID cannot be empty")
	}

	delivery := &Delivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DeliveryNumber:    deliveryNumber,
		SalesOrderID:      salesOrderID,
		Status:            DeliveryStatusDraft,
		Items:             make([]DeliveryItem, 0),
	}

	delivery.AddDomainEvent(NewDeliveryCreatedEvent(delivery))

	return delivery, nil
}

// AddItem adds a line item referencing a sales order item
func (d *Delivery) AddItem(salesOrderItemID, productID uuid.UUID, productName string, warehouseID *uuid.UUID, plannedQty decimal.Decimal) (*DeliveryItem, error) {
	if d.Status != DeliveryStatusDraft {
		return nil, shared.NewStateTransitionError("Delivery", d.Status.String(), DeliveryStatusDraft.String())
	}
	if salesOrderItemID == uuid.Nil {
		return nil, shared.NewValidationError("Delivery", len(d.Items), "salesOrderItemId", "source sales order item is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Delivery", len(d.Items), "productId", "product is required")
	}
	if plannedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Delivery", len(d.Items), "plannedQty", "planned quantity must be positive")
	}

	now := time.Now()
	item := DeliveryItem{
		ID:               uuid.New(),
		DeliveryID:       d.ID,
		SalesOrderItemID: salesOrderItemID,
		ProductID:        productID,
		ProductName:      productName,
		WarehouseID:      warehouseID,
		PlannedQty:       plannedQty,
		DeliveredQty:     decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	d.Items = append(d.Items, item)
	d.UpdatedAt = now

	return &d.Items[len(d.Items)-1], nil
}

// UpdateItemPlannedQty changes the planned quantity of a line. Editable while
// draft for everyone; later only for managers per the edit-permission gate.
func (d *Delivery) UpdateItemPlannedQty(actor identity.Actor, itemID uuid.UUID, quantity decimal.Decimal) error {
	perms := DeliveryEditPermissions(d.Status, actor)
	if !perms.CanEditItems {
		return shared.NewAuthorizationError("Delivery", "edit items", actor.PrimaryRole().String())
	}

	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			if quantity.LessThanOrEqual(decimal.Zero) {
				return shared.NewValidationError("Delivery", idx, "plannedQty", "planned quantity must be positive")
			}
			d.Items[idx].PlannedQty = quantity
			d.Items[idx].UpdatedAt = time.Now()
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetItemWarehouse assigns the issuing warehouse for a line
func (d *Delivery) SetItemWarehouse(actor identity.Actor, itemID, warehouseID uuid.UUID) error {
	perms := DeliveryEditPermissions(d.Status, actor)
	if !perms.CanEditItems {
		return shared.NewAuthorizationError("Delivery", "edit items", actor.PrimaryRole().String())
	}
	if warehouseID == uuid.Nil {
		return shared.NewValidationError("Delivery", -1, "warehouseId", "warehouse is required")
	}

	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			d.Items[idx].WarehouseID = &warehouseID
			d.Items[idx].UpdatedAt = time.Now()
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes a line item
func (d *Delivery) RemoveItem(actor identity.Actor, itemID uuid.UUID) error {
	perms := DeliveryEditPermissions(d.Status, actor)
	if !perms.CanEditItems {
		return shared.NewAuthorizationError("Delivery", "edit items", actor.PrimaryRole().String())
	}

	for idx, item := range d.Items {
		if item.ID == itemID {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetTracking sets carrier and tracking number. Logistics metadata stays
// editable through PICKED for ordinary roles; quantities do not.
func (d *Delivery) SetTracking(actor identity.Actor, carrier, trackingNumber string) error {
	perms := DeliveryEditPermissions(d.Status, actor)
	if !perms.CanEditTracking {
		return shared.NewAuthorizationError("Delivery", "edit tracking", actor.PrimaryRole().String())
	}

	d.Carrier = carrier
	d.TrackingNumber = trackingNumber
	d.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the delivery notes
func (d *Delivery) SetNotes(actor identity.Actor, notes string) error {
	perms := DeliveryEditPermissions(d.Status, actor)
	if !perms.CanEditNotes {
		return shared.NewAuthorizationError("Delivery", "edit notes", actor.PrimaryRole().String())
	}

	d.Notes = notes
	d.UpdatedAt = time.Now()
	return nil
}

// Pick marks the delivery as picked. Every line must have a warehouse
// assigned before picking, because good issues inherit it.
func (d *Delivery) Pick() error {
	if !d.Status.CanTransitionTo(DeliveryStatusPicked) {
		return shared.NewStateTransitionError("Delivery", d.Status.String(), DeliveryStatusPicked.String())
	}
	if len(d.Items) == 0 {
		return shared.NewValidationError("Delivery", -1, "items", "cannot pick a delivery without items")
	}
	for idx := range d.Items {
		if d.Items[idx].WarehouseID == nil {
			return shared.NewValidationError("Delivery", idx, "warehouseId", "warehouse must be assigned before picking")
		}
	}

	now := time.Now()
	d.Status = DeliveryStatusPicked
	d.PickedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryStatusChangedEvent(d, DeliveryStatusDraft, DeliveryStatusPicked))

	return nil
}

// Ship marks the delivery as shipped
func (d *Delivery) Ship() error {
	if !d.Status.CanTransitionTo(DeliveryStatusShipped) {
		return shared.NewStateTransitionError("Delivery", d.Status.String(), DeliveryStatusShipped.String())
	}

	now := time.Now()
	from := d.Status
	d.Status = DeliveryStatusShipped
	d.ShippedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryStatusChangedEvent(d, from, DeliveryStatusShipped))

	return nil
}

// MarkDelivered marks the delivery as delivered and records per-line
// delivered quantities. Lines absent from quantities default to their
// planned quantity; a delivered quantity may not exceed the planned one.
func (d *Delivery) MarkDelivered(quantities map[uuid.UUID]decimal.Decimal) error {
	if !d.Status.CanTransitionTo(DeliveryStatusDelivered) {
		return shared.NewStateTransitionError("Delivery", d.Status.String(), DeliveryStatusDelivered.String())
	}

	for idx := range d.Items {
		qty, ok := quantities[d.Items[idx].ID]
		if !ok {
			qty = d.Items[idx].PlannedQty
		}
		if qty.IsNegative() {
			return shared.NewValidationError("Delivery", idx, "deliveredQty", "delivered quantity cannot be negative")
		}
		if qty.GreaterThan(d.Items[idx].PlannedQty) {
			return shared.NewValidationError("Delivery", idx, "deliveredQty", "delivered quantity cannot exceed planned quantity")
		}
		d.Items[idx].DeliveredQty = qty
		d.Items[idx].UpdatedAt = time.Now()
	}

	now := time.Now()
	from := d.Status
	d.Status = DeliveryStatusDelivered
	d.DeliveredAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryStatusChangedEvent(d, from, DeliveryStatusDelivered))

	return nil
}

// Cancel cancels the delivery. A delivered delivery can only be cancelled by
// a manager; a cancelled one is terminal. No stock is touched here: stock
// moves only at good issue approval, which a cancelled delivery never reaches.
func (d *Delivery) Cancel(actor identity.Actor, reason string) error {
	if reason == "" {
		return shared.NewValidationError("Delivery", -1, "reason", "cancel reason is required")
	}
	if d.Status == DeliveryStatusDelivered {
		if !actor.IsManager() {
			return shared.NewAuthorizationError("Delivery", "cancel a delivered delivery", actor.PrimaryRole().String())
		}
	} else if !d.Status.CanTransitionTo(DeliveryStatusCancelled) {
		return shared.NewStateTransitionError("Delivery", d.Status.String(), DeliveryStatusCancelled.String())
	}

	now := time.Now()
	from := d.Status
	d.Status = DeliveryStatusCancelled
	d.CancelledAt = &now
	d.CancelReason = reason
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeliveryStatusChangedEvent(d, from, DeliveryStatusCancelled))

	return nil
}

// GetItem returns an item by its ID
func (d *Delivery) GetItem(itemID uuid.UUID) *DeliveryItem {
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			return &d.Items[idx]
		}
	}
	return nil
}

// GetItemBySalesOrderItem returns the line fulfilling a sales order item
func (d *Delivery) GetItemBySalesOrderItem(salesOrderItemID uuid.UUID) *DeliveryItem {
	for idx := range d.Items {
		if d.Items[idx].SalesOrderItemID == salesOrderItemID {
			return &d.Items[idx]
		}
	}
	return nil
}

// IsDraft returns true if the delivery is in draft status
func (d *Delivery) IsDraft() bool {
	return d.Status == DeliveryStatusDraft
}

// IsPicked returns true if the delivery is picked
func (d *Delivery) IsPicked() bool {
	return d.Status == DeliveryStatusPicked
}

// IsDelivered returns true if the delivery is delivered
func (d *Delivery) IsDelivered() bool {
	return d.Status == DeliveryStatusDelivered
}

// IsCancelled returns true if the delivery is cancelled
func (d *Delivery) IsCancelled() bool {
	return d.Status == DeliveryStatusCancelled
}
