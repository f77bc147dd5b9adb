package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the status of a return order
type ReturnStatus string

const (
	ReturnStatusDraft     ReturnStatus = "DRAFT"
	ReturnStatusApproved  ReturnStatus = "APPROVED"
	ReturnStatusRejected  ReturnStatus = "REJECTED"
	ReturnStatusCancelled ReturnStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusDraft, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusDraft:
		return target == ReturnStatusApproved || target == ReturnStatusRejected || target == ReturnStatusCancelled
	case ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCancelled:
		return false
	}
	return false
}

// ReturnOrderItem represents a line item in a return order. ReturnableQty is
// a snapshot of deliveredQty minus already-returned at assembly time, used
// for local validation; the cap is re-derived from the ledger at approval.
type ReturnOrderItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReturnOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	WarehouseID    *uuid.UUID      `gorm:"type:uuid"`
	ReturnedQty    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnableQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (ReturnOrderItem) TableName() string {
	return "return_order_items"
}

// ReturnOrder represents a customer return against a delivered delivery
type ReturnOrder struct {
	shared.BaseAggregateRoot
	ReturnNumber string            `gorm:"size:50;uniqueIndex"`
	DeliveryID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status       ReturnStatus      `gorm:"size:20;not null"`
	Items        []ReturnOrderItem `gorm:"foreignKey:ReturnOrderID;references:ID"`
	Reason       string            `gorm:"size:500"`
	ApprovedAt   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	RejectedAt   *time.Time
	RejectedBy   *uuid.UUID `gorm:"type:uuid"`
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (ReturnOrder) TableName() string {
	return "return_orders"
}

// NewReturnOrder creates a new return order in draft status
func NewReturnOrder(returnNumber string, deliveryID uuid.UUID) (*ReturnOrder, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if deliveryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DELIVERY", "Delivery ID cannot be empty")
	}

	ro := &ReturnOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		DeliveryID:        deliveryID,
		Status:            ReturnStatusDraft,
		Items:             make([]ReturnOrderItem, 0),
	}

	ro.AddDomainEvent(NewReturnOrderCreatedEvent(ro))

	return ro, nil
}

// AddItem adds a line item referencing a delivery item. returnableQty is the
// remaining returnable quantity for that line; returnedQty must fit in it.
func (r *ReturnOrder) AddItem(deliveryItemID, productID uuid.UUID, warehouseID *uuid.UUID, returnedQty, returnableQty decimal.Decimal) (*ReturnOrderItem, error) {
	if r.Status != ReturnStatusDraft {
		return nil, shared.NewStateTransitionError("ReturnOrder", r.Status.String(), ReturnStatusDraft.String())
	}
	if deliveryItemID == uuid.Nil {
		return nil, shared.NewValidationError("ReturnOrder", len(r.Items), "deliveryItemId", "source delivery item is required")
	}
	if returnableQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("ReturnOrder", len(r.Items), "returnableQty", "the delivery item has nothing left to return")
	}
	if returnedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("ReturnOrder", len(r.Items), "returnedQty", "returned quantity must be positive")
	}
	if returnedQty.GreaterThan(returnableQty) {
		return nil, shared.NewValidationError("ReturnOrder", len(r.Items), "returnedQty", "returned quantity exceeds the returnable cap")
	}

	now := time.Now()
	item := ReturnOrderItem{
		ID:             uuid.New(),
		ReturnOrderID:  r.ID,
		DeliveryItemID: deliveryItemID,
		ProductID:      productID,
		WarehouseID:    warehouseID,
		ReturnedQty:    returnedQty,
		ReturnableQty:  returnableQty,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.Items = append(r.Items, item)
	r.UpdatedAt = now

	return &r.Items[len(r.Items)-1], nil
}

// UpdateItemQuantity changes the returned quantity of a line
func (r *ReturnOrder) UpdateItemQuantity(actor identity.Actor, itemID uuid.UUID, quantity decimal.Decimal) error {
	perms := ReturnOrderEditPermissions(r.Status, actor)
	if !perms.CanEditItems {
		return shared.NewAuthorizationError("ReturnOrder", "edit items", actor.PrimaryRole().String())
	}

	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			if quantity.LessThanOrEqual(decimal.Zero) {
				return shared.NewValidationError("ReturnOrder", idx, "returnedQty", "returned quantity must be positive")
			}
			if quantity.GreaterThan(r.Items[idx].ReturnableQty) {
				return shared.NewValidationError("ReturnOrder", idx, "returnedQty", "returned quantity exceeds the returnable cap")
			}
			r.Items[idx].ReturnedQty = quantity
			r.Items[idx].UpdatedAt = time.Now()
			r.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RefreshItemCap replaces the returnable snapshot of a line with a freshly
// derived one and re-checks the current returned quantity against it
func (r *ReturnOrder) RefreshItemCap(itemID uuid.UUID, returnableQty decimal.Decimal) error {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			r.Items[idx].ReturnableQty = returnableQty
			if r.Items[idx].ReturnedQty.GreaterThan(returnableQty) {
				return shared.NewValidationError("ReturnOrder", idx, "returnedQty", "returned quantity exceeds the returnable cap")
			}
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetReason sets the return reason
func (r *ReturnOrder) SetReason(actor identity.Actor, reason string) error {
	perms := ReturnOrderEditPermissions(r.Status, actor)
	if !perms.CanEditNotes {
		return shared.NewAuthorizationError("ReturnOrder", "edit reason", actor.PrimaryRole().String())
	}

	r.Reason = reason
	r.UpdatedAt = time.Now()
	return nil
}

// MarkApproved records the approval on the in-memory aggregate. As with good
// issues, the transition is committed by the store atomically together with
// the stock increment.
func (r *ReturnOrder) MarkApproved(approvedBy uuid.UUID) error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return shared.NewStateTransitionError("ReturnOrder", r.Status.String(), ReturnStatusApproved.String())
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("ReturnOrder", -1, "items", "cannot approve a return without items")
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedAt = &now
	r.ApprovedBy = &approvedBy
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnOrderApprovedEvent(r))

	return nil
}

// Reject rejects the draft return
func (r *ReturnOrder) Reject(actor identity.Actor) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return shared.NewStateTransitionError("ReturnOrder", r.Status.String(), ReturnStatusRejected.String())
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	r.RejectedAt = &now
	r.RejectedBy = &actor.UserID
	r.UpdatedAt = now

	return nil
}

// Cancel cancels the draft return
func (r *ReturnOrder) Cancel() error {
	if !r.Status.CanTransitionTo(ReturnStatusCancelled) {
		return shared.NewStateTransitionError("ReturnOrder", r.Status.String(), ReturnStatusCancelled.String())
	}

	now := time.Now()
	r.Status = ReturnStatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now

	return nil
}

// GetItem returns an item by its ID
func (r *ReturnOrder) GetItem(itemID uuid.UUID) *ReturnOrderItem {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return &r.Items[idx]
		}
	}
	return nil
}

// TotalReturnedQty returns the sum of all line returned quantities
func (r *ReturnOrder) TotalReturnedQty() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.ReturnedQty)
	}
	return total
}

// IsDraft returns true if the return is in draft status
func (r *ReturnOrder) IsDraft() bool {
	return r.Status == ReturnStatusDraft
}

// IsApproved returns true if the return is approved
func (r *ReturnOrder) IsApproved() bool {
	return r.Status == ReturnStatusApproved
}
