package fulfillment

import (
	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeDelivery    = "Delivery"
	AggregateTypeGoodIssue   = "GoodIssue"
	AggregateTypeReturnOrder = "ReturnOrder"
)

// Event type constants
const (
	EventTypeDeliveryCreated       = "DeliveryCreated"
	EventTypeDeliveryStatusChanged = "DeliveryStatusChanged"
	EventTypeGoodIssueCreated      = "GoodIssueCreated"
	EventTypeGoodIssueApproved     = "GoodIssueApproved"
	EventTypeGoodIssueRejected     = "GoodIssueRejected"
	EventTypeReturnOrderCreated    = "ReturnOrderCreated"
	EventTypeReturnOrderApproved   = "ReturnOrderApproved"
)

// DeliveryCreatedEvent is raised when a delivery is assembled from a sales order
type DeliveryCreatedEvent struct {
	shared.BaseDomainEvent
	DeliveryID     uuid.UUID `json:"delivery_id"`
	DeliveryNumber string    `json:"delivery_number"`
	SalesOrderID   uuid.UUID `json:"sales_order_id"`
}

// NewDeliveryCreatedEvent creates a new DeliveryCreatedEvent
func NewDeliveryCreatedEvent(d *Delivery) *DeliveryCreatedEvent {
	return &DeliveryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryCreated, d.ID, AggregateTypeDelivery),
		DeliveryID:      d.ID,
		DeliveryNumber:  d.DeliveryNumber,
		SalesOrderID:    d.SalesOrderID,
	}
}

// DeliveryStatusChangedEvent is raised on every delivery status transition
type DeliveryStatusChangedEvent struct {
	shared.BaseDomainEvent
	DeliveryID     uuid.UUID `json:"delivery_id"`
	DeliveryNumber string    `json:"delivery_number"`
	From           string    `json:"from"`
	To             string    `json:"to"`
}

// NewDeliveryStatusChangedEvent creates a new DeliveryStatusChangedEvent
func NewDeliveryStatusChangedEvent(d *Delivery, from, to DeliveryStatus) *DeliveryStatusChangedEvent {
	return &DeliveryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryStatusChanged, d.ID, AggregateTypeDelivery),
		DeliveryID:      d.ID,
		DeliveryNumber:  d.DeliveryNumber,
		From:            from.String(),
		To:              to.String(),
	}
}

// GoodIssueCreatedEvent is raised when a good issue is assembled from a delivery
type GoodIssueCreatedEvent struct {
	shared.BaseDomainEvent
	GoodIssueID uuid.UUID `json:"good_issue_id"`
	IssueNumber string    `json:"issue_number"`
	DeliveryID  uuid.UUID `json:"delivery_id"`
}

// NewGoodIssueCreatedEvent creates a new GoodIssueCreatedEvent
func NewGoodIssueCreatedEvent(g *GoodIssue) *GoodIssueCreatedEvent {
	return &GoodIssueCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodIssueCreated, g.ID, AggregateTypeGoodIssue),
		GoodIssueID:     g.ID,
		IssueNumber:     g.IssueNumber,
		DeliveryID:      g.DeliveryID,
	}
}

// IssuedItemInfo carries the per-line debit recorded by an approval
type IssuedItemInfo struct {
	DeliveryItemID uuid.UUID       `json:"delivery_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	IssuedQty      decimal.Decimal `json:"issued_qty"`
}

// GoodIssueApprovedEvent is raised when an issue is approved and stock debited
type GoodIssueApprovedEvent struct {
	shared.BaseDomainEvent
	GoodIssueID uuid.UUID        `json:"good_issue_id"`
	IssueNumber string           `json:"issue_number"`
	DeliveryID  uuid.UUID        `json:"delivery_id"`
	Items       []IssuedItemInfo `json:"items"`
}

// NewGoodIssueApprovedEvent creates a new GoodIssueApprovedEvent
func NewGoodIssueApprovedEvent(g *GoodIssue) *GoodIssueApprovedEvent {
	items := make([]IssuedItemInfo, 0, len(g.Items))
	for _, item := range g.Items {
		items = append(items, IssuedItemInfo{
			DeliveryItemID: item.DeliveryItemID,
			ProductID:      item.ProductID,
			WarehouseID:    item.WarehouseID,
			IssuedQty:      item.IssuedQty,
		})
	}
	return &GoodIssueApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodIssueApproved, g.ID, AggregateTypeGoodIssue),
		GoodIssueID:     g.ID,
		IssueNumber:     g.IssueNumber,
		DeliveryID:      g.DeliveryID,
		Items:           items,
	}
}

// GoodIssueRejectedEvent is raised when an issue is rejected or revoked
type GoodIssueRejectedEvent struct {
	shared.BaseDomainEvent
	GoodIssueID uuid.UUID `json:"good_issue_id"`
	IssueNumber string    `json:"issue_number"`
	Reason      string    `json:"reason"`
}

// NewGoodIssueRejectedEvent creates a new GoodIssueRejectedEvent
func NewGoodIssueRejectedEvent(g *GoodIssue, reason string) *GoodIssueRejectedEvent {
	return &GoodIssueRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodIssueRejected, g.ID, AggregateTypeGoodIssue),
		GoodIssueID:     g.ID,
		IssueNumber:     g.IssueNumber,
		Reason:          reason,
	}
}

// ReturnOrderCreatedEvent is raised when a return order is assembled
type ReturnOrderCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnOrderID uuid.UUID `json:"return_order_id"`
	ReturnNumber  string    `json:"return_number"`
	DeliveryID    uuid.UUID `json:"delivery_id"`
}

// NewReturnOrderCreatedEvent creates a new ReturnOrderCreatedEvent
func NewReturnOrderCreatedEvent(r *ReturnOrder) *ReturnOrderCreatedEvent {
	return &ReturnOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnOrderCreated, r.ID, AggregateTypeReturnOrder),
		ReturnOrderID:   r.ID,
		ReturnNumber:    r.ReturnNumber,
		DeliveryID:      r.DeliveryID,
	}
}

// ReturnedItemInfo carries per-line restock details on a return approval
type ReturnedItemInfo struct {
	DeliveryItemID uuid.UUID       `json:"delivery_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    *uuid.UUID      `json:"warehouse_id,omitempty"`
	ReturnedQty    decimal.Decimal `json:"returned_qty"`
}

// ReturnOrderApprovedEvent is raised when a return is approved
type ReturnOrderApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnOrderID uuid.UUID          `json:"return_order_id"`
	ReturnNumber  string             `json:"return_number"`
	DeliveryID    uuid.UUID          `json:"delivery_id"`
	TotalReturned decimal.Decimal    `json:"total_returned"`
	Items         []ReturnedItemInfo `json:"items"`
}

// NewReturnOrderApprovedEvent creates a new ReturnOrderApprovedEvent
func NewReturnOrderApprovedEvent(r *ReturnOrder) *ReturnOrderApprovedEvent {
	items := make([]ReturnedItemInfo, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReturnedItemInfo{
			DeliveryItemID: item.DeliveryItemID,
			ProductID:      item.ProductID,
			WarehouseID:    item.WarehouseID,
			ReturnedQty:    item.ReturnedQty,
		})
	}
	return &ReturnOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnOrderApproved, r.ID, AggregateTypeReturnOrder),
		ReturnOrderID:   r.ID,
		ReturnNumber:    r.ReturnNumber,
		DeliveryID:      r.DeliveryID,
		TotalReturned:   r.TotalReturnedQty(),
		Items:           items,
	}
}
