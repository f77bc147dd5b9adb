package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesOrderReader is the read-only boundary to the sales order store.
// Orders and their items are owned by sales entry; this engine never writes
// them. Each item's cumulative delivered quantity is derived from the
// engine's own delivery documents at load time.
type SalesOrderReader interface {
	// FindByID fetches a sales order with its items, delivered quantities
	// populated
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
}

// DeliveryRepository defines the interface for delivery persistence
type DeliveryRepository interface {
	// FindByID finds a delivery with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)

	// FindBySalesOrder finds all active deliveries for a sales order
	FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]Delivery, error)

	// FindAll finds deliveries with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Delivery, error)

	// Save creates or updates a delivery and its items
	Save(ctx context.Context, delivery *Delivery) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, delivery *Delivery) error

	// AccrueReturnedQty adds qty to a delivery line's returned counter.
	// The accrual is refused with a ConflictError when it would push the
	// counter past the line's delivered quantity, which is what holds the
	// returnable cap under concurrent return approvals.
	AccrueReturnedQty(ctx context.Context, deliveryItemID uuid.UUID, qty decimal.Decimal) error

	// Delete soft-deletes a delivery
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts deliveries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateDeliveryNumber generates a unique human-readable number
	GenerateDeliveryNumber(ctx context.Context) (string, error)
}

// GoodIssueRepository defines the interface for good issue persistence.
// Approval is the engine's single side-effecting transition and is only
// reachable through the transaction scope, never through Save.
type GoodIssueRepository interface {
	// FindByID finds a good issue with its items
	FindByID(ctx context.Context, id uuid.UUID) (*GoodIssue, error)

	// FindByDelivery finds all active good issues for a delivery
	FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]GoodIssue, error)

	// FindAll finds good issues with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]GoodIssue, error)

	// ExistsApprovedForDelivery reports whether a non-deleted approved good
	// issue exists for the delivery
	ExistsApprovedForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error)

	// Save creates or updates a good issue and its items
	Save(ctx context.Context, issue *GoodIssue) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, issue *GoodIssue) error

	// MarkApprovedIfDraft flips the status to APPROVED with a conditional
	// update on the current status. Returns StateTransitionError when the
	// issue is no longer draft and ConflictError when another approved
	// issue for the same delivery already exists.
	MarkApprovedIfDraft(ctx context.Context, issueID, approvedBy uuid.UUID) error

	// Delete soft-deletes a good issue
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts good issues matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateIssueNumber generates a unique human-readable number
	GenerateIssueNumber(ctx context.Context) (string, error)
}

// ReturnOrderRepository defines the interface for return order persistence
type ReturnOrderRepository interface {
	// FindByID finds a return order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnOrder, error)

	// FindByDelivery finds all active return orders for a delivery
	FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]ReturnOrder, error)

	// FindAll finds return orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]ReturnOrder, error)

	// ReturnedQuantities sums returnedQty per delivery item across approved,
	// non-deleted return orders, excluding the given return order when set.
	// The store maintains this aggregate incrementally; delivery items with
	// no approved returns are absent from the result.
	ReturnedQuantities(ctx context.Context, deliveryItemIDs []uuid.UUID, excludeReturnOrderID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// Save creates or updates a return order and its items
	Save(ctx context.Context, ro *ReturnOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, ro *ReturnOrder) error

	// MarkApprovedIfDraft flips the status to APPROVED with a conditional
	// update on the current status
	MarkApprovedIfDraft(ctx context.Context, returnOrderID, approvedBy uuid.UUID) error

	// Delete soft-deletes a return order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts return orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateReturnNumber generates a unique human-readable number
	GenerateReturnNumber(ctx context.Context) (string, error)
}
