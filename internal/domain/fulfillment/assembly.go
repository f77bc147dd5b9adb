package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DocumentAssembler builds a new document's line items from its source
// document: SalesOrder -> Delivery -> GoodIssue / ReturnOrder. Assembly
// reads the quantity ledger to pre-populate lines; it never persists.
type DocumentAssembler struct {
	ledger *QuantityLedger
	issues GoodIssueRepository
}

// NewDocumentAssembler creates a new DocumentAssembler
func NewDocumentAssembler(ledger *QuantityLedger, issues GoodIssueRepository) *DocumentAssembler {
	return &DocumentAssembler{ledger: ledger, issues: issues}
}

// DeliveryFromSalesOrder copies every sales order item with remaining
// quantity > 0 into a delivery line with plannedQty = remaining and
// deliveredQty = 0. The warehouse is inherited from the source item when
// present, otherwise left unset for the operator to assign. An order with
// zero eligible items cannot be delivered.
func (a *DocumentAssembler) DeliveryFromSalesOrder(order *SalesOrder, deliveryNumber string) (*Delivery, error) {
	eligible, err := order.DeliverableItems()
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, shared.NewDomainError("NOTHING_TO_DELIVER", "Sales order has no items with remaining quantity")
	}

	delivery, err := NewDelivery(deliveryNumber, order.ID)
	if err != nil {
		return nil, err
	}

	for _, src := range eligible {
		remaining, err := src.RemainingQty()
		if err != nil {
			return nil, err
		}
		if _, err := delivery.AddItem(src.ID, src.ProductID, src.ProductName, src.WarehouseID, remaining); err != nil {
			return nil, err
		}
	}

	return delivery, nil
}

// GoodIssueFromDelivery creates a good issue from a picked delivery. Each
// delivery line becomes an issue line with issuedQty defaulted to plannedQty
// and the warehouse inherited from the line. Creation is refused when the
// delivery is not PICKED, or when another non-deleted good issue for it is
// already approved.
func (a *DocumentAssembler) GoodIssueFromDelivery(ctx context.Context, delivery *Delivery, issueNumber string) (*GoodIssue, error) {
	if delivery.Status != DeliveryStatusPicked {
		return nil, shared.NewStateTransitionError("Delivery", delivery.Status.String(), DeliveryStatusPicked.String())
	}

	approved, err := a.issues.ExistsApprovedForDelivery(ctx, delivery.ID)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, shared.NewConflictError("GoodIssue", "an approved good issue already exists for this delivery")
	}

	issue, err := NewGoodIssue(issueNumber, delivery.ID)
	if err != nil {
		return nil, err
	}

	for idx := range delivery.Items {
		src := &delivery.Items[idx]
		if src.WarehouseID == nil {
			return nil, shared.NewValidationError("GoodIssue", idx, "warehouseId", "delivery line has no warehouse assigned")
		}
		if _, err := issue.AddItem(src.ID, src.ProductID, *src.WarehouseID, src.PlannedQty, src.PlannedQty); err != nil {
			return nil, err
		}
	}

	return issue, nil
}

// ReturnOrderFromDelivery creates a return order from a delivered delivery.
// Only lines with deliveredQty minus already-returned > 0 are included; the
// returnable cap per line is exactly that difference, and returnedQty is
// pre-filled with the cap for the operator to reduce.
func (a *DocumentAssembler) ReturnOrderFromDelivery(ctx context.Context, delivery *Delivery, returnNumber string) (*ReturnOrder, error) {
	if delivery.Status != DeliveryStatusDelivered {
		return nil, shared.NewStateTransitionError("Delivery", delivery.Status.String(), DeliveryStatusDelivered.String())
	}

	itemIDs := make([]uuid.UUID, 0, len(delivery.Items))
	for idx := range delivery.Items {
		itemIDs = append(itemIDs, delivery.Items[idx].ID)
	}
	returned, err := a.ledger.AlreadyReturnedBatch(ctx, itemIDs, nil)
	if err != nil {
		return nil, err
	}

	ro, err := NewReturnOrder(returnNumber, delivery.ID)
	if err != nil {
		return nil, err
	}

	for idx := range delivery.Items {
		src := &delivery.Items[idx]
		returnable := src.DeliveredQty.Sub(returned[src.ID])
		if returnable.IsNegative() {
			return nil, shared.ErrLedgerCorrupted
		}
		if returnable.Equal(decimal.Zero) {
			continue
		}
		if _, err := ro.AddItem(src.ID, src.ProductID, src.WarehouseID, returnable, returnable); err != nil {
			return nil, err
		}
	}

	if len(ro.Items) == 0 {
		return nil, shared.NewDomainError("NOTHING_TO_RETURN", "Delivery has no items with returnable quantity")
	}

	return ro, nil
}
