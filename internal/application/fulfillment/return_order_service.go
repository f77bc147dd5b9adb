package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// ReturnOrderService handles return order business operations. Approval
// re-derives every line's returnable cap inside the transaction and then
// increments stock together with the status flip.
type ReturnOrderService struct {
	returnRepo     fulfillment.ReturnOrderRepository
	deliveryRepo   fulfillment.DeliveryRepository
	assembler      *fulfillment.DocumentAssembler
	ledger         *fulfillment.QuantityLedger
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewReturnOrderService creates a new ReturnOrderService
func NewReturnOrderService(
	returnRepo fulfillment.ReturnOrderRepository,
	deliveryRepo fulfillment.DeliveryRepository,
	assembler *fulfillment.DocumentAssembler,
	ledger *fulfillment.QuantityLedger,
	txScope TransactionScope,
) *ReturnOrderService {
	return &ReturnOrderService{
		returnRepo:   returnRepo,
		deliveryRepo: deliveryRepo,
		assembler:    assembler,
		ledger:       ledger,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReturnOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReturnOrderService) publishDomainEvents(ctx context.Context, ro *fulfillment.ReturnOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := ro.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	ro.ClearDomainEvents()
}

// Create assembles a new draft return order from a delivered delivery. Only
// lines with returnable quantity remain; each line's cap is delivered minus
// already returned across other approved returns.
func (s *ReturnOrderService) Create(ctx context.Context, req CreateReturnOrderRequest) (*ReturnOrderResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, req.DeliveryID)
	if err != nil {
		return nil, err
	}

	number, err := s.returnRepo.GenerateReturnNumber(ctx)
	if err != nil {
		return nil, err
	}

	ro, err := s.assembler.ReturnOrderFromDelivery(ctx, delivery, number)
	if err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, ro); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, ro)

	return ToReturnOrderResponse(ro), nil
}

// GetByID retrieves a return order by ID
func (s *ReturnOrderService) GetByID(ctx context.Context, id uuid.UUID) (*ReturnOrderResponse, error) {
	ro, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToReturnOrderResponse(ro), nil
}

// List retrieves return orders with filtering and pagination
func (s *ReturnOrderService) List(ctx context.Context, filter ReturnOrderListFilter) ([]ReturnOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.DeliveryID != nil {
		domainFilter.Filters["delivery_id"] = *filter.DeliveryID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	returns, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnOrderResponse, 0, len(returns))
	for idx := range returns {
		responses = append(responses, *ToReturnOrderResponse(&returns[idx]))
	}
	return responses, total, nil
}

// UpdateItem changes a line's returned quantity. The returnable cap is
// re-derived from the ledger first, excluding this return order itself, so
// a concurrent approval elsewhere shrinks the cap seen here.
func (s *ReturnOrderService) UpdateItem(ctx context.Context, actor identity.Actor, returnOrderID, itemID uuid.UUID, req UpdateReturnOrderItemRequest) (*ReturnOrderResponse, error) {
	ro, err := s.returnRepo.FindByID(ctx, returnOrderID)
	if err != nil {
		return nil, err
	}

	item := ro.GetItem(itemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	delivery, err := s.deliveryRepo.FindByID(ctx, ro.DeliveryID)
	if err != nil {
		return nil, err
	}
	deliveryItem := delivery.GetItem(item.DeliveryItemID)
	if deliveryItem == nil {
		return nil, shared.ErrLedgerCorrupted
	}

	returnable, err := s.ledger.ReturnableQty(ctx, deliveryItem, &ro.ID)
	if err != nil {
		return nil, err
	}
	if err := ro.RefreshItemCap(itemID, returnable); err != nil {
		return nil, err
	}

	if err := ro.UpdateItemQuantity(actor, itemID, req.ReturnedQty); err != nil {
		return nil, err
	}
	if err := s.returnRepo.SaveWithLock(ctx, ro); err != nil {
		return nil, err
	}
	return ToReturnOrderResponse(ro), nil
}

// SetReason sets the return reason
func (s *ReturnOrderService) SetReason(ctx context.Context, actor identity.Actor, returnOrderID uuid.UUID, req SetReasonRequest) (*ReturnOrderResponse, error) {
	ro, err := s.returnRepo.FindByID(ctx, returnOrderID)
	if err != nil {
		return nil, err
	}

	if err := ro.SetReason(actor, req.Reason); err != nil {
		return nil, err
	}
	if err := s.returnRepo.SaveWithLock(ctx, ro); err != nil {
		return nil, err
	}
	return ToReturnOrderResponse(ro), nil
}

// Approve approves the return and credits stock in one transaction. Every
// line's returnable cap is re-derived inside the transaction; a cap
// violation (a concurrent return was approved first) aborts the whole
// approval. The authoritative guard is the conditional accrual on the
// delivery line's returned counter, which still holds when two approvals
// read the same stale ledger. Lines without a warehouse cannot receive
// stock back.
func (s *ReturnOrderService) Approve(ctx context.Context, actor identity.Actor, returnOrderID uuid.UUID) (*ReturnOrderResponse, error) {
	var approved *fulfillment.ReturnOrder

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ro, err := repos.ReturnOrderRepo().FindByID(ctx, returnOrderID)
		if err != nil {
			return err
		}

		if err := ro.MarkApproved(actor.UserID); err != nil {
			return err
		}

		delivery, err := repos.DeliveryRepo().FindByID(ctx, ro.DeliveryID)
		if err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, 0, len(ro.Items))
		for idx := range ro.Items {
			itemIDs = append(itemIDs, ro.Items[idx].DeliveryItemID)
		}
		returned, err := repos.ReturnOrderRepo().ReturnedQuantities(ctx, itemIDs, &ro.ID)
		if err != nil {
			return err
		}

		for idx := range ro.Items {
			item := &ro.Items[idx]
			deliveryItem := delivery.GetItem(item.DeliveryItemID)
			if deliveryItem == nil {
				return shared.ErrLedgerCorrupted
			}

			returnable := deliveryItem.DeliveredQty.Sub(returned[item.DeliveryItemID])
			if returnable.IsNegative() {
				return shared.ErrLedgerCorrupted
			}
			if item.ReturnedQty.GreaterThan(returnable) {
				return shared.NewValidationError("ReturnOrder", idx, "returnedQty", "returned quantity exceeds the returnable cap")
			}

			if item.WarehouseID == nil {
				return shared.NewValidationError("ReturnOrder", idx, "warehouseId", "warehouse is required to receive returned stock")
			}
			if err := repos.DeliveryRepo().AccrueReturnedQty(ctx, item.DeliveryItemID, item.ReturnedQty); err != nil {
				return err
			}
			if err := repos.StockRepo().Increment(ctx, *item.WarehouseID, item.ProductID, item.ReturnedQty); err != nil {
				return err
			}
		}

		if err := repos.ReturnOrderRepo().MarkApprovedIfDraft(ctx, returnOrderID, actor.UserID); err != nil {
			return err
		}

		approved = ro
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, approved)

	return ToReturnOrderResponse(approved), nil
}

// Reject rejects a draft return
func (s *ReturnOrderService) Reject(ctx context.Context, actor identity.Actor, returnOrderID uuid.UUID) (*ReturnOrderResponse, error) {
	ro, err := s.returnRepo.FindByID(ctx, returnOrderID)
	if err != nil {
		return nil, err
	}

	if err := ro.Reject(actor); err != nil {
		return nil, err
	}
	if err := s.returnRepo.SaveWithLock(ctx, ro); err != nil {
		return nil, err
	}
	return ToReturnOrderResponse(ro), nil
}

// Cancel cancels a draft return
func (s *ReturnOrderService) Cancel(ctx context.Context, returnOrderID uuid.UUID) (*ReturnOrderResponse, error) {
	ro, err := s.returnRepo.FindByID(ctx, returnOrderID)
	if err != nil {
		return nil, err
	}

	if err := ro.Cancel(); err != nil {
		return nil, err
	}
	if err := s.returnRepo.SaveWithLock(ctx, ro); err != nil {
		return nil, err
	}
	return ToReturnOrderResponse(ro), nil
}

// Delete soft-deletes a return order. An approved return already credited
// stock, so only managers may delete it.
func (s *ReturnOrderService) Delete(ctx context.Context, actor identity.Actor, returnOrderID uuid.UUID) error {
	ro, err := s.returnRepo.FindByID(ctx, returnOrderID)
	if err != nil {
		return err
	}

	if ro.IsApproved() && !actor.IsManager() {
		return shared.NewAuthorizationError("ReturnOrder", "delete an approved return", actor.PrimaryRole().String())
	}

	return s.returnRepo.Delete(ctx, returnOrderID)
}

// GetEditPermissions reports the field-level mutability the actor has on
// the return in its current status
func (s *ReturnOrderService) GetEditPermissions(ctx context.Context, actor identity.Actor, returnOrderID uuid.UUID) (*EditPermissionsResponse, error) {
	ro, err := s.returnRepo.FindByID(ctx, returnOrderID)
	if err != nil {
		return nil, err
	}

	perms := fulfillment.ReturnOrderEditPermissions(ro.Status, actor)
	return ToEditPermissionsResponse(ro.Status.String(), perms), nil
}
