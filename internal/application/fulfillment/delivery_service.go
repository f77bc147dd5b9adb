package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// DeliveryService handles delivery-related business operations
type DeliveryService struct {
	deliveryRepo   fulfillment.DeliveryRepository
	salesOrders    fulfillment.SalesOrderReader
	assembler      *fulfillment.DocumentAssembler
	eventPublisher shared.EventPublisher
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	deliveryRepo fulfillment.DeliveryRepository,
	salesOrders fulfillment.SalesOrderReader,
	assembler *fulfillment.DocumentAssembler,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		salesOrders:  salesOrders,
		assembler:    assembler,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *DeliveryService) publishDomainEvents(ctx context.Context, delivery *fulfillment.Delivery) {
	if s.eventPublisher == nil {
		return
	}
	events := delivery.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	delivery.ClearDomainEvents()
}

// Create assembles a new draft delivery from a sales order. Every order item
// with remaining quantity becomes a delivery line with plannedQty set to the
// remaining quantity.
func (s *DeliveryService) Create(ctx context.Context, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	order, err := s.salesOrders.FindByID(ctx, req.SalesOrderID)
	if err != nil {
		return nil, err
	}

	number, err := s.deliveryRepo.GenerateDeliveryNumber(ctx)
	if err != nil {
		return nil, err
	}

	delivery, err := s.assembler.DeliveryFromSalesOrder(order, number)
	if err != nil {
		return nil, err
	}

	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, delivery)

	return ToDeliveryResponse(delivery), nil
}

// GetByID retrieves a delivery by ID
func (s *DeliveryService) GetByID(ctx context.Context, id uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDeliveryResponse(delivery), nil
}

// List retrieves deliveries with filtering and pagination
func (s *DeliveryService) List(ctx context.Context, filter DeliveryListFilter) ([]DeliveryResponse, int64, error) {
	domainFilter := buildDeliveryFilter(filter)

	deliveries, err := s.deliveryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deliveryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DeliveryResponse, 0, len(deliveries))
	for idx := range deliveries {
		responses = append(responses, *ToDeliveryResponse(&deliveries[idx]))
	}
	return responses, total, nil
}

func buildDeliveryFilter(filter DeliveryListFilter) shared.Filter {
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
	if filter.SalesOrderID != nil {
		domainFilter.Filters["sales_order_id"] = *filter.SalesOrderID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}

// UpdateItem changes a delivery line's planned quantity and/or warehouse.
// The document's edit-permission gate decides whether the actor may touch
// items in the current status.
func (s *DeliveryService) UpdateItem(ctx context.Context, actor identity.Actor, deliveryID, itemID uuid.UUID, req UpdateDeliveryItemRequest) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if req.PlannedQty != nil {
		if err := delivery.UpdateItemPlannedQty(actor, itemID, *req.PlannedQty); err != nil {
			return nil, err
		}
	}
	if req.WarehouseID != nil {
		if err := delivery.SetItemWarehouse(actor, itemID, *req.WarehouseID); err != nil {
			return nil, err
		}
	}

	if err := s.deliveryRepo.SaveWithLock(ctx, delivery); err != nil {
		return nil, err
	}
	return ToDeliveryResponse(delivery), nil
}

// RemoveItem removes a delivery line
func (s *DeliveryService) RemoveItem(ctx context.Context, actor identity.Actor, deliveryID, itemID uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := delivery.RemoveItem(actor, itemID); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.SaveWithLock(ctx, delivery); err != nil {
		return nil, err
	}
	return ToDeliveryResponse(delivery), nil
}

// SetTracking sets carrier and tracking number
func (s *DeliveryService) SetTracking(ctx context.Context, actor identity.Actor, deliveryID uuid.UUID, req SetTrackingRequest) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := delivery.SetTracking(actor, req.Carrier, req.TrackingNumber); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.SaveWithLock(ctx, delivery); err != nil {
		return nil, err
	}
	return ToDeliveryResponse(delivery), nil
}

// SetNotes sets the delivery notes
func (s *DeliveryService) SetNotes(ctx context.Context, actor identity.Actor, deliveryID uuid.UUID, req SetNotesRequest) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := delivery.SetNotes(actor, req.Notes); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.SaveWithLock(ctx, delivery); err != nil {
		return nil, err
	}
	return ToDeliveryResponse(delivery), nil
}

// Pick marks the delivery as picked
func (s *DeliveryService) Pick(ctx context.Context, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	return s.transition(ctx, deliveryID, func(d *fulfillment.Delivery) error {
		return d.Pick()
	})
}

// Ship marks the delivery as shipped
func (s *DeliveryService) Ship(ctx context.Context, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	return s.transition(ctx, deliveryID, func(d *fulfillment.Delivery) error {
		return d.Ship()
	})
}

// MarkDelivered marks the delivery as delivered with per-line quantities
func (s *DeliveryService) MarkDelivered(ctx context.Context, deliveryID uuid.UUID, req MarkDeliveredRequest) (*DeliveryResponse, error) {
	return s.transition(ctx, deliveryID, func(d *fulfillment.Delivery) error {
		return d.MarkDelivered(req.Quantities)
	})
}

// Cancel cancels the delivery. Cancellation never compensates stock: a
// cancelled delivery either never had its good issue approved, or the
// already-issued stock is reconciled through a manual adjustment.
func (s *DeliveryService) Cancel(ctx context.Context, actor identity.Actor, deliveryID uuid.UUID, req CancelRequest) (*DeliveryResponse, error) {
	return s.transition(ctx, deliveryID, func(d *fulfillment.Delivery) error {
		return d.Cancel(actor, req.Reason)
	})
}

func (s *DeliveryService) transition(ctx context.Context, deliveryID uuid.UUID, fn func(*fulfillment.Delivery) error) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := fn(delivery); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.SaveWithLock(ctx, delivery); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, delivery)

	return ToDeliveryResponse(delivery), nil
}

// Delete soft-deletes a delivery. Deleted deliveries stop counting toward
// every derived quantity. Only drafts may be deleted by ordinary roles;
// managers may delete any non-cancelled delivery.
func (s *DeliveryService) Delete(ctx context.Context, actor identity.Actor, deliveryID uuid.UUID) error {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return err
	}

	if !delivery.IsDraft() && !actor.IsManager() {
		return shared.NewAuthorizationError("Delivery", "delete a non-draft delivery", actor.PrimaryRole().String())
	}

	return s.deliveryRepo.Delete(ctx, deliveryID)
}

// GetEditPermissions reports the field-level mutability the actor has on
// the delivery in its current status
func (s *DeliveryService) GetEditPermissions(ctx context.Context, actor identity.Actor, deliveryID uuid.UUID) (*EditPermissionsResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	perms := fulfillment.DeliveryEditPermissions(delivery.Status, actor)
	return ToEditPermissionsResponse(delivery.Status.String(), perms), nil
}
