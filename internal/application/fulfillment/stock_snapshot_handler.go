package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// StockSnapshotInvalidator drops cached stock snapshots for a
// warehouse/product pair after stock has moved
type StockSnapshotInvalidator interface {
	Invalidate(ctx context.Context, warehouseID, productID uuid.UUID)
}

// StockSnapshotHandler invalidates cached stock snapshots when an
// approval or revocation changes warehouse stock. Advisory availability
// checks served between the stock movement and the invalidation may see
// stale quantities, which the transactional re-check compensates for.
type StockSnapshotHandler struct {
	invalidator StockSnapshotInvalidator
	issueRepo   fulfillment.GoodIssueRepository
	logger      *zap.Logger
}

// NewStockSnapshotHandler creates a new StockSnapshotHandler
func NewStockSnapshotHandler(invalidator StockSnapshotInvalidator, issueRepo fulfillment.GoodIssueRepository, logger *zap.Logger) *StockSnapshotHandler {
	return &StockSnapshotHandler{
		invalidator: invalidator,
		issueRepo:   issueRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *StockSnapshotHandler) EventTypes() []string {
	return []string{
		fulfillment.EventTypeGoodIssueApproved,
		fulfillment.EventTypeGoodIssueRejected,
		fulfillment.EventTypeReturnOrderApproved,
	}
}

// Handle processes a stock-affecting domain event
func (h *StockSnapshotHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *fulfillment.GoodIssueApprovedEvent:
		for _, item := range e.Items {
			h.invalidator.Invalidate(ctx, item.WarehouseID, item.ProductID)
		}
	case *fulfillment.GoodIssueRejectedEvent:
		// A revoked issue restores stock. The rejection event carries no
		// line detail, so the issue is reloaded to find affected pairs.
		return h.invalidateFromIssue(ctx, e.GoodIssueID)
	case *fulfillment.ReturnOrderApprovedEvent:
		for _, item := range e.Items {
			if item.WarehouseID == nil {
				continue
			}
			h.invalidator.Invalidate(ctx, *item.WarehouseID, item.ProductID)
		}
	default:
		h.logger.Debug("ignoring event without stock impact",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

func (h *StockSnapshotHandler) invalidateFromIssue(ctx context.Context, issueID uuid.UUID) error {
	issue, err := h.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return err
	}
	for _, item := range issue.Items {
		h.invalidator.Invalidate(ctx, item.WarehouseID, item.ProductID)
	}
	return nil
}

var _ shared.EventHandler = (*StockSnapshotHandler)(nil)
