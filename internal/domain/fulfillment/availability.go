package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRequest is one (warehouse, product, quantity) entry to check
type StockRequest struct {
	Line         int             `json:"line"`
	WarehouseID  *uuid.UUID      `json:"warehouse_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
}

// StockShortfall reports a requested quantity exceeding known availability
type StockShortfall struct {
	Line        int             `json:"line"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
	Shortage    decimal.Decimal `json:"shortage"`
}

// StockAvailabilityValidator compares requested quantities against the
// warehouse stock oracle. The check is advisory: it warns the operator
// before submission, who may choose to proceed. It provides no correctness
// guarantee; only the atomic re-validation inside approval does.
type StockAvailabilityValidator struct {
	ledger *QuantityLedger
}

// NewStockAvailabilityValidator creates a new StockAvailabilityValidator
func NewStockAvailabilityValidator(ledger *QuantityLedger) *StockAvailabilityValidator {
	return &StockAvailabilityValidator{ledger: ledger}
}

// Check returns one shortfall record per entry whose requested quantity
// exceeds known availability. Entries with unknown availability are not
// reported as shortfalls.
func (v *StockAvailabilityValidator) Check(ctx context.Context, requests []StockRequest) ([]StockShortfall, error) {
	shortfalls := make([]StockShortfall, 0)
	for _, req := range requests {
		available, known, err := v.ledger.AvailableStock(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !known {
			continue
		}
		if req.RequestedQty.GreaterThan(available) {
			shortfalls = append(shortfalls, StockShortfall{
				Line:        req.Line,
				WarehouseID: *req.WarehouseID,
				ProductID:   req.ProductID,
				Required:    req.RequestedQty,
				Available:   available,
				Shortage:    req.RequestedQty.Sub(available),
			})
		}
	}
	return shortfalls, nil
}

// CheckGoodIssue builds the request list from a good issue's lines and
// runs the advisory check on it
func (v *StockAvailabilityValidator) CheckGoodIssue(ctx context.Context, issue *GoodIssue) ([]StockShortfall, error) {
	requests := make([]StockRequest, 0, len(issue.Items))
	for idx := range issue.Items {
		warehouseID := issue.Items[idx].WarehouseID
		requests = append(requests, StockRequest{
			Line:         idx,
			WarehouseID:  &warehouseID,
			ProductID:    issue.Items[idx].ProductID,
			RequestedQty: issue.Items[idx].IssuedQty,
		})
	}
	return v.Check(ctx, requests)
}
