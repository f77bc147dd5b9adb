package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
)

// DeliveryResponse represents a delivery in API responses
type DeliveryResponse struct {
	ID             uuid.UUID              `json:"id"`
	DeliveryNumber string                 `json:"delivery_number"`
	SalesOrderID   uuid.UUID              `json:"sales_order_id"`
	Status         string                 `json:"status"`
	Items          []DeliveryItemResponse `json:"items"`
	Carrier        string                 `json:"carrier,omitempty"`
	TrackingNumber string                 `json:"tracking_number,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	PickedAt       *time.Time             `json:"picked_at,omitempty"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// DeliveryItemResponse represents a delivery line in API responses
type DeliveryItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	SalesOrderItemID uuid.UUID       `json:"sales_order_item_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	WarehouseID      *uuid.UUID      `json:"warehouse_id,omitempty"`
	PlannedQty       decimal.Decimal `json:"planned_qty"`
	DeliveredQty     decimal.Decimal `json:"delivered_qty"`
}

// CreateDeliveryRequest represents a request to create a delivery from a sales order
type CreateDeliveryRequest struct {
	SalesOrderID uuid.UUID `json:"sales_order_id" binding:"required"`
}

// UpdateDeliveryItemRequest represents a request to change a delivery line
type UpdateDeliveryItemRequest struct {
	PlannedQty  *decimal.Decimal `json:"planned_qty"`
	WarehouseID *uuid.UUID       `json:"warehouse_id"`
}

// SetTrackingRequest represents a request to set carrier and tracking number
type SetTrackingRequest struct {
	Carrier        string `json:"carrier" binding:"required,max=100"`
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
}

// SetNotesRequest represents a request to set document notes
type SetNotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// MarkDeliveredRequest represents a request to confirm delivery with
// per-line delivered quantities. Lines absent from Quantities receive
// their planned quantity.
type MarkDeliveredRequest struct {
	Quantities map[uuid.UUID]decimal.Decimal `json:"quantities"`
}

// CancelRequest represents a request to cancel a document with a reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

// DeliveryListFilter represents filter options for the delivery list
type DeliveryListFilter struct {
	Search       string     `form:"search"`
	SalesOrderID *uuid.UUID `form:"sales_order_id"`
	Status       string     `form:"status" binding:"omitempty,oneof=DRAFT PICKED SHIPPED DELIVERED CANCELLED"`
	Page         int        `form:"page" binding:"min=1"`
	PageSize     int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// GoodIssueResponse represents a good issue in API responses
type GoodIssueResponse struct {
	ID              uuid.UUID               `json:"id"`
	IssueNumber     string                  `json:"issue_number"`
	DeliveryID      uuid.UUID               `json:"delivery_id"`
	Status          string                  `json:"status"`
	Items           []GoodIssueItemResponse `json:"items"`
	Notes           string                  `json:"notes,omitempty"`
	ApprovedAt      *time.Time              `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID              `json:"approved_by,omitempty"`
	RejectedAt      *time.Time              `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID              `json:"rejected_by,omitempty"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Version         int                     `json:"version"`
}

// GoodIssueItemResponse represents a good issue line in API responses
type GoodIssueItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	DeliveryItemID uuid.UUID       `json:"delivery_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	PlannedQty     decimal.Decimal `json:"planned_qty"`
	IssuedQty      decimal.Decimal `json:"issued_qty"`
}

// CreateGoodIssueRequest represents a request to create a good issue from a delivery
type CreateGoodIssueRequest struct {
	DeliveryID uuid.UUID `json:"delivery_id" binding:"required"`
}

// UpdateGoodIssueItemRequest represents a request to change an issued quantity
type UpdateGoodIssueItemRequest struct {
	IssuedQty decimal.Decimal `json:"issued_qty" binding:"required"`
}

// RejectRequest represents a request to reject a document with a reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

// GoodIssueListFilter represents filter options for the good issue list
type GoodIssueListFilter struct {
	Search     string     `form:"search"`
	DeliveryID *uuid.UUID `form:"delivery_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED REJECTED"`
	Page       int        `form:"page" binding:"min=1"`
	PageSize   int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockShortfallResponse is one advisory availability warning line
type StockShortfallResponse struct {
	Line        int             `json:"line"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
	Shortage    decimal.Decimal `json:"shortage"`
}

// AvailabilityCheckResponse is the advisory pre-submit availability report.
// Sufficient is false when at least one line has a known shortfall; lines
// with unknown availability never appear.
type AvailabilityCheckResponse struct {
	Sufficient bool                     `json:"sufficient"`
	Shortfalls []StockShortfallResponse `json:"shortfalls"`
}

// ReturnOrderResponse represents a return order in API responses
type ReturnOrderResponse struct {
	ID           uuid.UUID                 `json:"id"`
	ReturnNumber string                    `json:"return_number"`
	DeliveryID   uuid.UUID                 `json:"delivery_id"`
	Status       string                    `json:"status"`
	Items        []ReturnOrderItemResponse `json:"items"`
	Reason       string                    `json:"reason,omitempty"`
	ApprovedAt   *time.Time                `json:"approved_at,omitempty"`
	ApprovedBy   *uuid.UUID                `json:"approved_by,omitempty"`
	RejectedAt   *time.Time                `json:"rejected_at,omitempty"`
	RejectedBy   *uuid.UUID                `json:"rejected_by,omitempty"`
	CancelledAt  *time.Time                `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	Version      int                       `json:"version"`
}

// ReturnOrderItemResponse represents a return order line in API responses
type ReturnOrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	DeliveryItemID uuid.UUID       `json:"delivery_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    *uuid.UUID      `json:"warehouse_id,omitempty"`
	ReturnedQty    decimal.Decimal `json:"returned_qty"`
	ReturnableQty  decimal.Decimal `json:"returnable_qty"`
}

// CreateReturnOrderRequest represents a request to create a return order from a delivery
type CreateReturnOrderRequest struct {
	DeliveryID uuid.UUID `json:"delivery_id" binding:"required"`
}

// UpdateReturnOrderItemRequest represents a request to change a returned quantity
type UpdateReturnOrderItemRequest struct {
	ReturnedQty decimal.Decimal `json:"returned_qty" binding:"required"`
}

// SetReasonRequest represents a request to set the return reason
type SetReasonRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ReturnOrderListFilter represents filter options for the return order list
type ReturnOrderListFilter struct {
	Search     string     `form:"search"`
	DeliveryID *uuid.UUID `form:"delivery_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED REJECTED CANCELLED"`
	Page       int        `form:"page" binding:"min=1"`
	PageSize   int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EditPermissionsResponse reports the field-level mutability the current
// actor has on a document in its current status
type EditPermissionsResponse struct {
	Status          string `json:"status"`
	CanEditHeader   bool   `json:"can_edit_header"`
	CanEditItems    bool   `json:"can_edit_items"`
	CanEditNotes    bool   `json:"can_edit_notes"`
	CanEditTracking bool   `json:"can_edit_tracking"`
}

// ToDeliveryResponse converts a domain delivery to its response DTO
func ToDeliveryResponse(d *fulfillment.Delivery) *DeliveryResponse {
	items := make([]DeliveryItemResponse, 0, len(d.Items))
	for idx := range d.Items {
		items = append(items, ToDeliveryItemResponse(&d.Items[idx]))
	}

	return &DeliveryResponse{
		ID:             d.ID,
		DeliveryNumber: d.DeliveryNumber,
		SalesOrderID:   d.SalesOrderID,
		Status:         d.Status.String(),
		Items:          items,
		Carrier:        d.Carrier,
		TrackingNumber: d.TrackingNumber,
		Notes:          d.Notes,
		PickedAt:       d.PickedAt,
		ShippedAt:      d.ShippedAt,
		DeliveredAt:    d.DeliveredAt,
		CancelledAt:    d.CancelledAt,
		CancelReason:   d.CancelReason,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.Version,
	}
}

// ToDeliveryItemResponse converts a domain delivery item to its response DTO
func ToDeliveryItemResponse(item *fulfillment.DeliveryItem) DeliveryItemResponse {
	return DeliveryItemResponse{
		ID:               item.ID,
		SalesOrderItemID: item.SalesOrderItemID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		WarehouseID:      item.WarehouseID,
		PlannedQty:       item.PlannedQty,
		DeliveredQty:     item.DeliveredQty,
	}
}

// ToGoodIssueResponse converts a domain good issue to its response DTO
func ToGoodIssueResponse(g *fulfillment.GoodIssue) *GoodIssueResponse {
	items := make([]GoodIssueItemResponse, 0, len(g.Items))
	for idx := range g.Items {
		item := &g.Items[idx]
		items = append(items, GoodIssueItemResponse{
			ID:             item.ID,
			DeliveryItemID: item.DeliveryItemID,
			ProductID:      item.ProductID,
			WarehouseID:    item.WarehouseID,
			PlannedQty:     item.PlannedQty,
			IssuedQty:      item.IssuedQty,
		})
	}

	return &GoodIssueResponse{
		ID:              g.ID,
		IssueNumber:     g.IssueNumber,
		DeliveryID:      g.DeliveryID,
		Status:          g.Status.String(),
		Items:           items,
		Notes:           g.Notes,
		ApprovedAt:      g.ApprovedAt,
		ApprovedBy:      g.ApprovedBy,
		RejectedAt:      g.RejectedAt,
		RejectedBy:      g.RejectedBy,
		RejectionReason: g.RejectionReason,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		Version:         g.Version,
	}
}

// ToReturnOrderResponse converts a domain return order to its response DTO
func ToReturnOrderResponse(ro *fulfillment.ReturnOrder) *ReturnOrderResponse {
	items := make([]ReturnOrderItemResponse, 0, len(ro.Items))
	for idx := range ro.Items {
		item := &ro.Items[idx]
		items = append(items, ReturnOrderItemResponse{
			ID:             item.ID,
			DeliveryItemID: item.DeliveryItemID,
			ProductID:      item.ProductID,
			WarehouseID:    item.WarehouseID,
			ReturnedQty:    item.ReturnedQty,
			ReturnableQty:  item.ReturnableQty,
		})
	}

	return &ReturnOrderResponse{
		ID:           ro.ID,
		ReturnNumber: ro.ReturnNumber,
		DeliveryID:   ro.DeliveryID,
		Status:       ro.Status.String(),
		Items:        items,
		Reason:       ro.Reason,
		ApprovedAt:   ro.ApprovedAt,
		ApprovedBy:   ro.ApprovedBy,
		RejectedAt:   ro.RejectedAt,
		RejectedBy:   ro.RejectedBy,
		CancelledAt:  ro.CancelledAt,
		CreatedAt:    ro.CreatedAt,
		UpdatedAt:    ro.UpdatedAt,
		Version:      ro.Version,
	}
}

// ToAvailabilityCheckResponse converts shortfalls to the advisory report DTO
func ToAvailabilityCheckResponse(shortfalls []fulfillment.StockShortfall) *AvailabilityCheckResponse {
	out := make([]StockShortfallResponse, 0, len(shortfalls))
	for _, sf := range shortfalls {
		out = append(out, StockShortfallResponse{
			Line:        sf.Line,
			WarehouseID: sf.WarehouseID,
			ProductID:   sf.ProductID,
			Required:    sf.Required,
			Available:   sf.Available,
			Shortage:    sf.Shortage,
		})
	}
	return &AvailabilityCheckResponse{
		Sufficient: len(out) == 0,
		Shortfalls: out,
	}
}

// ToEditPermissionsResponse converts domain edit permissions to the response DTO
func ToEditPermissionsResponse(status string, perms fulfillment.EditPermissions) *EditPermissionsResponse {
	return &EditPermissionsResponse{
		Status:          status,
		CanEditHeader:   perms.CanEditHeader,
		CanEditItems:    perms.CanEditItems,
		CanEditNotes:    perms.CanEditNotes,
		CanEditTracking: perms.CanEditTracking,
	}
}
