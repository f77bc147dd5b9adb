package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfulfillment "github.com/locddhe176242/G174---MMS-sub001/internal/application/fulfillment"
)

// DeliveryHandler handles delivery-related API endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *appfulfillment.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *appfulfillment.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// Create creates a delivery from a confirmed sales order. Lines are
// seeded with the order's undelivered remainder.
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req appfulfillment.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, delivery)
}

// GetByID retrieves a delivery by its ID
func (h *DeliveryHandler) GetByID(c *gin.Context) {
	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	delivery, err := h.deliveryService.GetByID(c.Request.Context(), deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// List retrieves a paginated list of deliveries with optional filtering
func (h *DeliveryHandler) List(c *gin.Context) {
	var filter appfulfillment.DeliveryListFilter
	filter.Page = 1
	filter.PageSize = 20
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deliveries, total, err := h.deliveryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, deliveries, total, filter.Page, filter.PageSize)
}

// UpdateItem changes a delivery line's planned quantity or warehouse
func (h *DeliveryHandler) UpdateItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req appfulfillment.UpdateDeliveryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.UpdateItem(c.Request.Context(), actor, deliveryID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// RemoveItem removes a line from a draft delivery
func (h *DeliveryHandler) RemoveItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	delivery, err := h.deliveryService.RemoveItem(c.Request.Context(), actor, deliveryID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// SetTracking sets the carrier and tracking number
func (h *DeliveryHandler) SetTracking(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	var req appfulfillment.SetTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.SetTracking(c.Request.Context(), actor, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// SetNotes sets the delivery notes
func (h *DeliveryHandler) SetNotes(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	var req appfulfillment.SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.SetNotes(c.Request.Context(), actor, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// Pick marks the delivery as picked
func (h *DeliveryHandler) Pick(c *gin.Context) {
	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	delivery, err := h.deliveryService.Pick(c.Request.Context(), deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// Ship marks the delivery as shipped
func (h *DeliveryHandler) Ship(c *gin.Context) {
	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	delivery, err := h.deliveryService.Ship(c.Request.Context(), deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// MarkDelivered confirms delivery with optional per-line delivered quantities
func (h *DeliveryHandler) MarkDelivered(c *gin.Context) {
	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	var req appfulfillment.MarkDeliveredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.MarkDelivered(c.Request.Context(), deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// Cancel cancels the delivery with a reason
func (h *DeliveryHandler) Cancel(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	var req appfulfillment.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.Cancel(c.Request.Context(), actor, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// Delete soft-deletes a draft delivery
func (h *DeliveryHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), actor, deliveryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetEditPermissions reports the field-level mutability the current actor
// has on the delivery in its current status
func (h *DeliveryHandler) GetEditPermissions(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	perms, err := h.deliveryService.GetEditPermissions(c.Request.Context(), actor, deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, perms)
}
