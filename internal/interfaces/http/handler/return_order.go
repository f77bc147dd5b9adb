package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfulfillment "github.com/locddhe176242/G174---MMS-sub001/internal/application/fulfillment"
)

// ReturnOrderHandler handles return order-related API endpoints
type ReturnOrderHandler struct {
	BaseHandler
	returnService *appfulfillment.ReturnOrderService
}

// NewReturnOrderHandler creates a new ReturnOrderHandler
func NewReturnOrderHandler(returnService *appfulfillment.ReturnOrderService) *ReturnOrderHandler {
	return &ReturnOrderHandler{
		returnService: returnService,
	}
}

// Create creates a return order against a delivered delivery. Returned
// quantities are capped by what the delivery actually shipped, less any
// prior non-cancelled returns.
func (h *ReturnOrderHandler) Create(c *gin.Context) {
	var req appfulfillment.CreateReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ro, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ro)
}

// GetByID retrieves a return order by its ID
func (h *ReturnOrderHandler) GetByID(c *gin.Context) {
	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	ro, err := h.returnService.GetByID(c.Request.Context(), returnOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ro)
}

// List retrieves a paginated list of return orders with optional filtering
func (h *ReturnOrderHandler) List(c *gin.Context) {
	var filter appfulfillment.ReturnOrderListFilter
	filter.Page = 1
	filter.PageSize = 20
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	returns, total, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, returns, total, filter.Page, filter.PageSize)
}

// UpdateItem changes a returned quantity on a requested return order
func (h *ReturnOrderHandler) UpdateItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req appfulfillment.UpdateReturnOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ro, err := h.returnService.UpdateItem(c.Request.Context(), actor, returnOrderID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ro)
}

// SetReason sets the return reason
func (h *ReturnOrderHandler) SetReason(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	var req appfulfillment.SetReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ro, err := h.returnService.SetReason(c.Request.Context(), actor, returnOrderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ro)
}

// Approve accepts the return and atomically restocks the returned
// quantities into warehouse stock
func (h *ReturnOrderHandler) Approve(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	ro, err := h.returnService.Approve(c.Request.Context(), actor, returnOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ro)
}

// Reject declines a requested return order
func (h *ReturnOrderHandler) Reject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	ro, err := h.returnService.Reject(c.Request.Context(), actor, returnOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ro)
}

// Cancel cancels a requested return order before any decision is made
func (h *ReturnOrderHandler) Cancel(c *gin.Context) {
	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	ro, err := h.returnService.Cancel(c.Request.Context(), returnOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ro)
}

// Delete soft-deletes a requested return order
func (h *ReturnOrderHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), actor, returnOrderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetEditPermissions reports the field-level mutability the current actor
// has on the return order in its current status
func (h *ReturnOrderHandler) GetEditPermissions(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return order ID format")
		return
	}

	perms, err := h.returnService.GetEditPermissions(c.Request.Context(), actor, returnOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, perms)
}
