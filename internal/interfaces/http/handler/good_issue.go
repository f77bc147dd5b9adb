package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfulfillment "github.com/locddhe176242/G174---MMS-sub001/internal/application/fulfillment"
)

// GoodIssueHandler handles good issue-related API endpoints
type GoodIssueHandler struct {
	BaseHandler
	issueService *appfulfillment.GoodIssueService
}

// NewGoodIssueHandler creates a new GoodIssueHandler
func NewGoodIssueHandler(issueService *appfulfillment.GoodIssueService) *GoodIssueHandler {
	return &GoodIssueHandler{
		issueService: issueService,
	}
}

// Create creates a good issue from a delivery. At most one non-rejected
// issue may exist per delivery.
func (h *GoodIssueHandler) Create(c *gin.Context) {
	var req appfulfillment.CreateGoodIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, issue)
}

// GetByID retrieves a good issue by its ID
func (h *GoodIssueHandler) GetByID(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	issue, err := h.issueService.GetByID(c.Request.Context(), issueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// List retrieves a paginated list of good issues with optional filtering
func (h *GoodIssueHandler) List(c *gin.Context) {
	var filter appfulfillment.GoodIssueListFilter
	filter.Page = 1
	filter.PageSize = 20
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issues, total, err := h.issueService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, issues, total, filter.Page, filter.PageSize)
}

// UpdateItem changes an issued quantity on a draft issue
func (h *GoodIssueHandler) UpdateItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req appfulfillment.UpdateGoodIssueItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.UpdateItem(c.Request.Context(), actor, issueID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// SetNotes sets the issue notes
func (h *GoodIssueHandler) SetNotes(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	var req appfulfillment.SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.SetNotes(c.Request.Context(), actor, issueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// CheckAvailability returns the advisory pre-submit stock report. It may
// be served from a stale snapshot; approval re-checks inside the
// transaction.
func (h *GoodIssueHandler) CheckAvailability(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	report, err := h.issueService.CheckAvailability(c.Request.Context(), issueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// SubmitForApproval approves the issue and atomically deducts stock
func (h *GoodIssueHandler) SubmitForApproval(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	issue, err := h.issueService.SubmitForApproval(c.Request.Context(), actor, issueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// Reject rejects a draft issue with a reason
func (h *GoodIssueHandler) Reject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	var req appfulfillment.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Reject(c.Request.Context(), actor, issueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// Revoke reverses an approved issue, restoring the deducted stock
func (h *GoodIssueHandler) Revoke(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	var req appfulfillment.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issue, err := h.issueService.Revoke(c.Request.Context(), actor, issueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, issue)
}

// Delete soft-deletes a draft issue
func (h *GoodIssueHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	if err := h.issueService.Delete(c.Request.Context(), actor, issueID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetEditPermissions reports the field-level mutability the current actor
// has on the issue in its current status
func (h *GoodIssueHandler) GetEditPermissions(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	issueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid issue ID format")
		return
	}

	perms, err := h.issueService.GetEditPermissions(c.Request.Context(), actor, issueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, perms)
}
