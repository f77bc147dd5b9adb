package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// IssueStatus represents the status of a good issue
type IssueStatus string

const (
	IssueStatusDraft    IssueStatus = "DRAFT"
	IssueStatusApproved IssueStatus = "APPROVED"
	IssueStatusRejected IssueStatus = "REJECTED"
)

// IsValid checks if the status is a valid IssueStatus
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusDraft, IssueStatusApproved, IssueStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of IssueStatus
func (s IssueStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Approval is only reachable through submit-for-approval, the engine's single
// stock-debiting operation.
func (s IssueStatus) CanTransitionTo(target IssueStatus) bool {
	switch s {
	case IssueStatusDraft:
		return target == IssueStatusApproved || target == IssueStatusRejected
	case IssueStatusApproved, IssueStatusRejected:
		return false
	}
	return false
}

// GoodIssueItem represents a line item in a good issue. IssuedQty is the
// quantity actually debited from stock at approval; it defaults to the
// delivery line's planned quantity and may never exceed it.
type GoodIssueItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GoodIssueID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null"`
	PlannedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IssuedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (GoodIssueItem) TableName() string {
	return "good_issue_items"
}

// GoodIssue is the warehouse-side stock-debiting document realizing a
// delivery's planned quantities. Exactly one non-deleted good issue per
// delivery may ever reach APPROVED.
type GoodIssue struct {
	shared.BaseAggregateRoot
	IssueNumber     string          `gorm:"size:50;uniqueIndex"`
	DeliveryID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          IssueStatus     `gorm:"size:20;not null"`
	Items           []GoodIssueItem `gorm:"foreignKey:GoodIssueID;references:ID"`
	Notes           string          `gorm:"size:500"`
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"size:200"`
}

// TableName returns the table name for GORM
func (GoodIssue) TableName() string {
	return "good_issues"
}

// NewGoodIssue creates a new good issue in draft status
func NewGoodIssue(issueNumber string, deliveryID uuid.UUID) (*GoodIssue, error) {
	if issueNumber == "" {
		return nil, shared.NewDomainError("INVALID_ISSUE_NUMBER", "Issue number cannot be empty")
	}
	if deliveryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DELIVERY", "Delivery ID cannot be empty")
	}

	issue := &GoodIssue{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IssueNumber:       issueNumber,
		DeliveryID:        deliveryID,
		Status:            IssueStatusDraft,
		Items:             make([]GoodIssueItem, 0),
	}

	issue.AddDomainEvent(NewGoodIssueCreatedEvent(issue))

	return issue, nil
}

// AddItem adds a line item referencing a delivery item. The warehouse is
// inherited from the delivery line; each line may use a different one.
func (g *GoodIssue) AddItem(deliveryItemID, productID, warehouseID uuid.UUID, plannedQty, issuedQty decimal.Decimal) (*GoodIssueItem, error) {
	if g.Status != IssueStatusDraft {
		return nil, shared.NewStateTransitionError("GoodIssue", g.Status.String(), IssueStatusDraft.String())
	}
	if deliveryItemID == uuid.Nil {
		return nil, shared.NewValidationError("GoodIssue", len(g.Items), "deliveryItemId", "source delivery item is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("GoodIssue", len(g.Items), "warehouseId", "warehouse is required")
	}
	if issuedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("GoodIssue", len(g.Items), "issuedQty", "issued quantity must be positive")
	}
	if issuedQty.GreaterThan(plannedQty) {
		return nil, shared.NewValidationError("GoodIssue", len(g.Items), "issuedQty", "issued quantity cannot exceed planned quantity")
	}

	now := time.Now()
	item := GoodIssueItem{
		ID:             uuid.New(),
		GoodIssueID:    g.ID,
		DeliveryItemID: deliveryItemID,
		ProductID:      productID,
		WarehouseID:    warehouseID,
		PlannedQty:     plannedQty,
		IssuedQty:      issuedQty,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	g.Items = append(g.Items, item)
	g.UpdatedAt = now

	return &g.Items[len(g.Items)-1], nil
}

// UpdateItemIssuedQty changes the issued quantity of a line
func (g *GoodIssue) UpdateItemIssuedQty(actor identity.Actor, itemID uuid.UUID, quantity decimal.Decimal) error {
	perms := GoodIssueEditPermissions(g.Status, actor)
	if !perms.CanEditItems {
		return shared.NewAuthorizationError("GoodIssue", "edit items", actor.PrimaryRole().String())
	}

	for idx := range g.Items {
		if g.Items[idx].ID == itemID {
			if quantity.LessThanOrEqual(decimal.Zero) {
				return shared.NewValidationError("GoodIssue", idx, "issuedQty", "issued quantity must be positive")
			}
			if quantity.GreaterThan(g.Items[idx].PlannedQty) {
				return shared.NewValidationError("GoodIssue", idx, "issuedQty", "issued quantity cannot exceed planned quantity")
			}
			g.Items[idx].IssuedQty = quantity
			g.Items[idx].UpdatedAt = time.Now()
			g.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetNotes sets the issue notes
func (g *GoodIssue) SetNotes(actor identity.Actor, notes string) error {
	perms := GoodIssueEditPermissions(g.Status, actor)
	if !perms.CanEditNotes {
		return shared.NewAuthorizationError("GoodIssue", "edit notes", actor.PrimaryRole().String())
	}

	g.Notes = notes
	g.UpdatedAt = time.Now()
	return nil
}

// MarkApproved records the approval on the in-memory aggregate. The actual
// transition is committed by the store inside the atomic stock-debiting
// transaction; this method only validates and mirrors it.
func (g *GoodIssue) MarkApproved(approvedBy uuid.UUID) error {
	if !g.Status.CanTransitionTo(IssueStatusApproved) {
		return shared.NewStateTransitionError("GoodIssue", g.Status.String(), IssueStatusApproved.String())
	}
	if len(g.Items) == 0 {
		return shared.NewValidationError("GoodIssue", -1, "items", "cannot approve an issue without items")
	}

	now := time.Now()
	g.Status = IssueStatusApproved
	g.ApprovedAt = &now
	g.ApprovedBy = &approvedBy
	g.UpdatedAt = now

	g.AddDomainEvent(NewGoodIssueApprovedEvent(g))

	return nil
}

// Reject rejects the draft issue with a reason
func (g *GoodIssue) Reject(actor identity.Actor, reason string) error {
	if !g.Status.CanTransitionTo(IssueStatusRejected) {
		return shared.NewStateTransitionError("GoodIssue", g.Status.String(), IssueStatusRejected.String())
	}
	if reason == "" {
		return shared.NewValidationError("GoodIssue", -1, "reason", "rejection reason is required")
	}

	now := time.Now()
	g.Status = IssueStatusRejected
	g.RejectedAt = &now
	g.RejectedBy = &actor.UserID
	g.RejectionReason = reason
	g.UpdatedAt = now

	g.AddDomainEvent(NewGoodIssueRejectedEvent(g, reason))

	return nil
}

// Revoke moves an approved issue to rejected. Manager override only; the
// stock already debited is NOT compensated, a manual adjustment is the
// recovery path.
func (g *GoodIssue) Revoke(actor identity.Actor, reason string) error {
	if g.Status != IssueStatusApproved {
		return shared.NewStateTransitionError("GoodIssue", g.Status.String(), IssueStatusRejected.String())
	}
	if !actor.IsManager() {
		return shared.NewAuthorizationError("GoodIssue", "revoke an approved issue", actor.PrimaryRole().String())
	}
	if reason == "" {
		return shared.NewValidationError("GoodIssue", -1, "reason", "revocation reason is required")
	}

	now := time.Now()
	g.Status = IssueStatusRejected
	g.RejectedAt = &now
	g.RejectedBy = &actor.UserID
	g.RejectionReason = reason
	g.UpdatedAt = now

	g.AddDomainEvent(NewGoodIssueRejectedEvent(g, reason))

	return nil
}

// GetItem returns an item by its ID
func (g *GoodIssue) GetItem(itemID uuid.UUID) *GoodIssueItem {
	for idx := range g.Items {
		if g.Items[idx].ID == itemID {
			return &g.Items[idx]
		}
	}
	return nil
}

// IsDraft returns true if the issue is in draft status
func (g *GoodIssue) IsDraft() bool {
	return g.Status == IssueStatusDraft
}

// IsApproved returns true if the issue is approved
func (g *GoodIssue) IsApproved() bool {
	return g.Status == IssueStatusApproved
}
