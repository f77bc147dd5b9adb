package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// GoodIssueService handles good issue business operations. Approval is the
// engine's single stock-debiting operation and runs inside a transaction
// scope; everything else uses the plain repositories.
type GoodIssueService struct {
	issueRepo      fulfillment.GoodIssueRepository
	deliveryRepo   fulfillment.DeliveryRepository
	assembler      *fulfillment.DocumentAssembler
	validator      *fulfillment.StockAvailabilityValidator
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewGoodIssueService creates a new GoodIssueService
func NewGoodIssueService(
	issueRepo fulfillment.GoodIssueRepository,
	deliveryRepo fulfillment.DeliveryRepository,
	assembler *fulfillment.DocumentAssembler,
	validator *fulfillment.StockAvailabilityValidator,
	txScope TransactionScope,
) *GoodIssueService {
	return &GoodIssueService{
		issueRepo:    issueRepo,
		deliveryRepo: deliveryRepo,
		assembler:    assembler,
		validator:    validator,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *GoodIssueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoodIssueService) publishDomainEvents(ctx context.Context, issue *fulfillment.GoodIssue) {
	if s.eventPublisher == nil {
		return
	}
	events := issue.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	issue.ClearDomainEvents()
}

// Create assembles a new draft good issue from a picked delivery. Each
// delivery line becomes an issue line with issuedQty defaulted to the
// planned quantity and the warehouse inherited from the line.
func (s *GoodIssueService) Create(ctx context.Context, req CreateGoodIssueRequest) (*GoodIssueResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, req.DeliveryID)
	if err != nil {
		return nil, err
	}

	number, err := s.issueRepo.GenerateIssueNumber(ctx)
	if err != nil {
		return nil, err
	}

	issue, err := s.assembler.GoodIssueFromDelivery(ctx, delivery, number)
	if err != nil {
		return nil, err
	}

	if err := s.issueRepo.Save(ctx, issue); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, issue)

	return ToGoodIssueResponse(issue), nil
}

// GetByID retrieves a good issue by ID
func (s *GoodIssueService) GetByID(ctx context.Context, id uuid.UUID) (*GoodIssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToGoodIssueResponse(issue), nil
}

// List retrieves good issues with filtering and pagination
func (s *GoodIssueService) List(ctx context.Context, filter GoodIssueListFilter) ([]GoodIssueResponse, int64, error) {
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

	issues, err := s.issueRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.issueRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]GoodIssueResponse, 0, len(issues))
	for idx := range issues {
		responses = append(responses, *ToGoodIssueResponse(&issues[idx]))
	}
	return responses, total, nil
}

// UpdateItem changes a line's issued quantity, gated by the document's
// edit permissions
func (s *GoodIssueService) UpdateItem(ctx context.Context, actor identity.Actor, issueID, itemID uuid.UUID, req UpdateGoodIssueItemRequest) (*GoodIssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := issue.UpdateItemIssuedQty(actor, itemID, req.IssuedQty); err != nil {
		return nil, err
	}
	if err := s.issueRepo.SaveWithLock(ctx, issue); err != nil {
		return nil, err
	}
	return ToGoodIssueResponse(issue), nil
}

// SetNotes sets the issue notes
func (s *GoodIssueService) SetNotes(ctx context.Context, actor identity.Actor, issueID uuid.UUID, req SetNotesRequest) (*GoodIssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := issue.SetNotes(actor, req.Notes); err != nil {
		return nil, err
	}
	if err := s.issueRepo.SaveWithLock(ctx, issue); err != nil {
		return nil, err
	}
	return ToGoodIssueResponse(issue), nil
}

// CheckAvailability runs the advisory pre-submit availability check over the
// issue's lines. A shortfall report does not block submission; only the
// atomic re-validation inside approval is authoritative.
func (s *GoodIssueService) CheckAvailability(ctx context.Context, issueID uuid.UUID) (*AvailabilityCheckResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	shortfalls, err := s.validator.CheckGoodIssue(ctx, issue)
	if err != nil {
		return nil, err
	}
	return ToAvailabilityCheckResponse(shortfalls), nil
}

// SubmitForApproval approves the issue and debits stock in one transaction.
// Per line, a conditional decrement guards against going negative; the
// status flip is likewise conditional on the issue still being draft. If
// any step fails the whole transaction rolls back and nothing moved.
func (s *GoodIssueService) SubmitForApproval(ctx context.Context, actor identity.Actor, issueID uuid.UUID) (*GoodIssueResponse, error) {
	var approved *fulfillment.GoodIssue

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		issue, err := repos.GoodIssueRepo().FindByID(ctx, issueID)
		if err != nil {
			return err
		}

		// Validates draft status and non-empty lines before stock is touched
		if err := issue.MarkApproved(actor.UserID); err != nil {
			return err
		}

		exists, err := repos.GoodIssueRepo().ExistsApprovedForDelivery(ctx, issue.DeliveryID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("GoodIssue", "an approved good issue already exists for this delivery")
		}

		for idx := range issue.Items {
			item := &issue.Items[idx]
			if err := repos.StockRepo().DecrementIfAvailable(ctx, item.WarehouseID, item.ProductID, item.IssuedQty); err != nil {
				return err
			}
		}

		if err := repos.GoodIssueRepo().MarkApprovedIfDraft(ctx, issueID, actor.UserID); err != nil {
			return err
		}

		approved = issue
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, approved)

	return ToGoodIssueResponse(approved), nil
}

// Reject rejects a draft issue with a reason
func (s *GoodIssueService) Reject(ctx context.Context, actor identity.Actor, issueID uuid.UUID, req RejectRequest) (*GoodIssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := issue.Reject(actor, req.Reason); err != nil {
		return nil, err
	}
	if err := s.issueRepo.SaveWithLock(ctx, issue); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, issue)

	return ToGoodIssueResponse(issue), nil
}

// Revoke moves an approved issue to rejected. Manager only; the stock
// already debited is not compensated here.
func (s *GoodIssueService) Revoke(ctx context.Context, actor identity.Actor, issueID uuid.UUID, req RejectRequest) (*GoodIssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := issue.Revoke(actor, req.Reason); err != nil {
		return nil, err
	}
	if err := s.issueRepo.SaveWithLock(ctx, issue); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, issue)

	return ToGoodIssueResponse(issue), nil
}

// Delete soft-deletes a good issue. Approved issues cannot be deleted by
// ordinary roles because they already moved stock.
func (s *GoodIssueService) Delete(ctx context.Context, actor identity.Actor, issueID uuid.UUID) error {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return err
	}

	if issue.IsApproved() && !actor.IsManager() {
		return shared.NewAuthorizationError("GoodIssue", "delete an approved issue", actor.PrimaryRole().String())
	}

	return s.issueRepo.Delete(ctx, issueID)
}

// GetEditPermissions reports the field-level mutability the actor has on
// the issue in its current status
func (s *GoodIssueService) GetEditPermissions(ctx context.Context, actor identity.Actor, issueID uuid.UUID) (*EditPermissionsResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	perms := fulfillment.GoodIssueEditPermissions(issue.Status, actor)
	return ToEditPermissionsResponse(issue.Status.String(), perms), nil
}
