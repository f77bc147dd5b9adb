package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// GormGoodIssueRepository implements GoodIssueRepository using GORM
type GormGoodIssueRepository struct {
	db *gorm.DB
}

// NewGormGoodIssueRepository creates a new GormGoodIssueRepository
func NewGormGoodIssueRepository(db *gorm.DB) *GormGoodIssueRepository {
	return &GormGoodIssueRepository{db: db}
}

// FindByID finds a good issue with its items
func (r *GormGoodIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.GoodIssue, error) {
	var issue fulfillment.GoodIssue
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&issue, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// FindByDelivery finds all active good issues for a delivery
func (r *GormGoodIssueRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]fulfillment.GoodIssue, error) {
	var issues []fulfillment.GoodIssue
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_id = ?", deliveryID).
		Order("created_at ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// FindAll finds good issues with filtering and pagination
func (r *GormGoodIssueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.GoodIssue, error) {
	var issues []fulfillment.GoodIssue
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.GoodIssue{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// ExistsApprovedForDelivery reports whether a non-deleted approved good
// issue exists for the delivery. Soft-deleted rows are excluded by the
// GORM soft delete scope.
func (r *GormGoodIssueRepository) ExistsApprovedForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&fulfillment.GoodIssue{}).
		Where("delivery_id = ? AND status = ?", deliveryID, fulfillment.IssueStatusApproved).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a good issue and its items
func (r *GormGoodIssueRepository) Save(ctx context.Context, issue *fulfillment.GoodIssue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(issue).Error; err != nil {
			return err
		}
		return saveGoodIssueItems(tx, issue)
	})
}

// SaveWithLock saves with optimistic locking: the update matches on the
// version the aggregate was loaded with and writes version+1
func (r *GormGoodIssueRepository) SaveWithLock(ctx context.Context, issue *fulfillment.GoodIssue) error {
	loadedVersion := issue.Version
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&fulfillment.GoodIssue{}).
			Where("id = ? AND version = ?", issue.ID, loadedVersion).
			Updates(map[string]interface{}{
				"status":           issue.Status,
				"notes":            issue.Notes,
				"approved_at":      issue.ApprovedAt,
				"approved_by":      issue.ApprovedBy,
				"rejected_at":      issue.RejectedAt,
				"rejected_by":      issue.RejectedBy,
				"rejection_reason": issue.RejectionReason,
				"version":          loadedVersion + 1,
				"updated_at":       issue.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("GoodIssue", "The good issue was modified by another user")
		}

		if err := saveGoodIssueItems(tx, issue); err != nil {
			return err
		}
		issue.Version = loadedVersion + 1
		return nil
	})
}

// saveGoodIssueItems reconciles the item rows with the aggregate's items
func saveGoodIssueItems(tx *gorm.DB, issue *fulfillment.GoodIssue) error {
	currentItemIDs := make([]uuid.UUID, len(issue.Items))
	for i, item := range issue.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("good_issue_id = ? AND id NOT IN ?", issue.ID, currentItemIDs).
			Delete(&fulfillment.GoodIssueItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("good_issue_id = ?", issue.ID).
			Delete(&fulfillment.GoodIssueItem{}).Error; err != nil {
			return err
		}
	}

	for i := range issue.Items {
		if err := tx.Save(&issue.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// MarkApprovedIfDraft flips the status to APPROVED with a conditional
// update on the current status. The condition is what makes approval safe
/// under concurrency: two approvals racing on the same draft cannot both
// see DRAFT at commit time. The correlated NOT EXISTS clause enforces the
// one-approved-issue-per-delivery invariant in the same statement; the
// partial unique index created by Migrate backs it for approvals racing on
// different drafts of the same delivery.
func (r *GormGoodIssueRepository) MarkApprovedIfDraft(ctx context.Context, issueID, approvedBy uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&fulfillment.GoodIssue{}).
		Where("id = ? AND status = ?", issueID, fulfillment.IssueStatusDraft).
		Where("NOT EXISTS (SELECT 1 FROM good_issues approved WHERE approved.delivery_id = good_issues.delivery_id AND approved.status = ? AND approved.deleted_at IS NULL)",
			fulfillment.IssueStatusApproved).
		Updates(map[string]interface{}{
			"status":      fulfillment.IssueStatusApproved,
			"approved_at": now,
			"approved_by": approvedBy,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current fulfillment.GoodIssue
		if err := r.db.WithContext(ctx).
			Select("status").
			First(&current, "id = ?", issueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if current.Status == fulfillment.IssueStatusDraft {
			return shared.NewConflictError("GoodIssue", "an approved good issue already exists for this delivery")
		}
		return shared.NewStateTransitionError("GoodIssue",
			current.Status.String(), fulfillment.IssueStatusApproved.String())
	}
	return nil
}

// Delete soft-deletes a good issue
func (r *GormGoodIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fulfillment.GoodIssue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts good issues matching the filter
func (r *GormGoodIssueRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&fulfillment.GoodIssue{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateIssueNumber generates a unique issue number.
// Format: GI-YYYY-NNNNN (e.g., GI-2026-00001)
func (r *GormGoodIssueRepository) GenerateIssueNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("GI-%d-", time.Now().Year())
	return nextDocumentNumber(r.db.WithContext(ctx), &fulfillment.GoodIssue{}, "issue_number", prefix)
}

// applyFilter applies filter options to the query
func (r *GormGoodIssueRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, GoodIssueSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormGoodIssueRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("issue_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "delivery_id":
			query = query.Where("delivery_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormGoodIssueRepository implements GoodIssueRepository
var _ fulfillment.GoodIssueRepository = (*GormGoodIssueRepository)(nil)
