package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// GormReturnOrderRepository implements ReturnOrderRepository using GORM
type GormReturnOrderRepository struct {
	db *gorm.DB
}

// NewGormReturnOrderRepository creates a new GormReturnOrderRepository
func NewGormReturnOrderRepository(db *gorm.DB) *GormReturnOrderRepository {
	return &GormReturnOrderRepository{db: db}
}

// FindByID finds a return order with its items
func (r *GormReturnOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.ReturnOrder, error) {
	var ro fulfillment.ReturnOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ro, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ro, nil
}

// FindByDelivery finds all active return orders for a delivery
func (r *GormReturnOrderRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]fulfillment.ReturnOrder, error) {
	var ros []fulfillment.ReturnOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_id = ?", deliveryID).
		Order("created_at ASC").
		Find(&ros).Error; err != nil {
		return nil, err
	}
	return ros, nil
}

// FindAll finds return orders with filtering and pagination
func (r *GormReturnOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.ReturnOrder, error) {
	var ros []fulfillment.ReturnOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.ReturnOrder{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&ros).Error; err != nil {
		return nil, err
	}
	return ros, nil
}

// ReturnedQuantities sums returnedQty per delivery item across approved,
// non-deleted return orders, excluding the given return order when set.
// Delivery items with no approved returns are absent from the result.
func (r *GormReturnOrderRepository) ReturnedQuantities(ctx context.Context, deliveryItemIDs []uuid.UUID, excludeReturnOrderID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal, len(deliveryItemIDs))
	if len(deliveryItemIDs) == 0 {
		return totals, nil
	}

	query := r.db.WithContext(ctx).
		Table("return_order_items").
		Select("return_order_items.delivery_item_id, COALESCE(SUM(return_order_items.returned_qty), 0) AS total").
		Joins("JOIN return_orders ON return_orders.id = return_order_items.return_order_id").
		Where("return_order_items.delivery_item_id IN ?", deliveryItemIDs).
		Where("return_orders.status = ?", fulfillment.ReturnStatusApproved).
		Where("return_orders.deleted_at IS NULL").
		Group("return_order_items.delivery_item_id")

	if excludeReturnOrderID != nil {
		query = query.Where("return_orders.id <> ?", *excludeReturnOrderID)
	}

	var rows []struct {
		DeliveryItemID uuid.UUID
		Total          decimal.Decimal
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		totals[row.DeliveryItemID] = row.Total
	}
	return totals, nil
}

// Save creates or updates a return order and its items
func (r *GormReturnOrderRepository) Save(ctx context.Context, ro *fulfillment.ReturnOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ro).Error; err != nil {
			return err
		}
		return saveReturnOrderItems(tx, ro)
	})
}

// SaveWithLock saves with optimistic locking: the update matches on the
// version the aggregate was loaded with and writes version+1
func (r *GormReturnOrderRepository) SaveWithLock(ctx context.Context, ro *fulfillment.ReturnOrder) error {
	loadedVersion := ro.Version
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&fulfillment.ReturnOrder{}).
			Where("id = ? AND version = ?", ro.ID, loadedVersion).
			Updates(map[string]interface{}{
				"status":       ro.Status,
				"reason":       ro.Reason,
				"approved_at":  ro.ApprovedAt,
				"approved_by":  ro.ApprovedBy,
				"rejected_at":  ro.RejectedAt,
				"rejected_by":  ro.RejectedBy,
				"cancelled_at": ro.CancelledAt,
				"version":      loadedVersion + 1,
				"updated_at":   ro.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("ReturnOrder", "The return order was modified by another user")
		}

		if err := saveReturnOrderItems(tx, ro); err != nil {
			return err
		}
		ro.Version = loadedVersion + 1
		return nil
	})
}

// saveReturnOrderItems reconciles the item rows with the aggregate's items
func saveReturnOrderItems(tx *gorm.DB, ro *fulfillment.ReturnOrder) error {
	currentItemIDs := make([]uuid.UUID, len(ro.Items))
	for i, item := range ro.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("return_order_id = ? AND id NOT IN ?", ro.ID, currentItemIDs).
			Delete(&fulfillment.ReturnOrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("return_order_id = ?", ro.ID).
			Delete(&fulfillment.ReturnOrderItem{}).Error; err != nil {
			return err
		}
	}

	for i := range ro.Items {
		if err := tx.Save(&ro.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// MarkApprovedIfDraft flips the status to APPROVED with a conditional
// update on the current status
func (r *GormReturnOrderRepository) MarkApprovedIfDraft(ctx context.Context, returnOrderID, approvedBy uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&fulfillment.ReturnOrder{}).
		Where("id = ? AND status = ?", returnOrderID, fulfillment.ReturnStatusDraft).
		Updates(map[string]interface{}{
			"status":      fulfillment.ReturnStatusApproved,
			"approved_at": now,
			"approved_by": approvedBy,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current fulfillment.ReturnOrder
		if err := r.db.WithContext(ctx).
			Select("status").
			First(&current, "id = ?", returnOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		return shared.NewStateTransitionError("ReturnOrder",
			current.Status.String(), fulfillment.ReturnStatusApproved.String())
	}
	return nil
}

// Delete soft-deletes a return order
func (r *GormReturnOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fulfillment.ReturnOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts return orders matching the filter
func (r *GormReturnOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&fulfillment.ReturnOrder{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReturnNumber generates a unique return number.
// Format: RO-YYYY-NNNNN (e.g., RO-2026-00001)
func (r *GormReturnOrderRepository) GenerateReturnNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("RO-%d-", time.Now().Year())
	return nextDocumentNumber(r.db.WithContext(ctx), &fulfillment.ReturnOrder{}, "return_number", prefix)
}

// applyFilter applies filter options to the query
func (r *GormReturnOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReturnOrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReturnOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ?", searchPattern)
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

// Ensure GormReturnOrderRepository implements ReturnOrderRepository
var _ fulfillment.ReturnOrderRepository = (*GormReturnOrderRepository)(nil)
