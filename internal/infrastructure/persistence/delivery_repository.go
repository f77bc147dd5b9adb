package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery with its items
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Delivery, error) {
	var delivery fulfillment.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&delivery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindBySalesOrder finds all active deliveries for a sales order
func (r *GormDeliveryRepository) FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]fulfillment.Delivery, error) {
	var deliveries []fulfillment.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sales_order_id = ?", salesOrderID).
		Order("created_at ASC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindAll finds deliveries with filtering and pagination
func (r *GormDeliveryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.Delivery, error) {
	var deliveries []fulfillment.Delivery
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.Delivery{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save creates or updates a delivery and its items
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *fulfillment.Delivery) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(delivery).Error; err != nil {
			return err
		}
		return saveDeliveryItems(tx, delivery)
	})
}

// SaveWithLock saves with optimistic locking: the update matches on the
// version the aggregate was loaded with and writes version+1. Zero matched
// rows means another writer got there first.
func (r *GormDeliveryRepository) SaveWithLock(ctx context.Context, delivery *fulfillment.Delivery) error {
	loadedVersion := delivery.Version
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&fulfillment.Delivery{}).
			Where("id = ? AND version = ?", delivery.ID, loadedVersion).
			Updates(map[string]interface{}{
				"status":          delivery.Status,
				"carrier":         delivery.Carrier,
				"tracking_number": delivery.TrackingNumber,
				"notes":           delivery.Notes,
				"picked_at":       delivery.PickedAt,
				"shipped_at":      delivery.ShippedAt,
				"delivered_at":    delivery.DeliveredAt,
				"cancelled_at":    delivery.CancelledAt,
				"cancel_reason":   delivery.CancelReason,
				"version":         loadedVersion + 1,
				"updated_at":      delivery.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("Delivery", "The delivery was modified by another user")
		}

		if err := saveDeliveryItems(tx, delivery); err != nil {
			return err
		}
		delivery.Version = loadedVersion + 1
		return nil
	})
}

// saveDeliveryItems reconciles the item rows with the aggregate's items:
// removed lines are deleted, current lines are upserted.
func saveDeliveryItems(tx *gorm.DB, delivery *fulfillment.Delivery) error {
	currentItemIDs := make([]uuid.UUID, len(delivery.Items))
	for i, item := range delivery.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("delivery_id = ? AND id NOT IN ?", delivery.ID, currentItemIDs).
			Delete(&fulfillment.DeliveryItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("delivery_id = ?", delivery.ID).
			Delete(&fulfillment.DeliveryItem{}).Error; err != nil {
			return err
		}
	}

	for i := range delivery.Items {
		if err := tx.Save(&delivery.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// AccrueReturnedQty adds qty to a delivery line's returned counter with a
// conditional update, the same defence DecrementIfAvailable uses for stock:
// the row only matches while the accrued total still fits in the delivered
// quantity, so concurrent approvals against the same line serialize on the
// row and the loser gets zero matched rows.
func (r *GormDeliveryRepository) AccrueReturnedQty(ctx context.Context, deliveryItemID uuid.UUID, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Delivery", -1, "returnedQty", "accrued quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&fulfillment.DeliveryItem{}).
		Where("id = ? AND returned_qty + ? <= delivered_qty", deliveryItemID, qty).
		Updates(map[string]interface{}{
			"returned_qty": gorm.Expr("returned_qty + ?", qty),
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("Delivery", "returned quantity would exceed the delivered quantity")
	}
	return nil
}

// Delete soft-deletes a delivery
func (r *GormDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fulfillment.Delivery{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts deliveries matching the filter
func (r *GormDeliveryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&fulfillment.Delivery{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateDeliveryNumber generates a unique delivery number.
// Format: DO-YYYY-NNNNN (e.g., DO-2026-00001)
func (r *GormDeliveryRepository) GenerateDeliveryNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("DO-%d-", time.Now().Year())
	return nextDocumentNumber(r.db.WithContext(ctx), &fulfillment.Delivery{}, "delivery_number", prefix)
}

// applyFilter applies filter options to the query
func (r *GormDeliveryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DeliverySortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDeliveryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("delivery_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "sales_order_id":
			query = query.Where("sales_order_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// nextDocumentNumber derives the next sequential number for a yearly
// prefixed document series, e.g. DO-2026-00007.
func nextDocumentNumber(db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	var lastNumber string
	err := db.Model(model).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		parts := strings.Split(lastNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Ensure GormDeliveryRepository implements DeliveryRepository
var _ fulfillment.DeliveryRepository = (*GormDeliveryRepository)(nil)
