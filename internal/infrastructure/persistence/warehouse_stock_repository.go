package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
)

// GormWarehouseStockRepository implements WarehouseStockRepository using GORM
type GormWarehouseStockRepository struct {
	db *gorm.DB
}

// NewGormWarehouseStockRepository creates a new GormWarehouseStockRepository
func NewGormWarehouseStockRepository(db *gorm.DB) *GormWarehouseStockRepository {
	return &GormWarehouseStockRepository{db: db}
}

// AvailableQuantity returns the current quantity for a warehouse-product
// pair, or (zero, false) when no stock row exists. A missing row means
// availability is unknown, not zero.
func (r *GormWarehouseStockRepository) AvailableQuantity(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	var stock inventory.WarehouseStock
	err := r.db.WithContext(ctx).
		Select("quantity").
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return stock.Quantity, true, nil
}

// FindByWarehouseAndProduct finds the stock row for a pair
func (r *GormWarehouseStockRepository) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.WarehouseStock, error) {
	var stock inventory.WarehouseStock
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// Save creates or updates a stock row
func (r *GormWarehouseStockRepository) Save(ctx context.Context, stock *inventory.WarehouseStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// DecrementIfAvailable atomically deducts quantity with a conditional
// update guarding against going negative. The quantity >= ? condition in
// the WHERE clause is the whole point: when a concurrent approval already
// consumed the stock, zero rows match and the caller gets a ConflictError
// instead of a negative balance.
func (r *GormWarehouseStockRepository) DecrementIfAvailable(ctx context.Context, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&inventory.WarehouseStock{}).
		Where("warehouse_id = ? AND product_id = ? AND quantity >= ?", warehouseID, productID, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("WarehouseStock",
			"Insufficient stock for warehouse "+warehouseID.String()+" product "+productID.String())
	}
	return nil
}

// Increment atomically adds quantity, creating the row if absent
func (r *GormWarehouseStockRepository) Increment(ctx context.Context, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	stock, err := inventory.NewWarehouseStock(warehouseID, productID, quantity)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "warehouse_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("warehouse_stocks.quantity + EXCLUDED.quantity"),
				"version":    gorm.Expr("warehouse_stocks.version + 1"),
				"updated_at": time.Now(),
			}),
		}).
		Create(stock).Error
}

// Ensure GormWarehouseStockRepository implements WarehouseStockRepository
var _ inventory.WarehouseStockRepository = (*GormWarehouseStockRepository)(nil)
