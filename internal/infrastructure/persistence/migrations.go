package persistence

import (
	"gorm.io/gorm"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
)

// MigrationModels lists every table the engine owns, parents before children
func MigrationModels() []interface{} {
	return []interface{}{
		&fulfillment.SalesOrder{},
		&fulfillment.SalesOrderItem{},
		&fulfillment.Delivery{},
		&fulfillment.DeliveryItem{},
		&fulfillment.GoodIssue{},
		&fulfillment.GoodIssueItem{},
		&fulfillment.ReturnOrder{},
		&fulfillment.ReturnOrderItem{},
		&inventory.WarehouseStock{},
	}
}

// Migrate creates or updates the schema. Beyond AutoMigrate it adds a
// partial unique index so the database itself refuses a second approved
// good issue for the same delivery; the conditional approval update relies
// on it when two drafts of one delivery are approved concurrently. The
// syntax works on both postgres and sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(MigrationModels()...); err != nil {
		return err
	}
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_good_issues_one_approved_per_delivery ` +
			`ON good_issues (delivery_id) WHERE status = 'APPROVED' AND deleted_at IS NULL`,
	).Error
}
