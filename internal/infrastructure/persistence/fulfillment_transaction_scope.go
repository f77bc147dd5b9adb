package persistence

import (
	"context"

	"gorm.io/gorm"

	appfulfillment "github.com/locddhe176242/G174---MMS-sub001/internal/application/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Good issue and return order approvals run their document flip and their
// stock movement through a single scope so both commit or neither does.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// DeliveryRepo returns the delivery repository scoped to the current transaction
func (r *gormTransactionalRepositories) DeliveryRepo() fulfillment.DeliveryRepository {
	return NewGormDeliveryRepository(r.tx)
}

// GoodIssueRepo returns the good issue repository scoped to the current transaction
func (r *gormTransactionalRepositories) GoodIssueRepo() fulfillment.GoodIssueRepository {
	return NewGormGoodIssueRepository(r.tx)
}

// ReturnOrderRepo returns the return order repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReturnOrderRepo() fulfillment.ReturnOrderRepository {
	return NewGormReturnOrderRepository(r.tx)
}

// StockRepo returns the warehouse stock repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() inventory.WarehouseStockRepository {
	return NewGormWarehouseStockRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appfulfillment.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appfulfillment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
