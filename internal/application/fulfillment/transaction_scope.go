package fulfillment

import (
	"context"

	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories touched
// by document approval. When a function is executed within a transaction
// scope, all repository operations are part of the same database transaction
// and commit or roll back atomically.
//
// Approval is the only path that needs this: the stock mutation and the
// status flip must land together or not at all. Everything else goes through
// the plain repositories.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the approval-path repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// DeliveryRepo returns the delivery repository scoped to the current transaction
	DeliveryRepo() fulfillment.DeliveryRepository
	// GoodIssueRepo returns the good issue repository scoped to the current transaction
	GoodIssueRepo() fulfillment.GoodIssueRepository
	// ReturnOrderRepo returns the return order repository scoped to the current transaction
	ReturnOrderRepo() fulfillment.ReturnOrderRepository
	// StockRepo returns the warehouse stock repository scoped to the current transaction
	StockRepo() inventory.WarehouseStockRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	deliveryRepo fulfillment.DeliveryRepository
	issueRepo    fulfillment.GoodIssueRepository
	returnRepo   fulfillment.ReturnOrderRepository
	stockRepo    inventory.WarehouseStockRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	deliveryRepo fulfillment.DeliveryRepository,
	issueRepo fulfillment.GoodIssueRepository,
	returnRepo fulfillment.ReturnOrderRepository,
	stockRepo inventory.WarehouseStockRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		deliveryRepo: deliveryRepo,
		issueRepo:    issueRepo,
		returnRepo:   returnRepo,
		stockRepo:    stockRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DeliveryRepo returns the delivery repository.
func (s *NoOpTransactionScope) DeliveryRepo() fulfillment.DeliveryRepository {
	return s.deliveryRepo
}

// GoodIssueRepo returns the good issue repository.
func (s *NoOpTransactionScope) GoodIssueRepo() fulfillment.GoodIssueRepository {
	return s.issueRepo
}

// ReturnOrderRepo returns the return order repository.
func (s *NoOpTransactionScope) ReturnOrderRepo() fulfillment.ReturnOrderRepository {
	return s.returnRepo
}

// StockRepo returns the warehouse stock repository.
func (s *NoOpTransactionScope) StockRepo() inventory.WarehouseStockRepository {
	return s.stockRepo
}
