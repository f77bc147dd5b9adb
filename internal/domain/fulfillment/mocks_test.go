package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// mockReturnOrderRepository is a mock of ReturnOrderRepository
type mockReturnOrderRepository struct {
	mock.Mock
}

func (m *mockReturnOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ReturnOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReturnOrder), args.Error(1)
}

func (m *mockReturnOrderRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]ReturnOrder, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReturnOrder), args.Error(1)
}

func (m *mockReturnOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ReturnOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReturnOrder), args.Error(1)
}

func (m *mockReturnOrderRepository) ReturnedQuantities(ctx context.Context, deliveryItemIDs []uuid.UUID, excludeReturnOrderID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, deliveryItemIDs, excludeReturnOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *mockReturnOrderRepository) Save(ctx context.Context, ro *ReturnOrder) error {
	args := m.Called(ctx, ro)
	return args.Error(0)
}

func (m *mockReturnOrderRepository) SaveWithLock(ctx context.Context, ro *ReturnOrder) error {
	args := m.Called(ctx, ro)
	return args.Error(0)
}

func (m *mockReturnOrderRepository) MarkApprovedIfDraft(ctx context.Context, returnOrderID, approvedBy uuid.UUID) error {
	args := m.Called(ctx, returnOrderID, approvedBy)
	return args.Error(0)
}

func (m *mockReturnOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReturnOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReturnOrderRepository) GenerateReturnNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// mockGoodIssueRepository is a mock of GoodIssueRepository
type mockGoodIssueRepository struct {
	mock.Mock
}

func (m *mockGoodIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*GoodIssue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GoodIssue), args.Error(1)
}

func (m *mockGoodIssueRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]GoodIssue, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]GoodIssue), args.Error(1)
}

func (m *mockGoodIssueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]GoodIssue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]GoodIssue), args.Error(1)
}

func (m *mockGoodIssueRepository) ExistsApprovedForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGoodIssueRepository) Save(ctx context.Context, issue *GoodIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *mockGoodIssueRepository) SaveWithLock(ctx context.Context, issue *GoodIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *mockGoodIssueRepository) MarkApprovedIfDraft(ctx context.Context, issueID, approvedBy uuid.UUID) error {
	args := m.Called(ctx, issueID, approvedBy)
	return args.Error(0)
}

func (m *mockGoodIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGoodIssueRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGoodIssueRepository) GenerateIssueNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// mockStockReader is a mock of inventory.WarehouseStockReader
type mockStockReader struct {
	mock.Mock
}

func (m *mockStockReader) AvailableQuantity(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, warehouseID, productID)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}
