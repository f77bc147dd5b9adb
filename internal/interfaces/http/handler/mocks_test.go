package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/inventory"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockSalesOrderReader implements fulfillment.SalesOrderReader for testing
type MockSalesOrderReader struct {
	mock.Mock
}

func (m *MockSalesOrderReader) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SalesOrder), args.Error(1)
}

// MockDeliveryRepository implements fulfillment.DeliveryRepository for testing
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) ([]fulfillment.Delivery, error) {
	args := m.Called(ctx, salesOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.Delivery, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) Save(ctx context.Context, delivery *fulfillment.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockDeliveryRepository) SaveWithLock(ctx context.Context, delivery *fulfillment.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockDeliveryRepository) AccrueReturnedQty(ctx context.Context, deliveryItemID uuid.UUID, qty decimal.Decimal) error {
	args := m.Called(ctx, deliveryItemID, qty)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeliveryRepository) GenerateDeliveryNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockGoodIssueRepository implements fulfillment.GoodIssueRepository for testing
type MockGoodIssueRepository struct {
	mock.Mock
}

func (m *MockGoodIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.GoodIssue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.GoodIssue), args.Error(1)
}

func (m *MockGoodIssueRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]fulfillment.GoodIssue, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.GoodIssue), args.Error(1)
}

func (m *MockGoodIssueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.GoodIssue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.GoodIssue), args.Error(1)
}

func (m *MockGoodIssueRepository) ExistsApprovedForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGoodIssueRepository) Save(ctx context.Context, issue *fulfillment.GoodIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockGoodIssueRepository) SaveWithLock(ctx context.Context, issue *fulfillment.GoodIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockGoodIssueRepository) MarkApprovedIfDraft(ctx context.Context, issueID, approvedBy uuid.UUID) error {
	args := m.Called(ctx, issueID, approvedBy)
	return args.Error(0)
}

func (m *MockGoodIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGoodIssueRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGoodIssueRepository) GenerateIssueNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockReturnOrderRepository implements fulfillment.ReturnOrderRepository for testing
type MockReturnOrderRepository struct {
	mock.Mock
}

func (m *MockReturnOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.ReturnOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.ReturnOrder), args.Error(1)
}

func (m *MockReturnOrderRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]fulfillment.ReturnOrder, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.ReturnOrder), args.Error(1)
}

func (m *MockReturnOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.ReturnOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.ReturnOrder), args.Error(1)
}

func (m *MockReturnOrderRepository) ReturnedQuantities(ctx context.Context, deliveryItemIDs []uuid.UUID, excludeReturnOrderID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, deliveryItemIDs, excludeReturnOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockReturnOrderRepository) Save(ctx context.Context, ro *fulfillment.ReturnOrder) error {
	args := m.Called(ctx, ro)
	return args.Error(0)
}

func (m *MockReturnOrderRepository) SaveWithLock(ctx context.Context, ro *fulfillment.ReturnOrder) error {
	args := m.Called(ctx, ro)
	return args.Error(0)
}

func (m *MockReturnOrderRepository) MarkApprovedIfDraft(ctx context.Context, returnOrderID, approvedBy uuid.UUID) error {
	args := m.Called(ctx, returnOrderID, approvedBy)
	return args.Error(0)
}

func (m *MockReturnOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReturnOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReturnOrderRepository) GenerateReturnNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockWarehouseStockRepository implements inventory.WarehouseStockRepository for testing
type MockWarehouseStockRepository struct {
	mock.Mock
}

func (m *MockWarehouseStockRepository) AvailableQuantity(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, warehouseID, productID)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockWarehouseStockRepository) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.WarehouseStock, error) {
	args := m.Called(ctx, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseStock), args.Error(1)
}

func (m *MockWarehouseStockRepository) Save(ctx context.Context, stock *inventory.WarehouseStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockWarehouseStockRepository) DecrementIfAvailable(ctx context.Context, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, warehouseID, productID, quantity)
	return args.Error(0)
}

func (m *MockWarehouseStockRepository) Increment(ctx context.Context, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, warehouseID, productID, quantity)
	return args.Error(0)
}
