package fulfillment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(returns *mockReturnOrderRepository, issues *mockGoodIssueRepository) *DocumentAssembler {
	return NewDocumentAssembler(NewQuantityLedger(returns, new(mockStockReader)), issues)
}

func TestDocumentAssembler_DeliveryFromSalesOrder(t *testing.T) {
	assembler := newTestAssembler(new(mockReturnOrderRepository), new(mockGoodIssueRepository))

	t.Run("copies remaining quantities into planned", func(t *testing.T) {
		warehouseID := uuid.New()
		order := &SalesOrder{
			ID:          uuid.New(),
			OrderNumber: "SO-2026-001",
			Status:      SalesOrderStatusConfirmed,
			Items: []SalesOrderItem{
				{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Widget", WarehouseID: &warehouseID,
					OrderedQty: decimal.NewFromInt(100), DeliveredQty: decimal.NewFromInt(60)},
				{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Gadget",
					OrderedQty: decimal.NewFromInt(50), DeliveredQty: decimal.Zero},
			},
		}

		delivery, err := assembler.DeliveryFromSalesOrder(order, "DO-2026-001")
		require.NoError(t, err)

		require.Len(t, delivery.Items, 2)
		assert.Equal(t, "40", delivery.Items[0].PlannedQty.String())
		assert.True(t, delivery.Items[0].DeliveredQty.IsZero())
		assert.Equal(t, &warehouseID, delivery.Items[0].WarehouseID)
		assert.Equal(t, "50", delivery.Items[1].PlannedQty.String())
		assert.Nil(t, delivery.Items[1].WarehouseID)
	})

	t.Run("skips fully delivered items", func(t *testing.T) {
		order := &SalesOrder{
			ID: uuid.New(),
			Items: []SalesOrderItem{
				{ID: uuid.New(), ProductID: uuid.New(), OrderedQty: decimal.NewFromInt(10), DeliveredQty: decimal.NewFromInt(10)},
				{ID: uuid.New(), ProductID: uuid.New(), OrderedQty: decimal.NewFromInt(10), DeliveredQty: decimal.NewFromInt(4)},
			},
		}

		delivery, err := assembler.DeliveryFromSalesOrder(order, "DO-2026-002")
		require.NoError(t, err)
		require.Len(t, delivery.Items, 1)
		assert.Equal(t, "6", delivery.Items[0].PlannedQty.String())
	})

	t.Run("refuses a fully delivered order", func(t *testing.T) {
		order := &SalesOrder{
			ID: uuid.New(),
			Items: []SalesOrderItem{
				{ID: uuid.New(), OrderedQty: decimal.NewFromInt(10), DeliveredQty: decimal.NewFromInt(10)},
			},
		}

		_, err := assembler.DeliveryFromSalesOrder(order, "DO-2026-003")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NOTHING_TO_DELIVER", derr.Code)
	})

	t.Run("surfaces ledger corruption", func(t *testing.T) {
		order := &SalesOrder{
			ID: uuid.New(),
			Items: []SalesOrderItem{
				{ID: uuid.New(), OrderedQty: decimal.NewFromInt(10), DeliveredQty: decimal.NewFromInt(12)},
			},
		}

		_, err := assembler.DeliveryFromSalesOrder(order, "DO-2026-004")
		assert.ErrorIs(t, err, shared.ErrLedgerCorrupted)
	})
}

func TestDocumentAssembler_GoodIssueFromDelivery(t *testing.T) {
	ctx := context.Background()

	pickedDelivery := func(t *testing.T) *Delivery {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 40)
		require.NoError(t, d.Pick())
		return d
	}

	t.Run("inherits warehouse and defaults issued to planned", func(t *testing.T) {
		issues := new(mockGoodIssueRepository)
		assembler := newTestAssembler(new(mockReturnOrderRepository), issues)
		d := pickedDelivery(t)

		issues.On("ExistsApprovedForDelivery", ctx, d.ID).Return(false, nil)

		issue, err := assembler.GoodIssueFromDelivery(ctx, d, "GI-2026-001")
		require.NoError(t, err)

		require.Len(t, issue.Items, 1)
		assert.Equal(t, d.Items[0].ID, issue.Items[0].DeliveryItemID)
		assert.Equal(t, *d.Items[0].WarehouseID, issue.Items[0].WarehouseID)
		assert.Equal(t, "40", issue.Items[0].IssuedQty.String())
	})

	t.Run("refuses a draft delivery", func(t *testing.T) {
		assembler := newTestAssembler(new(mockReturnOrderRepository), new(mockGoodIssueRepository))
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 40)

		_, err := assembler.GoodIssueFromDelivery(ctx, d, "GI-2026-002")
		var terr *shared.StateTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "DRAFT", terr.From)
		assert.Equal(t, "PICKED", terr.To)
	})

	t.Run("refuses a second issue once one is approved", func(t *testing.T) {
		issues := new(mockGoodIssueRepository)
		assembler := newTestAssembler(new(mockReturnOrderRepository), issues)
		d := pickedDelivery(t)

		issues.On("ExistsApprovedForDelivery", ctx, d.ID).Return(true, nil)

		_, err := assembler.GoodIssueFromDelivery(ctx, d, "GI-2026-003")
		var cerr *shared.ConflictError
		assert.ErrorAs(t, err, &cerr)
	})
}

func TestDocumentAssembler_ReturnOrderFromDelivery(t *testing.T) {
	ctx := context.Background()

	deliveredDelivery := func(t *testing.T, qty float64) *Delivery {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, qty)
		require.NoError(t, d.Pick())
		require.NoError(t, d.Ship())
		require.NoError(t, d.MarkDelivered(nil))
		return d
	}

	t.Run("caps lines at delivered minus already returned", func(t *testing.T) {
		returns := new(mockReturnOrderRepository)
		assembler := newTestAssembler(returns, new(mockGoodIssueRepository))
		d := deliveredDelivery(t, 40)

		returns.On("ReturnedQuantities", ctx, mock.Anything, (*uuid.UUID)(nil)).
			Return(map[uuid.UUID]decimal.Decimal{d.Items[0].ID: decimal.NewFromInt(15)}, nil)

		ro, err := assembler.ReturnOrderFromDelivery(ctx, d, "RO-2026-001")
		require.NoError(t, err)

		require.Len(t, ro.Items, 1)
		assert.Equal(t, "25", ro.Items[0].ReturnableQty.String())
		assert.Equal(t, "25", ro.Items[0].ReturnedQty.String())
	})

	t.Run("skips fully returned lines", func(t *testing.T) {
		returns := new(mockReturnOrderRepository)
		assembler := newTestAssembler(returns, new(mockGoodIssueRepository))
		d := deliveredDelivery(t, 40)

		returns.On("ReturnedQuantities", ctx, mock.Anything, (*uuid.UUID)(nil)).
			Return(map[uuid.UUID]decimal.Decimal{d.Items[0].ID: decimal.NewFromInt(40)}, nil)

		_, err := assembler.ReturnOrderFromDelivery(ctx, d, "RO-2026-002")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NOTHING_TO_RETURN", derr.Code)
	})

	t.Run("refuses a delivery that is not delivered", func(t *testing.T) {
		assembler := newTestAssembler(new(mockReturnOrderRepository), new(mockGoodIssueRepository))
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 40)
		require.NoError(t, d.Pick())

		_, err := assembler.ReturnOrderFromDelivery(ctx, d, "RO-2026-003")
		var terr *shared.StateTransitionError
		assert.ErrorAs(t, err, &terr)
	})

	t.Run("over-returned line is corruption", func(t *testing.T) {
		returns := new(mockReturnOrderRepository)
		assembler := newTestAssembler(returns, new(mockGoodIssueRepository))
		d := deliveredDelivery(t, 10)

		returns.On("ReturnedQuantities", ctx, mock.Anything, (*uuid.UUID)(nil)).
			Return(map[uuid.UUID]decimal.Decimal{d.Items[0].ID: decimal.NewFromInt(11)}, nil)

		_, err := assembler.ReturnOrderFromDelivery(ctx, d, "RO-2026-004")
		assert.ErrorIs(t, err, shared.ErrLedgerCorrupted)
	})
}
