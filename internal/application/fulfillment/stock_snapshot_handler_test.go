package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/fulfillment"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invalidatedPair struct {
	warehouseID uuid.UUID
	productID   uuid.UUID
}

type recordingInvalidator struct {
	pairs []invalidatedPair
}

func (r *recordingInvalidator) Invalidate(_ context.Context, warehouseID, productID uuid.UUID) {
	r.pairs = append(r.pairs, invalidatedPair{warehouseID: warehouseID, productID: productID})
}

func TestStockSnapshotHandlerEventTypes(t *testing.T) {
	handler := NewStockSnapshotHandler(&recordingInvalidator{}, nil, zap.NewNop())

	assert.ElementsMatch(t, []string{
		fulfillment.EventTypeGoodIssueApproved,
		fulfillment.EventTypeGoodIssueRejected,
		fulfillment.EventTypeReturnOrderApproved,
	}, handler.EventTypes())
}

func TestStockSnapshotHandlerGoodIssueApproved(t *testing.T) {
	invalidator := &recordingInvalidator{}
	handler := NewStockSnapshotHandler(invalidator, nil, zap.NewNop())

	warehouseID := uuid.New()
	productID := uuid.New()
	event := &fulfillment.GoodIssueApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(fulfillment.EventTypeGoodIssueApproved, uuid.New(), fulfillment.AggregateTypeGoodIssue),
		Items: []fulfillment.IssuedItemInfo{
			{WarehouseID: warehouseID, ProductID: productID, IssuedQty: decimal.NewFromInt(5)},
		},
	}

	require.NoError(t, handler.Handle(context.Background(), event))
	require.Len(t, invalidator.pairs, 1)
	assert.Equal(t, warehouseID, invalidator.pairs[0].warehouseID)
	assert.Equal(t, productID, invalidator.pairs[0].productID)
}

func TestStockSnapshotHandlerReturnOrderApproved(t *testing.T) {
	invalidator := &recordingInvalidator{}
	handler := NewStockSnapshotHandler(invalidator, nil, zap.NewNop())

	warehouseID := uuid.New()
	event := &fulfillment.ReturnOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(fulfillment.EventTypeReturnOrderApproved, uuid.New(), fulfillment.AggregateTypeReturnOrder),
		Items: []fulfillment.ReturnedItemInfo{
			{WarehouseID: &warehouseID, ProductID: uuid.New(), ReturnedQty: decimal.NewFromInt(2)},
			{WarehouseID: nil, ProductID: uuid.New(), ReturnedQty: decimal.NewFromInt(1)},
		},
	}

	require.NoError(t, handler.Handle(context.Background(), event))
	// Lines without a warehouse never hit warehouse stock, so only the
	// first pair is invalidated.
	require.Len(t, invalidator.pairs, 1)
	assert.Equal(t, warehouseID, invalidator.pairs[0].warehouseID)
}

func TestStockSnapshotHandlerGoodIssueRejectedReloadsIssue(t *testing.T) {
	invalidator := &recordingInvalidator{}
	issueRepo := new(MockGoodIssueRepository)
	handler := NewStockSnapshotHandler(invalidator, issueRepo, zap.NewNop())

	issueID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()
	issueRepo.On("FindByID", mock.Anything, issueID).Return(&fulfillment.GoodIssue{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: issueID}},
		Items: []fulfillment.GoodIssueItem{
			{WarehouseID: warehouseID, ProductID: productID},
		},
	}, nil)

	event := &fulfillment.GoodIssueRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(fulfillment.EventTypeGoodIssueRejected, issueID, fulfillment.AggregateTypeGoodIssue),
		GoodIssueID:     issueID,
	}

	require.NoError(t, handler.Handle(context.Background(), event))
	require.Len(t, invalidator.pairs, 1)
	assert.Equal(t, warehouseID, invalidator.pairs[0].warehouseID)
	issueRepo.AssertExpectations(t)
}

func TestStockSnapshotHandlerGoodIssueRejectedLoadFailure(t *testing.T) {
	invalidator := &recordingInvalidator{}
	issueRepo := new(MockGoodIssueRepository)
	handler := NewStockSnapshotHandler(invalidator, issueRepo, zap.NewNop())

	issueID := uuid.New()
	issueRepo.On("FindByID", mock.Anything, issueID).Return(nil, errors.New("connection refused"))

	event := &fulfillment.GoodIssueRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(fulfillment.EventTypeGoodIssueRejected, issueID, fulfillment.AggregateTypeGoodIssue),
		GoodIssueID:     issueID,
	}

	assert.Error(t, handler.Handle(context.Background(), event))
	assert.Empty(t, invalidator.pairs)
}

func TestStockSnapshotHandlerIgnoresOtherEvents(t *testing.T) {
	invalidator := &recordingInvalidator{}
	handler := NewStockSnapshotHandler(invalidator, nil, zap.NewNop())

	event := shared.NewBaseDomainEvent(fulfillment.EventTypeDeliveryCreated, uuid.New(), fulfillment.AggregateTypeDelivery)

	require.NoError(t, handler.Handle(context.Background(), &event))
	assert.Empty(t, invalidator.pairs)
}
