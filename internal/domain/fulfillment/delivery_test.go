package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func salesActor() identity.Actor {
	return identity.NewActor(uuid.New(), "sales user", identity.RoleSales)
}

func managerActor() identity.Actor {
	return identity.NewActor(uuid.New(), "manager user", identity.RoleManager)
}

func createTestDelivery(t *testing.T) *Delivery {
	delivery, err := NewDelivery("DO-2026-001", uuid.New())
	require.NoError(t, err)
	return delivery
}

func addTestDeliveryItem(t *testing.T, d *Delivery, qty float64) *DeliveryItem {
	warehouseID := uuid.New()
	item, err := d.AddItem(uuid.New(), uuid.New(), "Test Product", &warehouseID, decimal.NewFromFloat(qty))
	require.NoError(t, err)
	return item
}

func TestDeliveryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     DeliveryStatus
		to       DeliveryStatus
		canTrans bool
	}{
		// From DRAFT
		{DeliveryStatusDraft, DeliveryStatusPicked, true},
		{DeliveryStatusDraft, DeliveryStatusCancelled, true},
		{DeliveryStatusDraft, DeliveryStatusShipped, false},
		{DeliveryStatusDraft, DeliveryStatusDelivered, false},
		// From PICKED
		{DeliveryStatusPicked, DeliveryStatusShipped, true},
		{DeliveryStatusPicked, DeliveryStatusCancelled, true},
		{DeliveryStatusPicked, DeliveryStatusDelivered, false},
		{DeliveryStatusPicked, DeliveryStatusDraft, false},
		// From SHIPPED
		{DeliveryStatusShipped, DeliveryStatusDelivered, true},
		{DeliveryStatusShipped, DeliveryStatusCancelled, true},
		{DeliveryStatusShipped, DeliveryStatusPicked, false},
		// From DELIVERED (cancel only via manager override, not in the table)
		{DeliveryStatusDelivered, DeliveryStatusCancelled, false},
		{DeliveryStatusDelivered, DeliveryStatusDraft, false},
		// From CANCELLED (terminal)
		{DeliveryStatusCancelled, DeliveryStatusDraft, false},
		{DeliveryStatusCancelled, DeliveryStatusPicked, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewDelivery(t *testing.T) {
	t.Run("creates delivery with valid inputs", func(t *testing.T) {
		orderID := uuid.New()
		delivery, err := NewDelivery("DO-2026-001", orderID)
		require.NoError(t, err)

		assert.Equal(t, "DO-2026-001", delivery.DeliveryNumber)
		assert.Equal(t, orderID, delivery.SalesOrderID)
		assert.Equal(t, DeliveryStatusDraft, delivery.Status)
		assert.Empty(t, delivery.Items)
		assert.Len(t, delivery.GetDomainEvents(), 1)
	})

	t.Run("rejects empty delivery number", func(t *testing.T) {
		_, err := NewDelivery("", uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects nil sales order", func(t *testing.T) {
		_, err := NewDelivery("DO-2026-001", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestDelivery_AddItem(t *testing.T) {
	t.Run("adds item in draft", func(t *testing.T) {
		d := createTestDelivery(t)
		item := addTestDeliveryItem(t, d, 40)

		assert.Equal(t, decimal.NewFromInt(40).String(), item.PlannedQty.String())
		assert.True(t, item.DeliveredQty.IsZero())
		assert.Len(t, d.Items, 1)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		d := createTestDelivery(t)
		_, err := d.AddItem(uuid.New(), uuid.New(), "p", nil, decimal.Zero)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "plannedQty", verr.Field)
	})

	t.Run("rejects adding after draft", func(t *testing.T) {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 10)
		require.NoError(t, d.Pick())

		_, err := d.AddItem(uuid.New(), uuid.New(), "p", nil, decimal.NewFromInt(1))
		var terr *shared.StateTransitionError
		assert.ErrorAs(t, err, &terr)
	})
}

func TestDelivery_Pick(t *testing.T) {
	t.Run("picks a draft delivery", func(t *testing.T) {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 10)

		require.NoError(t, d.Pick())
		assert.Equal(t, DeliveryStatusPicked, d.Status)
		assert.NotNil(t, d.PickedAt)
	})

	t.Run("requires at least one item", func(t *testing.T) {
		d := createTestDelivery(t)
		assert.Error(t, d.Pick())
	})

	t.Run("requires warehouse on every line", func(t *testing.T) {
		d := createTestDelivery(t)
		_, err := d.AddItem(uuid.New(), uuid.New(), "p", nil, decimal.NewFromInt(5))
		require.NoError(t, err)

		err = d.Pick()
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "warehouseId", verr.Field)
		assert.Equal(t, DeliveryStatusDraft, d.Status)
	})

	t.Run("rejects picking twice", func(t *testing.T) {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 10)
		require.NoError(t, d.Pick())

		err := d.Pick()
		var terr *shared.StateTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "PICKED", terr.From)
	})
}

func TestDelivery_MarkDelivered(t *testing.T) {
	prepareShipped := func(t *testing.T, qty float64) (*Delivery, *DeliveryItem) {
		d := createTestDelivery(t)
		item := addTestDeliveryItem(t, d, qty)
		require.NoError(t, d.Pick())
		require.NoError(t, d.Ship())
		return d, item
	}

	t.Run("defaults delivered quantity to planned", func(t *testing.T) {
		d, item := prepareShipped(t, 40)

		require.NoError(t, d.MarkDelivered(nil))
		assert.Equal(t, DeliveryStatusDelivered, d.Status)
		assert.Equal(t, item.PlannedQty.String(), d.Items[0].DeliveredQty.String())
	})

	t.Run("accepts partial delivered quantity", func(t *testing.T) {
		d, item := prepareShipped(t, 40)

		err := d.MarkDelivered(map[uuid.UUID]decimal.Decimal{item.ID: decimal.NewFromInt(25)})
		require.NoError(t, err)
		assert.Equal(t, "25", d.Items[0].DeliveredQty.String())
	})

	t.Run("rejects delivered quantity above planned", func(t *testing.T) {
		d, item := prepareShipped(t, 40)

		err := d.MarkDelivered(map[uuid.UUID]decimal.Decimal{item.ID: decimal.NewFromInt(41)})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, verr.Line)
		assert.Equal(t, DeliveryStatusShipped, d.Status)
	})

	t.Run("rejects delivering from draft", func(t *testing.T) {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 10)

		err := d.MarkDelivered(nil)
		var terr *shared.StateTransitionError
		assert.ErrorAs(t, err, &terr)
	})
}

func TestDelivery_Cancel(t *testing.T) {
	t.Run("cancels draft for any role", func(t *testing.T) {
		d := createTestDelivery(t)
		require.NoError(t, d.Cancel(salesActor(), "customer withdrew"))
		assert.Equal(t, DeliveryStatusCancelled, d.Status)
		assert.Equal(t, "customer withdrew", d.CancelReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		d := createTestDelivery(t)
		assert.Error(t, d.Cancel(salesActor(), ""))
	})

	t.Run("delivered requires manager override", func(t *testing.T) {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 10)
		require.NoError(t, d.Pick())
		require.NoError(t, d.Ship())
		require.NoError(t, d.MarkDelivered(nil))

		err := d.Cancel(salesActor(), "wrong address")
		var aerr *shared.AuthorizationError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, DeliveryStatusDelivered, d.Status)

		require.NoError(t, d.Cancel(managerActor(), "wrong address"))
		assert.Equal(t, DeliveryStatusCancelled, d.Status)
	})

	t.Run("cancelled is terminal even for manager", func(t *testing.T) {
		d := createTestDelivery(t)
		require.NoError(t, d.Cancel(managerActor(), "dup"))

		err := d.Cancel(managerActor(), "again")
		var terr *shared.StateTransitionError
		assert.ErrorAs(t, err, &terr)
	})
}

func TestDelivery_EditGating(t *testing.T) {
	t.Run("sales edits items only in draft", func(t *testing.T) {
		d := createTestDelivery(t)
		item := addTestDeliveryItem(t, d, 10)

		require.NoError(t, d.UpdateItemPlannedQty(salesActor(), item.ID, decimal.NewFromInt(8)))

		require.NoError(t, d.Pick())
		err := d.UpdateItemPlannedQty(salesActor(), item.ID, decimal.NewFromInt(6))
		var aerr *shared.AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("manager edits items after picking", func(t *testing.T) {
		d := createTestDelivery(t)
		item := addTestDeliveryItem(t, d, 10)
		require.NoError(t, d.Pick())

		require.NoError(t, d.UpdateItemPlannedQty(managerActor(), item.ID, decimal.NewFromInt(6)))
		assert.Equal(t, "6", d.GetItem(item.ID).PlannedQty.String())
	})

	t.Run("tracking editable through picked for ordinary roles", func(t *testing.T) {
		d := createTestDelivery(t)
		addTestDeliveryItem(t, d, 10)
		require.NoError(t, d.Pick())

		require.NoError(t, d.SetTracking(salesActor(), "DHL", "TRK-1"))
		assert.Equal(t, "DHL", d.Carrier)

		require.NoError(t, d.Ship())
		err := d.SetTracking(salesActor(), "UPS", "TRK-2")
		var aerr *shared.AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})
}
