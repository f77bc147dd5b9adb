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

func warehouseActor() identity.Actor {
	return identity.NewActor(uuid.New(), "warehouse user", identity.RoleWarehouse)
}

func createTestGoodIssue(t *testing.T) *GoodIssue {
	issue, err := NewGoodIssue("GI-2026-001", uuid.New())
	require.NoError(t, err)
	return issue
}

func addTestIssueItem(t *testing.T, g *GoodIssue, planned, issued float64) *GoodIssueItem {
	item, err := g.AddItem(uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromFloat(planned), decimal.NewFromFloat(issued))
	require.NoError(t, err)
	return item
}

func TestIssueStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     IssueStatus
		to       IssueStatus
		canTrans bool
	}{
		{IssueStatusDraft, IssueStatusApproved, true},
		{IssueStatusDraft, IssueStatusRejected, true},
		{IssueStatusApproved, IssueStatusDraft, false},
		{IssueStatusApproved, IssueStatusRejected, false},
		{IssueStatusRejected, IssueStatusDraft, false},
		{IssueStatusRejected, IssueStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewGoodIssue(t *testing.T) {
	t.Run("creates issue in draft", func(t *testing.T) {
		deliveryID := uuid.New()
		issue, err := NewGoodIssue("GI-2026-001", deliveryID)
		require.NoError(t, err)

		assert.Equal(t, IssueStatusDraft, issue.Status)
		assert.Equal(t, deliveryID, issue.DeliveryID)
	})

	t.Run("rejects empty issue number", func(t *testing.T) {
		_, err := NewGoodIssue("", uuid.New())
		assert.Error(t, err)
	})
}

func TestGoodIssue_AddItem(t *testing.T) {
	t.Run("issued quantity defaults come from the caller and are capped", func(t *testing.T) {
		g := createTestGoodIssue(t)
		item := addTestIssueItem(t, g, 40, 40)
		assert.Equal(t, "40", item.IssuedQty.String())
	})

	t.Run("rejects issued above planned", func(t *testing.T) {
		g := createTestGoodIssue(t)
		_, err := g.AddItem(uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(10), decimal.NewFromInt(11))

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "issuedQty", verr.Field)
	})

	t.Run("rejects missing warehouse", func(t *testing.T) {
		g := createTestGoodIssue(t)
		_, err := g.AddItem(uuid.New(), uuid.New(), uuid.Nil,
			decimal.NewFromInt(10), decimal.NewFromInt(10))

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "warehouseId", verr.Field)
	})
}

func TestGoodIssue_UpdateItemIssuedQty(t *testing.T) {
	t.Run("warehouse user edits in draft", func(t *testing.T) {
		g := createTestGoodIssue(t)
		item := addTestIssueItem(t, g, 40, 40)

		require.NoError(t, g.UpdateItemIssuedQty(warehouseActor(), item.ID, decimal.NewFromInt(30)))
		assert.Equal(t, "30", g.GetItem(item.ID).IssuedQty.String())
	})

	t.Run("locked after approval for non-managers", func(t *testing.T) {
		g := createTestGoodIssue(t)
		item := addTestIssueItem(t, g, 40, 40)
		require.NoError(t, g.MarkApproved(uuid.New()))

		err := g.UpdateItemIssuedQty(warehouseActor(), item.ID, decimal.NewFromInt(30))
		var aerr *shared.AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("cap still enforced for managers", func(t *testing.T) {
		g := createTestGoodIssue(t)
		item := addTestIssueItem(t, g, 40, 40)
		require.NoError(t, g.MarkApproved(uuid.New()))

		err := g.UpdateItemIssuedQty(managerActor(), item.ID, decimal.NewFromInt(50))
		var verr *shared.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestGoodIssue_MarkApproved(t *testing.T) {
	t.Run("approves a draft with items", func(t *testing.T) {
		g := createTestGoodIssue(t)
		addTestIssueItem(t, g, 40, 40)
		approver := uuid.New()

		require.NoError(t, g.MarkApproved(approver))
		assert.Equal(t, IssueStatusApproved, g.Status)
		assert.Equal(t, approver, *g.ApprovedBy)
		assert.NotNil(t, g.ApprovedAt)
	})

	t.Run("rejects empty issue", func(t *testing.T) {
		g := createTestGoodIssue(t)
		assert.Error(t, g.MarkApproved(uuid.New()))
	})

	t.Run("rejects double approval", func(t *testing.T) {
		g := createTestGoodIssue(t)
		addTestIssueItem(t, g, 40, 40)
		require.NoError(t, g.MarkApproved(uuid.New()))

		err := g.MarkApproved(uuid.New())
		var terr *shared.StateTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "APPROVED", terr.From)
	})
}

func TestGoodIssue_Reject(t *testing.T) {
	t.Run("rejects a draft with a reason", func(t *testing.T) {
		g := createTestGoodIssue(t)
		actor := warehouseActor()

		require.NoError(t, g.Reject(actor, "quantities wrong"))
		assert.Equal(t, IssueStatusRejected, g.Status)
		assert.Equal(t, actor.UserID, *g.RejectedBy)
		assert.Equal(t, "quantities wrong", g.RejectionReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		g := createTestGoodIssue(t)
		assert.Error(t, g.Reject(warehouseActor(), ""))
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		g := createTestGoodIssue(t)
		require.NoError(t, g.Reject(warehouseActor(), "dup"))

		err := g.Reject(warehouseActor(), "again")
		var terr *shared.StateTransitionError
		assert.ErrorAs(t, err, &terr)
	})
}

func TestGoodIssue_Revoke(t *testing.T) {
	approved := func(t *testing.T) *GoodIssue {
		g := createTestGoodIssue(t)
		addTestIssueItem(t, g, 40, 40)
		require.NoError(t, g.MarkApproved(uuid.New()))
		return g
	}

	t.Run("manager revokes an approved issue", func(t *testing.T) {
		g := approved(t)
		require.NoError(t, g.Revoke(managerActor(), "approved in error"))
		assert.Equal(t, IssueStatusRejected, g.Status)
	})

	t.Run("non-manager cannot revoke", func(t *testing.T) {
		g := approved(t)
		err := g.Revoke(warehouseActor(), "approved in error")
		var aerr *shared.AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("only approved issues can be revoked", func(t *testing.T) {
		g := createTestGoodIssue(t)
		err := g.Revoke(managerActor(), "nope")
		var terr *shared.StateTransitionError
		assert.ErrorAs(t, err, &terr)
	})
}
