package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySnapshotStore_SetAndGet(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	err := store.Set(ctx, warehouseID, productID, decimal.NewFromInt(80), time.Minute)
	require.NoError(t, err)

	qty, hit, err := store.Get(ctx, warehouseID, productID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, qty.Equal(decimal.NewFromInt(80)))
}

func TestInMemorySnapshotStore_Miss(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()

	qty, hit, err := store.Get(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, qty.IsZero())
}

func TestInMemorySnapshotStore_ExpiredEntryIsMiss(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	err := store.Set(ctx, warehouseID, productID, decimal.NewFromInt(5), 1*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, hit, err := store.Get(ctx, warehouseID, productID)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemorySnapshotStore_Overwrite(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	require.NoError(t, store.Set(ctx, warehouseID, productID, decimal.NewFromInt(10), time.Minute))
	require.NoError(t, store.Set(ctx, warehouseID, productID, decimal.NewFromInt(7), time.Minute))

	qty, hit, err := store.Get(ctx, warehouseID, productID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, qty.Equal(decimal.NewFromInt(7)))
}

func TestInMemorySnapshotStore_Invalidate(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	require.NoError(t, store.Set(ctx, warehouseID, productID, decimal.NewFromInt(10), time.Minute))
	require.NoError(t, store.Invalidate(ctx, warehouseID, productID))

	_, hit, err := store.Get(ctx, warehouseID, productID)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemorySnapshotStore_InvalidateMissingIsNoOp(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	err := store.Invalidate(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
}

func TestInMemorySnapshotStore_PairsAreIndependent(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()
	warehouseID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	require.NoError(t, store.Set(ctx, warehouseID, productA, decimal.NewFromInt(3), time.Minute))

	_, hit, err := store.Get(ctx, warehouseID, productB)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemorySnapshotStore_CleanupRemovesExpired(t *testing.T) {
	store := NewInMemorySnapshotStore()
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(1), 1*time.Millisecond))
	require.NoError(t, store.Set(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(2), time.Hour))

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.size())
}

func TestInMemorySnapshotStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemorySnapshotStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
