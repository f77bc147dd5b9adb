package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// snapshotEntry represents a stored quantity with expiration
type snapshotEntry struct {
	qty       decimal.Decimal
	expiresAt time.Time
}

// InMemorySnapshotStore implements SnapshotStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemorySnapshotStore struct {
	mu        sync.RWMutex
	entries   map[string]snapshotEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySnapshotStore creates a new in-memory snapshot store.
// It starts a background goroutine to clean up expired entries.
func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	store := &InMemorySnapshotStore{
		entries:  make(map[string]snapshotEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get returns the cached quantity for a warehouse-product pair
func (s *InMemorySnapshotStore) Get(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, bool, error) {
	key := snapshotKey("", warehouseID, productID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return decimal.Zero, false, nil
	}

	if time.Now().After(e.expiresAt) {
		return decimal.Zero, false, nil // Expired, treat as a miss
	}

	return e.qty, true, nil
}

// Set stores a snapshot with the given TTL
func (s *InMemorySnapshotStore) Set(ctx context.Context, warehouseID, productID uuid.UUID, qty decimal.Decimal, ttl time.Duration) error {
	key := snapshotKey("", warehouseID, productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = snapshotEntry{
		qty:       qty,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate drops the snapshot for a warehouse-product pair
func (s *InMemorySnapshotStore) Invalidate(ctx context.Context, warehouseID, productID uuid.UUID) error {
	key := snapshotKey("", warehouseID, productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close stops the cleanup goroutine
func (s *InMemorySnapshotStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemorySnapshotStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

// cleanup removes all expired entries
func (s *InMemorySnapshotStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// size returns the number of entries (for testing)
func (s *InMemorySnapshotStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemorySnapshotStore implements SnapshotStore
var _ SnapshotStore = (*InMemorySnapshotStore)(nil)
