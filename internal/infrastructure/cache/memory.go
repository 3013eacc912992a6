package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger is a simple in-memory batch ledger with expiration, used when
// Redis is disabled (single-instance deployments and tests).
type MemoryLedger struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryLedger creates a new in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	ledger := &MemoryLedger{
		items: make(map[string]*memoryItem),
	}

	// Start cleanup goroutine to remove expired items
	go ledger.cleanupExpired()

	return ledger
}

// Record stores the batch outcome with expiration
func (ml *MemoryLedger) Record(ctx context.Context, batchID, status string, ttl time.Duration) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.items[batchID] = &memoryItem{
		value:      status,
		expireTime: time.Now().Add(ttl),
	}
	return nil
}

// LastStatus retrieves the recorded outcome for a batch, if any
func (ml *MemoryLedger) LastStatus(ctx context.Context, batchID string) (string, bool, error) {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	item, exists := ml.items[batchID]
	if !exists {
		return "", false, nil
	}

	// Check if expired
	if time.Now().After(item.expireTime) {
		return "", false, nil
	}

	return item.value, true, nil
}

// cleanupExpired periodically removes expired items
func (ml *MemoryLedger) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ml.mu.Lock()
		now := time.Now()
		for key, item := range ml.items {
			if now.After(item.expireTime) {
				delete(ml.items, key)
			}
		}
		ml.mu.Unlock()
	}
}
