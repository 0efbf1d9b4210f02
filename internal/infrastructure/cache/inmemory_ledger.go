// Package cache provides completion-ledger implementations that remember
// already-applied status updates across report retries.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// entry represents a recorded key with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryLedger implements CompletionLedger using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryLedger struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryLedger creates an in-memory completion ledger.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryLedger() *InMemoryLedger {
	ledger := &InMemoryLedger{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	ledger.wg.Add(1)
	go ledger.cleanupLoop()

	return ledger
}

// MarkProcessed records a key with a TTL.
// Returns true if the key was newly recorded, false if it already existed.
func (l *InMemoryLedger) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.entries[key]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil // Already recorded
		}
		// Entry exists but expired, will be overwritten
	}

	l.entries[key] = entry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// IsProcessed checks whether a key was recorded and has not expired
func (l *InMemoryLedger) IsProcessed(ctx context.Context, key string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, exists := l.entries[key]
	if !exists {
		return false, nil
	}

	if time.Now().After(e.expiresAt) {
		return false, nil // Expired, treat as not recorded
	}

	return true, nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (l *InMemoryLedger) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (l *InMemoryLedger) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup removes expired entries
func (l *InMemoryLedger) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, e := range l.entries {
		if now.After(e.expiresAt) {
			delete(l.entries, key)
		}
	}
}

// Size returns the number of entries in the ledger (for testing/monitoring)
func (l *InMemoryLedger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Ensure InMemoryLedger implements CompletionLedger
var _ fulfillment.CompletionLedger = (*InMemoryLedger)(nil)
