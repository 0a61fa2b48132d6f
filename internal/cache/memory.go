package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process TTL cache with a background cleanup worker.
type MemoryCache struct {
	entries       sync.Map
	cleanupTicker *time.Ticker
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	closeOnce     sync.Once
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache starts a cache that sweeps expired entries every interval.
func NewMemoryCache(interval time.Duration) *MemoryCache {
	ctx, cancel := context.WithCancel(context.Background())
	mc := &MemoryCache{
		cleanupTicker: time.NewTicker(interval),
		ctx:           ctx,
		cancel:        cancel,
	}
	mc.startCleanupWorker()
	return mc
}

func (mc *MemoryCache) startCleanupWorker() {
	mc.wg.Add(1)
	go func() {
		defer mc.wg.Done()
		for {
			select {
			case <-mc.cleanupTicker.C:
				mc.cleanup()
			case <-mc.ctx.Done():
				return
			}
		}
	}()
}

func (mc *MemoryCache) cleanup() {
	now := time.Now()
	mc.entries.Range(func(key, value any) bool {
		if now.After(value.(*memoryEntry).expiresAt) {
			mc.entries.Delete(key)
		}
		return true
	})
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := mc.entries.Load(key)
	if !ok {
		return nil, false, nil
	}

	entry := value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		mc.entries.Delete(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	mc.entries.Store(key, &memoryEntry{value: stored, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Close stops the cleanup worker. It is safe to call more than once.
func (mc *MemoryCache) Close() error {
	mc.closeOnce.Do(func() {
		mc.cancel()
		mc.cleanupTicker.Stop()
		mc.wg.Wait()
	})
	return nil
}
