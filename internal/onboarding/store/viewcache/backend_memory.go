package viewcache

import (
	"context"
	"sync"
	"time"

	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend is a single-process backend for development and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry)}
}

func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !requestcontext.Now(ctx).Before(e.expiresAt) {
		delete(b.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: requestcontext.Now(ctx).Add(ttl)}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}
