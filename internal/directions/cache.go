package directions

import (
	"context"
	"sync"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
)

// MemoryCache is an in-process Cache without expiry, used when no Redis
// address is configured.
type MemoryCache struct {
	mu    sync.RWMutex
	paths map[string][]geo.Point
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{paths: make(map[string][]geo.Point)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]geo.Point, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paths[key]
	if !ok {
		return nil, false, nil
	}
	return append([]geo.Point(nil), p...), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, path []geo.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[key] = append([]geo.Point(nil), path...)
	return nil
}

// Len returns the number of cached paths.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.paths)
}
