package probe

import (
	"context"
	"sync"
)

// MemoProber caches probe outcomes by the URL exactly as given, before
// any cache-busting parameter is applied. Entries are never
// invalidated for the life of the process. Concurrent probes of the
// same URL may each reach the underlying prober; only the load path
// needs true coalescing, not probing.
type MemoProber struct {
	mu   sync.RWMutex
	seen map[string]bool
	next Prober
}

// NewMemoProber wraps a prober with a process-lifetime memo.
func NewMemoProber(next Prober) *MemoProber {
	return &MemoProber{
		seen: make(map[string]bool),
		next: next,
	}
}

// Exists returns the memoized outcome for url, probing through to the
// underlying prober on first sight.
func (m *MemoProber) Exists(ctx context.Context, url string) bool {
	m.mu.RLock()
	v, ok := m.seen[url]
	m.mu.RUnlock()
	if ok {
		return v
	}

	v = m.next.Exists(ctx, url)

	m.mu.Lock()
	m.seen[url] = v
	m.mu.Unlock()
	return v
}

// Len reports how many URLs have been memoized.
func (m *MemoProber) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.seen)
}
