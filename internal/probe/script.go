package probe

import (
	"context"
	"sync"
)

// ScriptedProber is a deterministic in-memory Prober. It answers true
// only for URLs in its table and records every call in order, which
// makes probe counts and probe ordering assertable in tests and dry
// runs.
type ScriptedProber struct {
	mu    sync.Mutex
	exist map[string]bool
	calls []string
}

// NewScriptedProber creates a scripted prober that reports the given
// URLs as existing.
func NewScriptedProber(existing ...string) *ScriptedProber {
	exist := make(map[string]bool, len(existing))
	for _, u := range existing {
		exist[u] = true
	}
	return &ScriptedProber{exist: exist}
}

// Exists records the call and answers from the script.
func (sp *ScriptedProber) Exists(_ context.Context, url string) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.calls = append(sp.calls, url)
	return sp.exist[url]
}

// SetExists updates the script for one URL.
func (sp *ScriptedProber) SetExists(url string, ok bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.exist == nil {
		sp.exist = make(map[string]bool)
	}
	sp.exist[url] = ok
}

// Calls returns a copy of every probed URL in call order.
func (sp *ScriptedProber) Calls() []string {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	out := make([]string, len(sp.calls))
	copy(out, sp.calls)
	return out
}

// CallCount returns how many times url has been probed.
func (sp *ScriptedProber) CallCount(url string) int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	n := 0
	for _, c := range sp.calls {
		if c == url {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls but keeps the script.
func (sp *ScriptedProber) Reset() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.calls = nil
}
