package techdebt

import (
	"sync"

	"github.com/agoda-com/codecompass/internal/findings"
)

// Overlay holds metadata registered at runtime for rules the built-in table
// does not know. The caller owns it and passes it to every Catalog that should
// share it; writes are first-write-wins and safe for concurrent use.
type Overlay struct {
	mu      sync.RWMutex
	entries map[string]findings.TechDebtInfo
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{entries: map[string]findings.TechDebtInfo{}}
}

func (o *Overlay) lookup(ruleID string) (findings.TechDebtInfo, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	info, ok := o.entries[ruleID]
	return info, ok
}

// add stores info unless ruleID is already present. It reports whether it stored.
func (o *Overlay) add(ruleID string, info findings.TechDebtInfo) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.entries[ruleID]; exists {
		return false
	}
	o.entries[ruleID] = info
	return true
}

// Len returns the number of registered entries.
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}
