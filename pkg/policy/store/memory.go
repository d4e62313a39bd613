package store

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/saturn/pkg/policy/rule"
)

// MemoryProvider serves a rule set held in memory. Replace swaps the
// whole set atomically after validation.
type MemoryProvider struct {
	mu       sync.RWMutex
	snapshot Snapshot
	version  atomic.Uint64
}

// NewMemoryProvider creates a provider serving the given rules.
// The rules are validated and copied.
func NewMemoryProvider(rules []rule.PolicyRule) (*MemoryProvider, error) {
	p := &MemoryProvider{}
	if err := p.Replace(rules); err != nil {
		return nil, err
	}
	return p, nil
}

// Snapshot returns the current rule set.
func (p *MemoryProvider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Replace validates the given rules and makes them the current
// snapshot. On validation failure the previous snapshot is kept.
func (p *MemoryProvider) Replace(rules []rule.PolicyRule) error {
	if err := rule.ValidateRules(rules); err != nil {
		return fmt.Errorf("rule set rejected: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = Snapshot{
		Rules:    cloneRules(rules),
		Version:  p.version.Add(1),
		LoadedAt: time.Now().UTC(),
	}
	return nil
}
