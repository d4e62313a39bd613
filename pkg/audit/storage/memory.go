package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mercator-hq/saturn/pkg/audit"
)

// MemoryStorage implements audit.Storage in memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*audit.Record
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Save writes one record.
func (s *MemoryStorage) Save(_ context.Context, record *audit.Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	clone := *record
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, &clone)
	return nil
}

// List returns records matching the query, newest first.
func (s *MemoryStorage) List(_ context.Context, q audit.Query) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*audit.Record
	for _, r := range s.records {
		if !matches(r, q) {
			continue
		}
		clone := *r
		out = append(out, &clone)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// DeleteOldest removes the oldest records until at most keep remain.
func (s *MemoryStorage) DeleteOldest(_ context.Context, keep int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int64(len(s.records)) <= keep {
		return 0, nil
	}

	sorted := make([]*audit.Record, len(s.records))
	copy(sorted, s.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	deleted := int64(len(sorted)) - keep
	s.records = sorted[deleted:]
	return deleted, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

func matches(r *audit.Record, q audit.Query) bool {
	if q.SessionID != "" && r.SessionID != q.SessionID {
		return false
	}
	if q.TraceID != "" && r.TraceID != q.TraceID {
		return false
	}
	if q.RuleID != "" && r.RuleID != q.RuleID {
		return false
	}
	if q.ErrorCode != "" && r.ErrorCode != q.ErrorCode {
		return false
	}
	if !q.Since.IsZero() && r.CreatedAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !r.CreatedAt.Before(q.Until) {
		return false
	}
	return true
}
