package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/saturn/pkg/audit"
)

// Config contains retention settings.
type Config struct {
	// RetentionDays is how many days of records to keep.
	// 0 disables age-based pruning.
	RetentionDays int

	// MaxRecords caps the total record count. 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduled pruning,
	// for example "0 3 * * *" for daily at 3 AM. Empty disables the
	// scheduler.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		MaxRecords:    0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention on an audit store.
type Pruner struct {
	storage audit.Storage
	config  *Config
	logger  *slog.Logger
}

// NewPruner creates a pruner over the given storage.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
	}
}

// Prune runs both retention phases and returns the total deleted:
// first records older than the retention window, then the oldest
// records over the cap.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
		p.logger.Info("pruned audit records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.storage.DeleteOldest(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
		p.logger.Info("pruned audit records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	return total, nil
}
