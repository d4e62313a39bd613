package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for the given pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "audit.scheduler"),
	}
}

// Start begins scheduled pruning. The schedule comes from the pruner's
// configuration; an empty schedule makes Start a no-op. The scheduler
// stops itself when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
		"max_records", s.pruner.config.MaxRecords,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled pruning. In-flight runs complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("audit retention scheduler stopped")
}

func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled audit pruning failed", "error", err)
		return
	}
	s.logger.Info("scheduled audit pruning complete", "deleted_count", deleted)
}
