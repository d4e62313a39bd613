package retention

import (
	"context"
	"testing"
	"time"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/audit/storage"
)

func seed(t *testing.T, store audit.Storage, ages ...time.Duration) {
	t.Helper()
	now := time.Now().UTC()
	for i, age := range ages {
		err := store.Save(context.Background(), &audit.Record{
			ID:           string(rune('a' + i)),
			TraceID:      "t",
			QuestionID:   "q",
			PrivacyLevel: "auto",
			ContentHash:  "hash",
			CreatedAt:    now.Add(-age),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
}

func TestPruner_ByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	seed(t, store, 100*24*time.Hour, 95*24*time.Hour, time.Hour)

	p := NewPruner(store, &Config{RetentionDays: 90})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	count, _ := store.Count(context.Background())
	if count != 1 {
		t.Errorf("remaining = %d, want 1", count)
	}
}

func TestPruner_ByCount(t *testing.T) {
	store := storage.NewMemoryStorage()
	seed(t, store, 4*time.Hour, 3*time.Hour, 2*time.Hour, time.Hour)

	p := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 2})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	records, _ := store.List(context.Background(), audit.Query{})
	if len(records) != 2 {
		t.Fatalf("remaining = %d, want 2", len(records))
	}
	// Newest two survive.
	if records[0].ID != "d" || records[1].ID != "c" {
		t.Errorf("survivors = [%s %s], want [d c]", records[0].ID, records[1].ID)
	}
}

func TestPruner_DisabledDoesNothing(t *testing.T) {
	store := storage.NewMemoryStorage()
	seed(t, store, 365*24*time.Hour)

	p := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 0})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	p := NewPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: ""})
	s := NewScheduler(p)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestScheduler_RejectsInvalidSchedule(t *testing.T) {
	p := NewPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: "not a cron line"})
	s := NewScheduler(p)

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}
