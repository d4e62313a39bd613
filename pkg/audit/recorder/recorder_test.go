package recorder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/saturn/pkg/audit"
)

// collectStorage is an audit.Storage capturing saved records.
type collectStorage struct {
	mu      sync.Mutex
	records []*audit.Record
	saveErr error
	block   chan struct{}
}

func (c *collectStorage) Save(_ context.Context, r *audit.Record) error {
	if c.block != nil {
		<-c.block
	}
	if c.saveErr != nil {
		return c.saveErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return nil
}

func (c *collectStorage) List(context.Context, audit.Query) ([]*audit.Record, error) {
	return nil, nil
}
func (c *collectStorage) Count(context.Context) (int64, error)                    { return 0, nil }
func (c *collectStorage) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }
func (c *collectStorage) DeleteOldest(context.Context, int64) (int64, error)      { return 0, nil }
func (c *collectStorage) Close() error                                            { return nil }

func (c *collectStorage) saved() []*audit.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*audit.Record, len(c.records))
	copy(out, c.records)
	return out
}

func TestRecorder_WritesAsync(t *testing.T) {
	store := &collectStorage{}
	r := NewRecorder(store, nil)

	r.Record(&audit.Record{QuestionID: "q-1", Route: "local"})
	r.Record(&audit.Record{QuestionID: "q-2", Route: "cloud"})

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	saved := store.saved()
	if len(saved) != 2 {
		t.Fatalf("saved = %d records, want 2", len(saved))
	}
	for _, rec := range saved {
		if rec.ID == "" {
			t.Error("record id was not generated")
		}
		if rec.CreatedAt.IsZero() {
			t.Error("created_at was not filled")
		}
	}
}

func TestRecorder_Disabled(t *testing.T) {
	store := &collectStorage{}
	r := NewRecorder(store, &Config{Enabled: false})

	r.Record(&audit.Record{QuestionID: "q-1"})
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(store.saved()) != 0 {
		t.Error("disabled recorder must not write records")
	}
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	store := &collectStorage{block: block}
	r := NewRecorder(store, &Config{Enabled: true, QueueSize: 1, WriteTimeout: time.Second})

	// First record occupies the worker, second fills the queue, the
	// rest must drop without blocking.
	for i := 0; i < 5; i++ {
		r.Record(&audit.Record{QuestionID: "q"})
	}

	if r.Dropped() == 0 {
		t.Error("expected dropped records with a full queue")
	}

	close(block)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRecorder_SaveFailureDoesNotStopWorker(t *testing.T) {
	store := &collectStorage{saveErr: errors.New("disk full")}
	r := NewRecorder(store, nil)

	r.Record(&audit.Record{QuestionID: "q-1"})
	r.Record(&audit.Record{QuestionID: "q-2"})

	// Close must still drain and return.
	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close hung after storage failures")
	}
}

func TestHashString(t *testing.T) {
	if HashString("") != "" {
		t.Error("empty content must hash to empty string")
	}

	h := HashString("where is my passport")
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h))
	}
	if h != HashString("where is my passport") {
		t.Error("hash must be deterministic")
	}
	if h == HashString("where is my wallet") {
		t.Error("different content must hash differently")
	}
}

func TestHashContent_LargeBodyCapped(t *testing.T) {
	head := strings.Repeat("a", MaxHashSize)
	large := head + "trailing bytes beyond the cap"

	if HashContent([]byte(large)) != HashContent([]byte(head)) {
		t.Error("bytes past MaxHashSize must not affect the hash")
	}
}
