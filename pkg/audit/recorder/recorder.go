package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mercator-hq/saturn/pkg/audit"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Enabled enables audit recording.
	Enabled bool

	// QueueSize is the size of the async write queue.
	// Default: 1000
	QueueSize int

	// WriteTimeout bounds each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		QueueSize:    1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder queues audit records and writes them in the background.
type Recorder struct {
	storage  audit.Storage
	config   *Config
	recordCh chan *audit.Record
	wg       sync.WaitGroup
	logger   *slog.Logger
	dropped  atomic.Uint64

	closeOnce sync.Once
}

// NewRecorder creates a recorder draining into the given storage and
// starts its background worker.
func NewRecorder(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:  storage,
		config:   config,
		recordCh: make(chan *audit.Record, config.QueueSize),
		logger:   slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record enqueues a record for async writing and returns immediately.
// A missing ID or CreatedAt is filled in. When the queue is full the
// record is dropped and counted; the caller is never blocked.
func (r *Recorder) Record(record *audit.Record) {
	if !r.config.Enabled || record == nil {
		return
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	select {
	case r.recordCh <- record:
	default:
		r.dropped.Add(1)
		r.logger.Warn("audit queue full, record dropped",
			"record_id", record.ID,
			"dropped_total", r.dropped.Load(),
		)
	}
}

// Dropped returns how many records were dropped due to a full queue.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Close stops accepting records, drains the queue, and waits for the
// worker to finish.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.recordCh)
		r.wg.Wait()
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for record := range r.recordCh {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		if err := r.storage.Save(ctx, record); err != nil {
			r.logger.Error("failed to write audit record",
				"record_id", record.ID,
				"error", err,
			)
		}
		cancel()
	}
}
