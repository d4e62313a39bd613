package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/saturn/pkg/policy/rule"
)

// FileProvider loads rules from a YAML file and serves them as
// snapshots. Watch keeps the snapshot current as the file changes.
type FileProvider struct {
	path             string
	logger           *slog.Logger
	debounceInterval time.Duration

	mu       sync.RWMutex
	snapshot Snapshot
	version  atomic.Uint64

	// The channels belong to one Watch run; a new run gets fresh ones,
	// so the provider can be watched again after Stop.
	watchMu sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// FileProviderConfig configures a FileProvider.
type FileProviderConfig struct {
	// Path is the YAML rule file to load.
	Path string

	// DebounceInterval is how long to wait after a change before
	// reloading. Editors often write a file several times in quick
	// succession. Default: 100ms.
	DebounceInterval time.Duration

	// Logger receives reload events. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewFileProvider loads the rule file and returns a provider serving
// it. The initial load must succeed.
func NewFileProvider(cfg FileProviderConfig) (*FileProvider, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("rule file path cannot be empty")
	}
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &FileProvider{
		path:             cfg.Path,
		logger:           cfg.Logger,
		debounceInterval: cfg.DebounceInterval,
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Snapshot returns the most recently loaded rule set.
func (p *FileProvider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Reload reads and validates the rule file. On any failure the current
// snapshot is left untouched.
func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read rule file %q: %w", p.path, err)
	}

	rules, err := rule.ParseRules(data)
	if err != nil {
		return fmt.Errorf("rule file %q rejected: %w", p.path, err)
	}

	p.mu.Lock()
	p.snapshot = Snapshot{
		Rules:    cloneRules(rules),
		Version:  p.version.Add(1),
		LoadedAt: time.Now().UTC(),
	}
	version := p.snapshot.Version
	p.mu.Unlock()

	p.logger.Info("Rule file loaded",
		"path", p.path,
		"rules", len(rules),
		"version", version,
	)
	return nil
}

// Watch blocks watching the rule file until the context is cancelled
// or Stop is called. Changes trigger a debounced reload. A reload that
// fails validation is logged and the previous snapshot stays current.
func (p *FileProvider) Watch(ctx context.Context) error {
	p.watchMu.Lock()
	if p.running {
		p.watchMu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	debounce := newDebouncer(p.debounceInterval)
	p.watchMu.Unlock()

	defer func() {
		debounce.stop()
		p.watchMu.Lock()
		p.running = false
		p.watchMu.Unlock()
		close(doneCh)
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file itself. Atomic saves
	// replace the inode, which drops a file-level watch.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	p.logger.Info("Rule file watcher started", "path", p.path)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Rule file watcher stopped (context cancelled)")
			return nil

		case <-stopCh:
			p.logger.Info("Rule file watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !p.shouldProcessEvent(event) {
				continue
			}

			p.logger.Debug("Rule file event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			debounce.trigger(func() {
				if err := p.Reload(); err != nil {
					p.logger.Error("Rule reload failed, keeping previous rules",
						"error", err,
					)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			p.logger.Error("Rule file watcher error", "error", err)
		}
	}
}

// Stop stops a running watcher and waits for it to exit. It is safe to
// call more than once, and Watch may be started again afterwards.
func (p *FileProvider) Stop() {
	p.watchMu.Lock()
	if !p.running || p.stopCh == nil {
		p.watchMu.Unlock()
		return
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.stopCh = nil
	p.watchMu.Unlock()

	close(stopCh)
	<-doneCh
}

func (p *FileProvider) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	// Only events for our file matter; the watch covers the directory.
	if filepath.Clean(event.Name) != filepath.Clean(p.path) {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

// debouncer collapses rapid event bursts into a single callback after
// a quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
		}
		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
}

func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
