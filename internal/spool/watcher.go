package spool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docfind/internal/logger"
)

// Flush cadence for pending drops. Pipelines emit bursts of write
// events per file; one flush gathers the whole burst.
const (
	flushesPerSecond = 4.0
	flushBurst       = 1
)

// Drop is a spool file with new content to ingest.
type Drop struct {
	Path string
}

// Watcher tails a spool directory for NDJSON drops.
type Watcher struct {
	dir     string
	limiter *rate.Limiter

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

// NewWatcher creates a watcher for the given spool directory.
func NewWatcher(dir string) *Watcher {
	return &Watcher{
		dir:     dir,
		limiter: rate.NewLimiter(rate.Limit(flushesPerSecond), flushBurst),
		done:    make(chan struct{}),
	}
}

// Watch starts tailing the spool directory. The returned channel
// reports drops as they settle and closes when ctx is cancelled or the
// watcher is closed. A drop may be reported while the pipeline is still
// writing it; the write event that follows reports it again, and the
// index upsert makes the second pass harmless.
func (w *Watcher) Watch(ctx context.Context) (<-chan Drop, error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("watch %s: watcher is closed", w.dir)
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("spool root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("spool root path error: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewBufferedWatcher(64)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close() //nolint:errcheck
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	drops := make(chan Drop)
	go w.run(ctx, fsw, drops)
	return drops, nil
}

// run forwards settled spool writes until the context or the watcher
// stops. Events for one file arriving within a flush window coalesce
// into a single drop.
func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, drops chan<- Drop) {
	defer close(drops)
	defer fsw.Close() //nolint:errcheck

	pending := make(map[string]struct{})
	var order []string
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !isDropEvent(event) {
				continue
			}
			if _, seen := pending[event.Name]; !seen {
				pending[event.Name] = struct{}{}
				order = append(order, event.Name)
			}
			if flush == nil {
				flush = time.After(w.limiter.Reserve().Delay())
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Spool watch error: %v", err)
		case <-flush:
			for _, path := range order {
				select {
				case drops <- Drop{Path: path}:
				case <-ctx.Done():
					return
				case <-w.done:
					return
				}
			}
			pending = make(map[string]struct{})
			order = order[:0]
			flush = nil
		}
	}
}

// Close stops the watcher and any active Watch. Safe to call more than
// once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.once.Do(func() {
		close(w.done)
	})
	return nil
}

// isDropEvent reports whether the event is a write to a spool file.
func isDropEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	return IsSpoolFile(event.Name)
}

// IsSpoolFile reports whether path names an NDJSON drop. Hidden files
// and foreign extensions are ignored, which lets pipelines stage
// partial writes under temporary names.
func IsSpoolFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".ndjson" || ext == ".jsonl"
}

// ListDrops returns the spool files already present in dir, sorted by
// name for deterministic replay.
func ListDrops(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("spool root path error: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSpoolFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
