package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-runs a callback when reward documents change on disk. Bursts of
// events within the debounce interval collapse into a single call.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches path, a single document or a directory of documents.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: filepath.Clean(path), debounce: debounce, logger: logger}
}

// Watch blocks until ctx is cancelled, calling onChange after each settled
// burst of changes. Callback errors are logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func(context.Context) error) error {
	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	// Editors often replace a file instead of writing it, so a single file is
	// watched through its directory.
	dir, only := w.path, ""
	if !info.IsDir() {
		dir, only = filepath.Dir(w.path), w.path
	}
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Info("watching for changes", "path", w.path, "debounce_ms", w.debounce.Milliseconds())

	var (
		timer *time.Timer
		fire  <-chan time.Time
		last  string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", "path", w.path)
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(ev, only) {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			last = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("documents changed", "path", last)
			if err := onChange(ctx); err != nil {
				w.logger.Error("reload failed", "path", last, "error", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event, only string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if only != "" {
		return name == only
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	return Supported(name)
}
