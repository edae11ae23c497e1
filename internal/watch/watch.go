package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// ErrWatch indicates the watcher could not be set up.
var ErrWatch = errors.New("watch failed")

// RebuildFunc is called after a burst of changes settles.
type RebuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration // Zero uses DefaultDebounce
	Exclude  []string      // Directories never watched, such as the output dir
	Logger   *slog.Logger  // Nil uses slog.Default()
}

// Watcher watches a directory tree.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	exclude  []string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher over root and every directory below it.
func New(root string, opts Options) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrWatch, root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: fsnotify: %w", ErrWatch, err)
	}

	w := &Watcher{
		fs:       fw,
		root:     absRoot,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	for _, dir := range opts.Exclude {
		abs, err := filepath.Abs(dir)
		if err == nil {
			w.exclude = append(w.exclude, abs)
		}
	}

	if err := w.addRecursive(absRoot); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers debounced change notifications to rebuild until ctx is
// cancelled. Rebuild errors are logged, not returned: a broken edit must not
// stop the watcher. Run closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, rebuild RebuildFunc) error {
	defer func() { _ = w.fs.Close() }()

	requests, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				w.logger.Info("change detected, rebuilding")
				if err := rebuild(ctx); err != nil && ctx.Err() == nil {
					w.logger.Warn("rebuild failed", "error", err)
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handle(ev) {
				trigger()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handle reports whether ev should trigger a rebuild.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ignored(ev.Name) || w.excluded(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(ev.Name)
		}
	}
	w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	return true
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %w", ErrWatch, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (ignored(path) || w.excluded(path)) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) excluded(path string) bool {
	for _, dir := range w.exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored reports hidden files, editor swap files and OS litter.
func ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

// newDebouncer returns a channel that receives one value per quiet period
// following calls to trigger. The channel holds at most one pending value.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	out := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case out <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return out, trigger, stop
}
