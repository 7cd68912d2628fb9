package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/utils"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 300 * time.Millisecond

// Watcher regenerates bridges when headers under the watched paths change
type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	generator   *Generator
	diagnostics *utils.DiagnosticSystem
	debounce    time.Duration
	roots       []string

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
	flush     chan []string
}

// NewWatcher creates a watcher driving generator
func NewWatcher(generator *Generator, diagnostics *utils.DiagnosticSystem, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapFileSystemError("watch", ".", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if diagnostics == nil {
		diagnostics = generator.diagnostics
	}

	return &Watcher{
		fsWatcher:   fsw,
		generator:   generator,
		diagnostics: diagnostics,
		debounce:    debounce,
		pending:     make(map[string]time.Time),
		flush:       make(chan []string, 1),
	}, nil
}

// Watch registers paths (directories are watched recursively, "dir/..." is
// accepted) and processes changes until ctx is done
func (w *Watcher) Watch(ctx context.Context, paths []string) error {
	defer w.Close()

	for _, path := range paths {
		root := strings.TrimSuffix(filepath.ToSlash(path), RecursiveSuffix)
		if root == "" {
			root = "."
		}
		root = filepath.FromSlash(root)

		info, err := os.Stat(root)
		if err != nil {
			return errors.WrapFileSystemError("watch", root, err)
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := w.watchRecursive(root); err != nil {
			return err
		}
		w.roots = append(w.roots, root)
	}

	w.diagnostics.Info("Watching %s for header changes (Ctrl+C to stop)", strings.Join(w.roots, ", "))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("watcher error: %v", err)

		case changed := <-w.flush:
			w.regenerate(ctx, changed)
		}
	}
}

func (w *Watcher) watchRecursive(root string) error {
	exclude := utils.DefaultDirectoryFilter(root, w.generator.config.Exclude)
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if !exclude(path, entry) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		w.diagnostics.Debug("watching %s", path)
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchRecursive(event.Name); err != nil {
				w.diagnostics.Warn("failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.isHeader(event.Name) {
		return
	}
	w.scheduleChange(event.Name)
}

// isHeader accepts files matching the include patterns, except our own output
func (w *Watcher) isHeader(path string) bool {
	if w.generator.IsGeneratedPath(path) {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false // editor swap files and our own temp files
	}
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if utils.MatchAny(w.generator.config.Include, rel) && !utils.MatchAny(w.generator.config.Exclude, rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

// flushChanges hands the settled paths to the Watch loop, which owns generation
func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	select {
	case w.flush <- paths:
	default:
		// a batch is already queued; fold these paths back in for the next one
		w.pendingMu.Lock()
		for _, path := range paths {
			w.pending[path] = time.Now()
		}
		w.pendingMu.Unlock()
		w.scheduleChange(paths[0])
	}
}

func (w *Watcher) regenerate(ctx context.Context, paths []string) {
	headers := make([]HeaderInput, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		w.generator.reader.InvalidateFile(path)
		headers = append(headers, HeaderInput{Path: path})
	}
	if len(headers) == 0 {
		return
	}

	w.diagnostics.Info("Change detected in %d header(s)", len(headers))
	if _, err := w.generator.Process(ctx, headers); err != nil {
		w.diagnostics.Error("regeneration stopped: %v", err)
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
