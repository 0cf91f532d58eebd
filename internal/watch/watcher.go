package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeTemplate ChangeType = iota // .html under pages/ or components/
	ChangeConfig                     // elementary.json / .yaml
	ChangeData                       // any other .json or .yaml
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTemplate:
		return "template"
	case ChangeConfig:
		return "config"
	case ChangeData:
		return "data"
	default:
		return "unknown"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
	Op   fsnotify.Op
}

// Config configures the file watcher.
type Config struct {
	// Paths are the directories to watch. Subdirectories are added
	// recursively, including ones created after Run starts.
	Paths []string

	// Ignore lists base names or globs to skip.
	Ignore []string

	// Debounce is the quiet period before a batch of changes is reported.
	Debounce time.Duration

	// Logger receives watch errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
	".#*",
}

// Watcher reports template and config changes under a set of directories.
type Watcher struct {
	config Config
	fs     *fsnotify.Watcher
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]Change
}

// New creates a watcher and registers every directory under config.Paths.
func New(config Config) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:  config,
		fs:      fsw,
		logger:  logger.With("component", "watch"),
		pending: make(map[string]Change),
	}
	for _, root := range config.Paths {
		if err := w.addRecursive(root, false); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks delivering batches of changes to onChange until ctx is
// cancelled or the watcher is closed. Batches are sorted by path.
func (w *Watcher) Run(ctx context.Context, onChange func([]Change)) error {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	arm := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(w.config.Debounce)
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				arm()
			}

		case <-timerC:
			timerC = nil
			if batch := w.flush(); len(batch) > 0 {
				onChange(batch)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// handle records event and reports whether anything became pending.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if w.shouldIgnore(event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Files written before the watch was added are picked up by the walk.
			if err := w.addRecursive(event.Name, true); err != nil {
				w.logger.Warn("watch directory", "path", event.Name, "error", err)
			}
			return w.hasPending()
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.record(event.Name, event.Op)
}

func (w *Watcher) record(path string, op fsnotify.Op) bool {
	typ, ok := Classify(path)
	if !ok {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, seen := w.pending[path]
	if seen {
		op |= prev.Op
	}
	w.pending[path] = Change{Path: path, Type: typ, Op: op}
	return true
}

func (w *Watcher) hasPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending) > 0
}

func (w *Watcher) flush() []Change {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := make([]Change, 0, len(w.pending))
	for _, c := range w.pending {
		batch = append(batch, c)
	}
	w.pending = make(map[string]Change)
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	return batch
}

// addRecursive watches root and its subdirectories. When created is set,
// files already present are recorded as changes.
func (w *Watcher) addRecursive(root string, created bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		if created {
			w.record(path, fsnotify.Create)
		}
		return nil
	})
}

// shouldIgnore checks the base name of path against the ignore list.
func (w *Watcher) shouldIgnore(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}

// Classify determines the type of change from a file name. Files that
// cannot affect rendering report false.
func Classify(path string) (ChangeType, bool) {
	base := strings.ToLower(filepath.Base(path))
	switch base {
	case "elementary.json", "elementary.yaml", "elementary.yml":
		return ChangeConfig, true
	}
	switch filepath.Ext(base) {
	case ".html":
		return ChangeTemplate, true
	case ".json", ".yaml", ".yml":
		return ChangeData, true
	}
	return 0, false
}
