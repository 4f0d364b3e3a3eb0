package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/sdkconf/dialect"
	"github.com/dhamidi/sdkconf/parser"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sdkconf.watch")

// Event reports a re-parsed file. Result is nil when the file was removed
// or could not be read.
type Event struct {
	Path    string
	Dialect string
	Result  *parser.Result
	Removed bool
	Err     error
}

// Watcher re-parses snippet files when they change on disk. Bursts of
// filesystem events for the same file are coalesced.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	events   chan Event
	stop     chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:       fw,
		debounce: debounce,
		events:   make(chan Event),
		stop:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add watches path. Directories are watched recursively.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fs.Add(path)
	}
	return w.addRecursive(path)
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignored(path) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// Events is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run delivers events until ctx is cancelled or the underlying watcher
// fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warning("watcher error", "error", err)
		case evt, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if evt.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(evt.Name); err == nil && fi.IsDir() && !ignored(evt.Name) {
					if err := w.addRecursive(evt.Name); err != nil {
						log.Warning("add watch failed", "path", evt.Name, "error", err)
					}
					continue
				}
			}
			if shouldReparse(evt) {
				w.schedule(evt.Name)
			}
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		ev := reparse(path)
		select {
		case w.events <- ev:
		case <-w.stop:
		}
	})
}

func (w *Watcher) shutdown() {
	close(w.stop)
	w.mu.Lock()
	for _, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
	}
	w.mu.Unlock()
	w.wg.Wait()
	_ = w.fs.Close()
	close(w.events)
}

func reparse(path string) Event {
	ev := Event{Path: path}
	p, err := parser.ForFile(path)
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.Dialect = p.Dialect()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ev.Removed = true
			return ev
		}
		ev.Err = err
		return ev
	}
	ev.Result = p.Parse(string(data))
	log.Debug("reparsed", "path", path, "valid", ev.Result.Valid)
	return ev
}

func shouldReparse(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasPrefix(filepath.Base(evt.Name), ".") {
		return false
	}
	_, ok := dialect.ForPath(evt.Name)
	return ok
}

func ignored(dir string) bool {
	base := filepath.Base(dir)
	return strings.HasPrefix(base, ".") || base == "node_modules" || base == "vendor"
}
