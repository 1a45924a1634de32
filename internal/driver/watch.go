package driver

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/brn/yatsc-sub000/internal/ast"
)

// Watcher re-runs the driver for a compilation unit's file whenever that
// file, or any file it reached via a reference-path/relative-import edge,
// changes on disk. This is spec.md §9's "no external blocking calls" core
// plus the CLI's optional --watch surface (§6), grounded on
// _examples/gnana997-uispec/pkg/indexer/watcher.go's FileWatcher: one
// fsnotify.Watcher, a debounce timer per path, and a callback invoked once
// the debounce window elapses.
type Watcher struct {
	driver *Driver
	fsw    *fsnotify.Watcher
	onDone func([]*ast.CompilationUnit)

	debounce time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer

	stop chan struct{}
}

// NewWatcher wires a Watcher around driver. onDone is invoked with a fresh
// set of compilation units every time a watched file changes, debounced by
// debounce (200ms if zero, matching the reference implementation's
// default).
func NewWatcher(driver *Driver, onDone func([]*ast.CompilationUnit), debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		driver:   driver,
		fsw:      fsw,
		onDone:   onDone,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Watch compiles entryPaths once, arms the filesystem watch over every
// file that run reached (entries plus every referenced/imported path), and
// returns after the loop goroutine is started. Call Stop to tear down.
func (w *Watcher) Watch(entryPaths []string) ([]*ast.CompilationUnit, error) {
	units := w.driver.Compile(entryPaths)
	if err := w.arm(entryPaths, units); err != nil {
		return units, err
	}
	go w.loop(entryPaths)
	return units, nil
}

func (w *Watcher) arm(entryPaths []string, units []*ast.CompilationUnit) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, u := range units {
		if u.Module == nil {
			continue
		}
		if err := w.fsw.Add(u.Module.AbsolutePath); err != nil {
			return err
		}
		for _, ref := range u.ReferencedPaths {
			abs, _ := filepath.Abs(ref)
			_ = w.fsw.Add(abs) // best-effort; a missing referenced file just won't be watched
		}
	}
	return nil
}

func (w *Watcher) loop(entryPaths []string) {
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounced(ev.Name, entryPaths)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// debounced schedules a full recompile of entryPaths, coalescing bursts of
// writes to the same file into a single rebuild the way
// gnana997-uispec/pkg/indexer/watcher.go's debounceTimers do.
func (w *Watcher) debounced(path string, entryPaths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		units := w.driver.Compile(entryPaths)
		if w.onDone != nil {
			w.onDone(units)
		}
	})
}

// Stop tears down the watch loop and the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	close(w.stop)
	return w.fsw.Close()
}
