// Package watch reports changes to a set of files with debouncing.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Files are the files to watch. Their directories are watched so that
	// editors replacing a file by rename are still seen.
	Files []string

	// Debounce is the delay before triggering on change.
	Debounce time.Duration
}

// Watcher monitors files for changes.
type Watcher struct {
	config   Config
	files    map[string]bool
	onChange func([]string)
	mu       sync.Mutex
}

// NewWatcher creates a new file watcher.
func NewWatcher(config Config) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounce
	}
	files := make(map[string]bool, len(config.Files))
	for _, f := range config.Files {
		if abs, err := filepath.Abs(f); err == nil {
			files[abs] = true
		}
	}
	return &Watcher{config: config, files: files}
}

// OnChange sets the callback for changes. It receives the changed paths,
// each once, after the debounce period.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run watches until ctx is canceled. The callback runs on Run's
// goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}

	timer := time.NewTimer(w.config.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(w.config.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timer.C:
			w.flush(pending)
			pending = make(map[string]bool)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && w.files[abs]
}

func (w *Watcher) flush(pending map[string]bool) {
	if len(pending) == 0 {
		return
	}
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	if fn == nil {
		return
	}
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	fn(paths)
}
