// Package watch triggers re-discovery when transcript files
// change, with debouncing so bursts of appends coalesce into a
// single refresh.
package watch

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the index root and invokes a callback after
// transcript writes settle. Subagent directories and non
// transcript files are ignored, matching discovery's scan
// rules.
type Watcher struct {
	onChange func(paths []string)
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// New creates a watcher that calls onChange with the changed
// transcript paths once debounce has elapsed since each path's
// last event.
func New(
	debounce time.Duration, onChange func(paths []string),
) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback is nil: %w", os.ErrInvalid)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		onChange: onChange,
		fsw:      fsw,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}, nil
}

// WatchRoot adds the index root and every non-subagent
// subdirectory to the watch list. Inaccessible directories are
// skipped. Returns the number of directories watched.
func (w *Watcher) WatchRoot(root string) (int, error) {
	watched := 0
	err := filepath.WalkDir(root,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible dirs
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == "subagents" {
				return filepath.SkipDir
			}
			if addErr := w.fsw.Add(path); addErr != nil {
				log.Printf("watch %s: %v", path, addErr)
				return nil
			}
			watched++
			return nil
		})
	return watched, err
}

// Start begins processing file events in a goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop stops the watcher and waits for the event loop to
// finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		<-w.done
		w.fsw.Close()
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	// A new project directory must itself be watched; its
	// transcripts arrive moments later.
	if event.Op&fsnotify.Create != 0 {
		w.watchIfDir(event.Name)
	}

	if !isTranscriptPath(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = w.now()
	w.mu.Unlock()
}

func (w *Watcher) watchIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if info.Name() == "subagents" {
		return
	}
	_ = w.fsw.Add(path)
}

// isTranscriptPath mirrors the discovery scan's file rules.
func isTranscriptPath(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".jsonl") &&
		!strings.HasPrefix(name, "agent-")
}

func (w *Watcher) flush() {
	w.mu.Lock()
	now := w.now()
	var ready []string
	for path, t := range w.pending {
		if now.Sub(t) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if len(ready) > 0 {
		w.onChange(ready)
	}
}
