package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/golangdaddy/roadster/pkg/logging"
)

// Watcher reports changes to a set of files. Their directories are watched
// so files replaced by editors keep being reported.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	files    map[string]bool
	events   chan string
	done     chan struct{}
	close    sync.Once
}

// NewWatcher starts watching the given files
func NewWatcher(files ...string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsnotify: fsWatch,
		files:    make(map[string]bool),
		events:   make(chan string, 1),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsWatch.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatch.Add(dir); err != nil {
			fsWatch.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.start()
	return w, nil
}

// Events delivers the absolute path of each changed file. Changes that
// arrive while one is still pending are folded into it.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching
func (w *Watcher) Close() error {
	var err error
	w.close.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
	})
	return err
}

func (w *Watcher) start() {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name, err := filepath.Abs(e.Name)
			if err != nil || !w.files[name] {
				continue
			}
			select {
			case w.events <- name:
			default:
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			logging.Error("file watcher failed", "err", err)

		case <-w.done:
			return
		}
	}
}
