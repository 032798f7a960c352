package shader

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	fsw    *fsnotify.Watcher
	files  map[string]struct{}
	events chan string
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// Watcher reports changes to shader source files on disk.
// Parent directories are watched so editors that replace files on save are still seen.
type Watcher interface {
	// Changes delivers the cleaned path of each modified file. Sends never block;
	// a change is dropped when the buffer is full.
	//
	// Returns:
	//   - <-chan string: the change channel, closed by Close
	Changes() <-chan string

	// Close stops watching and closes the change channel.
	//
	// Returns:
	//   - error: error from the underlying watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching the given files.
//
// Parameters:
//   - paths: the shader files to watch
//   - logger: logger for watcher errors; nil disables logging
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the OS watcher cannot be created or a directory cannot be watched
func NewWatcher(paths []string, logger *zap.Logger) (Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &watcher{
		fsw:    fsw,
		files:  make(map[string]struct{}, len(paths)),
		events: make(chan string, 16),
		done:   make(chan struct{}),
		logger: logger.Named("shader-watcher"),
	}

	dirs := map[string]struct{}{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	go w.run()
	return w, nil
}

func (w *watcher) run() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			if _, watched := w.files[path]; !watched {
				continue
			}
			select {
			case w.events <- path:
			default:
				w.logger.Debug("Dropped shader change", zap.String("path", path))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Shader watcher error", zap.Error(err))
		}
	}
}

func (w *watcher) Changes() <-chan string {
	return w.events
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
