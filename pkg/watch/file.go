package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/serifcolakel/sc-hooks/pkg/listener"
)

// EventChange is dispatched when the watched file is written, created or
// renamed; EventRemove when it is removed. Event.Data carries the file path.
const (
	EventChange = "change"
	EventRemove = "remove"
)

// FileTarget is a listener.Target that fires when one file on disk changes.
// It watches the file's parent directory (more reliable than watching the
// file directly) and filters events down to the named file.
type FileTarget struct {
	emitter  *listener.Element
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	stopChan  chan struct{}
	closeOnce sync.Once
}

// FileOption configures a FileTarget.
type FileOption func(*FileTarget)

// WithDebounce coalesces rapid consecutive changes into one event. Zero (the
// default) dispatches every change immediately.
func WithDebounce(d time.Duration) FileOption {
	return func(ft *FileTarget) { ft.debounce = d }
}

// NewFileTarget starts watching path and returns the target. Close must be
// called to release the watcher.
func NewFileTarget(path string, opts ...FileOption) (*FileTarget, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}

	ft := &FileTarget{
		emitter:  listener.NewElement(),
		path:     absPath,
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}
	for _, o := range opts {
		o(ft)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(absPath), err)
	}

	go ft.watchLoop()
	return ft, nil
}

// Path returns the absolute path being watched.
func (ft *FileTarget) Path() string { return ft.path }

func (ft *FileTarget) watchLoop() {
	fileName := filepath.Base(ft.path)
	var pending *time.Timer

	for {
		select {
		case <-ft.stopChan:
			if pending != nil {
				pending.Stop()
			}
			return
		case event, ok := <-ft.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				if ft.debounce <= 0 {
					ft.dispatch(EventChange)
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(ft.debounce, func() { ft.dispatch(EventChange) })
			case event.Op&fsnotify.Remove != 0:
				ft.dispatch(EventRemove)
			}
		case err, ok := <-ft.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "path", ft.path, "error", err)
		}
	}
}

func (ft *FileTarget) dispatch(eventType string) {
	ft.emitter.DispatchEvent(listener.Event{
		Type:   eventType,
		Target: ft,
		Data:   ft.path,
		Time:   time.Now(),
	})
}

func (ft *FileTarget) AddEventListener(name string, h listener.Handler, opts listener.Options) {
	ft.emitter.AddEventListener(name, h, opts)
}

func (ft *FileTarget) RemoveEventListener(name string, h listener.Handler, opts listener.Options) {
	ft.emitter.RemoveEventListener(name, h, opts)
}

func (ft *FileTarget) DispatchEvent(ev listener.Event) bool {
	if ev.Target == nil {
		ev.Target = ft
	}
	return ft.emitter.DispatchEvent(ev)
}

func (ft *FileTarget) Kind() string { return "file" }

// Close stops the watch loop and releases the filesystem watcher. Subsequent
// file changes dispatch nothing; registered handlers are left in place.
func (ft *FileTarget) Close() error {
	var err error
	ft.closeOnce.Do(func() {
		close(ft.stopChan)
		err = ft.watcher.Close()
	})
	return err
}
