package keyconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the bursts of events editors produce on save.
const debounceDelay = 100 * time.Millisecond

// Watcher keeps the snapshot of a configuration file current.
type Watcher struct {
	path     string
	mu       sync.RWMutex
	snapshot *Snapshot
	onChange []func(*Snapshot)
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	errChan  chan error
}

// NewWatcher loads path and returns a watcher for it. Call Watch to start
// listening for changes.
func NewWatcher(path string) (*Watcher, error) {
	snap, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		snapshot: snap,
		ctx:      ctx,
		cancel:   cancel,
		errChan:  make(chan error, 1),
	}, nil
}

// Snapshot returns the current configuration.
func (w *Watcher) Snapshot() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}

// OnChange registers a callback invoked with every accepted snapshot.
// Callbacks must be registered before Watch is called.
func (w *Watcher) OnChange(cb func(*Snapshot)) {
	w.onChange = append(w.onChange, cb)
}

// Errors returns a channel receiving rejected reloads and watch errors.
// Errors are dropped if nobody listens.
func (w *Watcher) Errors() <-chan error {
	return w.errChan
}

// Watch starts watching the configuration file.
func (w *Watcher) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files instead of writing them.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = watcher
	go w.watchLoop(watcher)
	return nil
}

func (w *Watcher) watchLoop(watcher *fsnotify.Watcher) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				if w.ctx.Err() == nil {
					_ = w.Reload()
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// Reload re-reads the file. If the file is invalid the previous snapshot
// stays active and the error is returned.
func (w *Watcher) Reload() error {
	snap, err := LoadFile(w.path)
	if err != nil {
		tracer().Errorf("keyconfig: reload rejected, keeping previous configuration: %v", err)
		err = fmt.Errorf("reload config: %w", err)
		w.report(err)
		return err
	}
	w.mu.Lock()
	w.snapshot = snap
	w.mu.Unlock()
	tracer().Infof("keyconfig: reloaded %s", w.path)
	for _, cb := range w.onChange {
		cb(snap)
	}
	return nil
}

func (w *Watcher) report(err error) {
	select {
	case w.errChan <- err:
	default:
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
