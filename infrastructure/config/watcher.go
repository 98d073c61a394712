package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDuration = 100 * time.Millisecond

// Watcher reloads the YAML config file when it changes and notifies subscribers
type Watcher struct {
	path        string
	watcher     *fsnotify.Watcher
	logger      *zap.Logger
	mu          sync.RWMutex
	current     *FileConfig
	subscribers []func(*FileConfig)
	stopCh      chan struct{}
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewWatcher loads path and prepares to watch it. The directory is watched
// so editors that save by rename are picked up.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	current, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:    path,
		watcher: fw,
		logger:  logger,
		current: current,
		stopCh:  make(chan struct{}),
	}, nil
}

// Subscribe registers fn for every successful reload
func (w *Watcher) Subscribe(fn func(*FileConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Current returns the last valid file config
func (w *Watcher) Current() *FileConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start begins watching in a background goroutine
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop ends the watch loop and waits for it to exit
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.wg.Wait()
		w.logger.Info("Configuration watcher stopped")
	})
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDuration)
			} else {
				debounce.Reset(debounceDuration)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				w.logger.Error("Invalid configuration, keeping current", zap.Error(err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

// Reload re-reads the file and notifies subscribers on success
func (w *Watcher) Reload() error {
	next, err := LoadFile(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	previous := w.current
	w.current = next
	subscribers := append([]func(*FileConfig){}, w.subscribers...)
	w.mu.Unlock()

	if previous.GateFailurePolicy != next.GateFailurePolicy {
		w.logger.Info("Gate failure policy changed",
			zap.String("from", previous.GateFailurePolicy),
			zap.String("to", next.GateFailurePolicy),
		)
	}
	for _, fn := range subscribers {
		fn(next)
	}
	w.logger.Info("Configuration reloaded", zap.String("path", w.path))
	return nil
}
