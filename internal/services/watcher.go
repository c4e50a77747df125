package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the bursts of events a single save produces
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher calls onChange after the document file changes on disk.
// It watches the parent directory because saves replace the file by rename.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	name     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewFileWatcher creates a watcher for path; call Start to begin
func NewFileWatcher(path string, debounce time.Duration, onChange func(ctx context.Context), logger *zap.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &FileWatcher{
		watcher:  w,
		dir:      filepath.Dir(abs),
		name:     filepath.Base(abs),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.Named("watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}
	if err := fw.watcher.Add(fw.dir); err != nil {
		return fmt.Errorf("watching %s: %w", fw.dir, err)
	}
	fw.running = true
	fw.logger.Info("watching presentation file", zap.String("path", filepath.Join(fw.dir, fw.name)))

	go fw.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the watcher
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		fw.watcher.Close()
		return
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh
	if err := fw.watcher.Close(); err != nil {
		fw.logger.Error("failed to close watcher", zap.Error(err))
	}
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fw.name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			fw.logger.Debug("presentation file event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			fw.onChange(ctx)
		}
	}
}
