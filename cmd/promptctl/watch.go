package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// documentWatcher re-renders a document whenever it changes on disk. It
// watches the containing directory because editors commonly replace the
// file on save.
type documentWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange func()

	debounceDur time.Duration

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// newDocumentWatcher creates a watcher for one document path.
func newDocumentWatcher(path string, onChange func()) (*documentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &documentWatcher{
		watcher:     watcher,
		path:        filepath.Clean(path),
		onChange:    onChange,
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *documentWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		_ = w.watcher.Close()
		return err
	}

	go w.loop(ctx)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit. Safe
// to call whether or not Start ever ran.
func (w *documentWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *documentWatcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	// Trailing-edge debounce: a burst of saves collapses into a single
	// callback fired once the burst goes quiet, so the last save always
	// gets rendered.
	timer := time.NewTimer(w.debounceDur)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-timer.C:
			w.onChange()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounceDur)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// runWatch renders once, then re-renders on every change until interrupted.
func runWatch(cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	render := func() {
		out, err := renderDocument(path)
		if err != nil {
			logger.Error("render failed", zap.String("path", path), zap.Error(err))
			return
		}
		if err := emit(out); err != nil {
			logger.Error("write failed", zap.Error(err))
		}
	}
	render()

	w, err := newDocumentWatcher(path, render)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	logger.Info("watching document", zap.String("path", path))

	<-ctx.Done()
	w.Stop()
	return nil
}
