// Package watcher turns bursts of OS window lifecycle events into single
// "the window list may have changed" notifications.
package watcher

import (
	"context"
	"sync/atomic"
	"time"

	"taskdeck/internal/infrastructure/logging"
	"taskdeck/internal/platform"
)

// EventSource delivers window lifecycle events until ctx is cancelled
type EventSource interface {
	Listen(ctx context.Context, handler platform.WindowEventHandler) error
}

// Watcher debounces window events from an EventSource.
//
// It moves from stopped to running once and stays running for the life of
// the process. There is no Stop; cancelling the context given to Start tears
// the hook down, which only happens at application exit.
type Watcher struct {
	source EventSource
	quiet  time.Duration
	logger logging.Logger

	running  atomic.Bool
	debounce atomic.Bool
	// sink is written once by the first Start and only read afterwards
	sink atomic.Pointer[func()]
}

// New creates a Watcher that emits at most one notification per quiet period
func New(source EventSource, quiet time.Duration, logger logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Watcher{
		source: source,
		quiet:  quiet,
		logger: logger,
	}
}

// Start launches the background listener and reports whether this call did
// so. Only the first call has effect while the watcher is running; later
// calls return false. If the hook cannot be installed the watcher returns to
// stopped, and a later Start may try again.
//
// The first non-nil sink is kept for the life of the Watcher. Sinks passed
// to later calls are ignored.
func (w *Watcher) Start(ctx context.Context, sink func()) bool {
	if sink == nil {
		w.logger.Warn("Watcher start ignored: nil notification sink")
		return false
	}
	if !w.running.CompareAndSwap(false, true) {
		return false
	}

	w.sink.CompareAndSwap(nil, &sink)

	go w.run(ctx)
	return true
}

// IsRunning reports whether a listener is active or being installed
func (w *Watcher) IsRunning() bool {
	return w.running.Load()
}

func (w *Watcher) run(ctx context.Context) {
	w.logger.Info("Window watcher starting", "quiet_period_ms", w.quiet.Milliseconds())

	if err := w.source.Listen(ctx, w.handleEvent); err != nil {
		logging.LogError(w.logger, err, "watch_windows", map[string]interface{}{
			"retryable": true,
		})
		w.running.Store(false)
		return
	}

	w.logger.Info("Window watcher stopped")
}

// handleEvent runs on the hook's thread. Only the caller that wins the
// debounce flag emits; the flag is cleared once the quiet period has passed.
func (w *Watcher) handleEvent(ev platform.WindowEvent) {
	if !platform.IsWindowLifecycleEvent(ev) {
		return
	}
	if !w.debounce.CompareAndSwap(false, true) {
		return
	}

	if sink := w.sink.Load(); sink != nil {
		(*sink)()
	}

	time.AfterFunc(w.quiet, func() {
		w.debounce.Store(false)
	})
}
