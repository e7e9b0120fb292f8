// Package signal translates SIGINT and SIGTERM into context cancellation so
// in-flight hooks stop and pending ones report as incomplete rather than
// being silently dropped.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context on the first interrupt signal and remembers
// that the interruption happened so main can map it to the right exit code.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns this context's lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
	sigs        chan os.Signal
}

// NewHandler starts listening for SIGINT and SIGTERM. The first signal
// cancels the handler's context and closes Interrupted; repeats are drained
// and ignored.
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// Buffered so signal.Notify never drops a signal while listen is busy.
		sigs: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigs, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interruption. Run everything
// interruptible under it.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed once an interrupt signal arrived.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Stop unregisters the signal handler and cancels the context.
// Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigs)
		close(h.done)
		h.cancel()
	})
}

// interrupt records the first signal.
func (h *Handler) interrupt() {
	h.once.Do(func() {
		h.cancel()
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigs:
			h.interrupt()
		}
	}
}
