package signals

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-i2p/logger"
)

// defaultGracefulTimeout is the maximum time shutdown handlers get before
// Drained is closed regardless.
const defaultGracefulTimeout = 30 * time.Second

// Handler is a function called when a signal is received.
type Handler func()

// HandlerID identifies a registered handler for Deregister.
type HandlerID int

// registeredHandler pairs a handler with its unique ID.
type registeredHandler struct {
	id HandlerID
	fn Handler
}

type hookRegistry struct {
	mu              sync.RWMutex
	reloaders       []registeredHandler
	stoppers        []registeredHandler
	nextID          HandlerID
	gracefulTimeout time.Duration
	drained         chan struct{}
}

func (h *hookRegistry) init() {
	h.gracefulTimeout = defaultGracefulTimeout
	h.drained = make(chan struct{})
}

// OnReload registers f to run after every reload pulse. Handlers run in
// registration order on a separate goroutine, so a slow handler never delays
// TriggerReload. Nil handlers are ignored and return -1.
func (c *Coordinator) OnReload(f Handler) HandlerID {
	return c.hooks.add(&c.hooks.reloaders, f)
}

// OnShutdown registers f to run once when shutdown is triggered. Handlers run
// in registration order, each protected against panics, and together are
// bounded by the graceful timeout. Nil handlers are ignored and return -1.
//
// Handlers registered after shutdown has been triggered never run.
func (c *Coordinator) OnShutdown(f Handler) HandlerID {
	return c.hooks.add(&c.hooks.stoppers, f)
}

// Deregister removes a handler previously returned by OnReload or OnShutdown.
// Unknown IDs are ignored.
func (c *Coordinator) Deregister(id HandlerID) {
	h := &c.hooks
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reloaders = removeHandler(h.reloaders, id)
	h.stoppers = removeHandler(h.stoppers, id)
}

// SetGracefulTimeout bounds how long shutdown handlers may run. Zero or
// negative values restore the 30 second default.
func (c *Coordinator) SetGracefulTimeout(timeout time.Duration) {
	h := &c.hooks
	h.mu.Lock()
	defer h.mu.Unlock()
	if timeout <= 0 {
		h.gracefulTimeout = defaultGracefulTimeout
	} else {
		h.gracefulTimeout = timeout
	}
}

// Drained returns a channel closed once shutdown has been triggered and every
// shutdown handler has returned, or the graceful timeout has expired.
func (c *Coordinator) Drained() <-chan struct{} {
	return c.hooks.drained
}

func (h *hookRegistry) add(list *[]registeredHandler, f Handler) HandlerID {
	if f == nil {
		return -1
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	*list = append(*list, registeredHandler{id: id, fn: f})
	return id
}

func removeHandler(list []registeredHandler, id HandlerID) []registeredHandler {
	for i, r := range list {
		if r.id == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func (h *hookRegistry) snapshot(list []registeredHandler) []registeredHandler {
	out := make([]registeredHandler, len(list))
	copy(out, list)
	return out
}

func (h *hookRegistry) dispatchReload() {
	h.mu.RLock()
	handlers := h.snapshot(h.reloaders)
	h.mu.RUnlock()
	if len(handlers) == 0 {
		return
	}
	go runHandlers("reload", handlers)
}

func (h *hookRegistry) dispatchShutdown() {
	h.mu.RLock()
	handlers := h.snapshot(h.stoppers)
	timeout := h.gracefulTimeout
	h.mu.RUnlock()

	go func() {
		defer close(h.drained)
		if len(handlers) == 0 {
			return
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			runHandlers("shutdown", handlers)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			log.WithFields(logger.Fields{
				"at":      "(Coordinator) dispatchShutdown",
				"timeout": timeout.String(),
			}).Warn("shutdown handlers timed out")
		}
	}()
}

func runHandlers(kind string, handlers []registeredHandler) {
	for _, r := range handlers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					log.WithFields(logger.Fields{
						"at":      "runHandlers",
						"kind":    kind,
						"handler": int(r.id),
						"panic":   fmt.Sprint(p),
					}).Error("panic in signal handler")
				}
			}()
			r.fn()
		}()
	}
}
