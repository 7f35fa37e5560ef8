// Package signals coordinates process shutdown and configuration reload.
//
// A Coordinator models two logical signals:
//
//   - shutdown is a latch. It moves from running to shutting down exactly once
//     and never back. Every waiter, including those arriving later, observes it.
//   - reload is a pulse. Each pulse wakes the goroutines waiting at that moment
//     and nothing else; a pulse nobody waits for is lost.
//
// Both can be driven manually (TriggerShutdown, TriggerReload) or, after
// Install, by SIGINT/SIGTERM and SIGHUP.
package signals

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Coordinator is the process-wide source of truth for shutdown and reload
// requests. Create one with New at startup and share the pointer; all methods
// are safe for concurrent use.
type Coordinator struct {
	shutdownFlag atomic.Bool
	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	reloadMu      sync.Mutex
	reloadCh      chan struct{}
	reloadWaiters atomic.Int32

	installed atomic.Bool

	hooks hookRegistry
}

// New returns a coordinator in the running state with no listeners installed.
func New() *Coordinator {
	c := &Coordinator{
		shutdownCh: make(chan struct{}),
		reloadCh:   make(chan struct{}),
	}
	c.hooks.init()
	return c
}

// IsShutdown reports whether shutdown has been triggered. It never blocks.
func (c *Coordinator) IsShutdown() bool {
	return c.shutdownFlag.Load()
}

// ShutdownC returns a channel that is closed once shutdown is triggered.
func (c *Coordinator) ShutdownC() <-chan struct{} {
	return c.shutdownCh
}

// WaitShutdown blocks until shutdown is triggered or ctx is done. It returns
// nil at once if shutdown already happened, and ctx.Err() if ctx ended first.
func (c *Coordinator) WaitShutdown(ctx context.Context) error {
	select {
	case <-c.shutdownCh:
		return nil
	default:
	}
	select {
	case <-c.shutdownCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerShutdown moves the coordinator to the shutting-down state and wakes
// every waiter. Calls after the first are no-ops.
func (c *Coordinator) TriggerShutdown() {
	c.shutdown("manual")
}

func (c *Coordinator) shutdown(source string) {
	c.shutdownOnce.Do(func() {
		log.WithFields(logger.Fields{
			"at":     "(Coordinator) shutdown",
			"source": source,
		}).Debug("shutdown triggered")
		// The flag is stored before the channel is closed so any goroutine
		// woken by the close also sees IsShutdown() == true.
		c.shutdownFlag.Store(true)
		close(c.shutdownCh)
		c.hooks.dispatchShutdown()
	})
}

// WaitReload blocks until the next reload pulse after the call, or until ctx
// is done. Each call waits for exactly one future pulse.
func (c *Coordinator) WaitReload(ctx context.Context) error {
	c.reloadMu.Lock()
	ch := c.reloadCh
	c.reloadWaiters.Add(1)
	c.reloadMu.Unlock()
	defer c.reloadWaiters.Add(-1)

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerReload wakes every goroutine currently blocked in WaitReload. No
// pending state is kept: a waiter that arrives afterwards waits for the next
// pulse.
func (c *Coordinator) TriggerReload() {
	c.reload("manual")
}

func (c *Coordinator) reload(source string) {
	c.reloadMu.Lock()
	close(c.reloadCh)
	c.reloadCh = make(chan struct{})
	c.reloadMu.Unlock()

	log.WithFields(logger.Fields{
		"at":     "(Coordinator) reload",
		"source": source,
	}).Debug("reload triggered")
	c.hooks.dispatchReload()
}

// waitingForReload reports the number of goroutines blocked in WaitReload.
func (c *Coordinator) waitingForReload() int {
	return int(c.reloadWaiters.Load())
}
