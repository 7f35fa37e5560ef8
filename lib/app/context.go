package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/go-i2p/go-appbase/lib/cli"
	"github.com/go-i2p/go-appbase/lib/config"
	"github.com/go-i2p/go-appbase/lib/util"
	"github.com/go-i2p/go-appbase/lib/util/signals"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// Context bundles everything one application run needs: the loaded
// configuration, the parsed arguments and the signal coordinator.
type Context[C any] struct {
	// Args are the parsed command-line arguments.
	Args cli.Args
	// Signals is the process-wide shutdown/reload coordinator. Run does not
	// install OS listeners; call Signals.Install from the application.
	Signals *signals.Coordinator

	mu       sync.RWMutex
	config   C
	store    *config.Store[C]
	closers  util.Closers
	watching atomic.Bool
}

// NewContext returns a Context with configuration loading disabled, holding
// cfg as its fixed configuration. It lets applications exercise their Run
// method in tests without touching the filesystem. A nil coordinator is
// replaced with a fresh one.
func NewContext[C any](cfg C, args cli.Args, coordinator *signals.Coordinator) *Context[C] {
	return newContext[C](cfg, nil, args, coordinator)
}

func newContext[C any](cfg C, store *config.Store[C], args cli.Args, coordinator *signals.Coordinator) *Context[C] {
	if coordinator == nil {
		coordinator = signals.New()
	}
	return &Context[C]{
		Args:    args,
		Signals: coordinator,
		config:  cfg,
		store:   store,
	}
}

// Config returns the current configuration value.
func (c *Context[C]) Config() C {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ConfigEnabled reports whether this run loads its configuration from a file.
// When false, Config returns the type's default and Reload fails.
func (c *Context[C]) ConfigEnabled() bool {
	return c.store != nil
}

// ConfigPath returns the resolved configuration file, or "" when
// configuration is disabled.
func (c *Context[C]) ConfigPath() string {
	if c.store == nil {
		return ""
	}
	return c.store.Path()
}

// Reload reads the configuration file again and replaces the current value
// wholesale. On error the current value is kept. Concurrent reloads are not
// serialized; the last one to finish wins.
func (c *Context[C]) Reload() error {
	if c.store == nil {
		return ErrConfigDisabled
	}
	cfg, err := c.store.Reload()
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at":   "(Context) Reload",
			"path": c.store.Path(),
		}).Warn("config reload failed")
		return oops.In("app").Wrapf(err, "reloading configuration")
	}

	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()

	log.WithFields(logger.Fields{
		"at":   "(Context) Reload",
		"path": c.store.Path(),
	}).Info("configuration reloaded")
	return nil
}

// RegisterCloser arranges for closer to be closed when Run returns, in
// reverse registration order.
func (c *Context[C]) RegisterCloser(closer io.Closer) {
	c.closers.Register(closer)
}

// WatchConfig starts watching the configuration file and turns every change
// into a reload pulse on Signals, exactly as SIGHUP would. Bursts of changes
// are coalesced. The watcher stops when Run returns. Calling it again is a
// no-op.
func (c *Context[C]) WatchConfig() error {
	if c.store == nil {
		return ErrConfigDisabled
	}
	if !c.watching.CompareAndSwap(false, true) {
		return nil
	}
	w, err := newConfigWatcher(c.store.Path(), configWatchInterval, c.Signals.TriggerReload)
	if err != nil {
		c.watching.Store(false)
		return oops.In("app").Wrapf(err, "watching configuration")
	}
	c.closers.Register(w)
	return nil
}
