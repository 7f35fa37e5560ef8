package app

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-i2p/logger"
	"golang.org/x/time/rate"
)

// configWatchInterval is the minimum spacing between reload pulses produced
// by a config watcher.
var configWatchInterval = 250 * time.Millisecond

// configWatcher turns changes to one file into onChange calls. It watches the
// parent directory rather than the file so atomic replace-by-rename, which is
// how both editors and config.Store write, is observed.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	limiter  *rate.Limiter
	onChange func()

	pending atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
	once    sync.Once
}

func newConfigWatcher(path string, interval time.Duration, onChange func()) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &configWatcher{
		watcher:  w,
		path:     abs,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go cw.loop()

	log.WithFields(logger.Fields{
		"at":   "newConfigWatcher",
		"path": abs,
	}).Debug("watching configuration file")
	return cw, nil
}

func (cw *configWatcher) loop() {
	defer close(cw.done)
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cw.schedule()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("config watcher error")
		}
	}
}

// schedule arranges one onChange call no sooner than the limiter allows.
// Events arriving while a call is pending fold into it; because the pending
// call fires after them, the reload it causes reads their content.
func (cw *configWatcher) schedule() {
	if !cw.pending.CompareAndSwap(false, true) {
		return
	}
	delay := cw.limiter.Reserve().Delay()
	time.AfterFunc(delay, func() {
		cw.pending.Store(false)
		if cw.closed.Load() {
			return
		}
		cw.onChange()
	})
}

// Close stops the watcher. It is safe to call more than once.
func (cw *configWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		cw.closed.Store(true)
		err = cw.watcher.Close()
		<-cw.done
	})
	return err
}
