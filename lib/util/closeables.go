package util

import (
	"errors"
	"io"
	"sync"
)

// Closers collects io.Closer instances to be released at the end of an
// application run. The zero value is ready to use and safe for concurrent use.
type Closers struct {
	mu      sync.Mutex
	closers []io.Closer
}

// Register adds c to the set. Nil closers are ignored.
func (cs *Closers) Register(c io.Closer) {
	if c == nil {
		return
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.closers = append(cs.closers, c)
	log.WithField("count", len(cs.closers)).Debug("Registered closer")
}

// Len reports how many closers are currently registered.
func (cs *Closers) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.closers)
}

// CloseAll closes every registered closer in reverse registration order and
// clears the set. Every closer is called even if an earlier one fails; the
// failures are joined into the returned error.
func (cs *Closers) CloseAll() error {
	cs.mu.Lock()
	snapshot := cs.closers
	cs.closers = nil
	cs.mu.Unlock()

	log.WithField("count", len(snapshot)).Debug("Closing all registered closers")

	var errs []error
	for i := len(snapshot) - 1; i >= 0; i-- {
		if err := snapshot[i].Close(); err != nil {
			log.WithError(err).Warn("Error closing resource")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
