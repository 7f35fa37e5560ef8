//go:build unix

package signals

import (
	"os"
	"os/signal"

	"github.com/go-i2p/go-appbase/lib/util"
	"github.com/go-i2p/logger"
	"golang.org/x/sys/unix"
)

// notify is signal.Notify, replaced in tests.
var notify = signal.Notify

// Install starts listening for OS signals: SIGINT and SIGTERM trigger
// shutdown, SIGHUP triggers a reload pulse. The listeners are registered
// before Install returns and then served by two goroutines that live for the
// rest of the process.
//
// Install panics if called more than once on the same Coordinator; a second
// set of listeners would either duplicate delivery or hide the first.
func (c *Coordinator) Install() {
	if !c.installed.CompareAndSwap(false, true) {
		util.Panicf("signals: Install called more than once")
	}

	shutdown := make(chan os.Signal, 1)
	notify(shutdown, unix.SIGINT, unix.SIGTERM)

	reload := make(chan os.Signal, 1)
	notify(reload, unix.SIGHUP)

	go c.listenShutdown(shutdown)
	go c.listenReload(reload)

	log.WithField("at", "(Coordinator) Install").Debug("signal listeners installed")
}

// listenShutdown handles the first termination signal. Later ones stay
// registered with os/signal and are dropped once the buffer is full, so a
// second Ctrl+C does not kill the process mid-shutdown.
func (c *Coordinator) listenShutdown(ch <-chan os.Signal) {
	sig := <-ch
	log.WithFields(logger.Fields{
		"at":     "(Coordinator) listenShutdown",
		"signal": sig.String(),
	}).Debug("received shutdown signal")
	c.shutdown(sig.String())
}

func (c *Coordinator) listenReload(ch <-chan os.Signal) {
	for sig := range ch {
		log.WithFields(logger.Fields{
			"at":     "(Coordinator) listenReload",
			"signal": sig.String(),
		}).Debug("received reload signal")
		c.reload(sig.String())
	}
}
