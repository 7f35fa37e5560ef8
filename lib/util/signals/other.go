//go:build !unix

package signals

import "github.com/go-i2p/go-appbase/lib/util"

// Install is unsupported outside unix and panics so a misbuilt binary fails
// at startup rather than silently ignoring termination signals.
func (c *Coordinator) Install() {
	util.Panicf("signals: OS signal listeners are only supported on unix platforms")
}
