//go:build unix

package app

import "golang.org/x/sys/unix"

func effectiveUID() int {
	return unix.Geteuid()
}
