//go:build !unix

package app

// effectiveUID has no meaning outside unix; report a non-root user so Root
// applications refuse to start.
func effectiveUID() int {
	return -1
}
