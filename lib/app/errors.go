package app

import "errors"

var (
	// ErrConfigDisabled is returned by Context.Reload when the run was started
	// without a configuration location.
	ErrConfigDisabled = errors.New("app: configuration loading is not enabled for this run")
	// ErrInsufficientPrivilege is returned by Run when the application requires
	// root and the effective user is not root.
	ErrInsufficientPrivilege = errors.New("app: this application must be run as root")
)
