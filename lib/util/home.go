package util

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// ErrNoConfigHome is returned when neither the platform config directory nor a
// home directory can be determined.
var ErrNoConfigHome = errors.New("unable to determine user configuration directory")

// UserHome returns the current user's home directory.
// Falls back to the $HOME environment variable if os.UserHomeDir fails.
// Returns an empty string when neither is available.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv("HOME"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
			return home
		}
		log.WithError(err).Warn("home directory unavailable")
		return ""
	}
	return homeDir
}

// ConfigHome returns the platform's per-user configuration directory
// ($XDG_CONFIG_HOME or ~/.config on Linux, ~/Library/Application Support on
// macOS). When the platform lookup fails it falls back to <home>/.config.
// It never falls back to the current directory; when no home is known either,
// it returns ErrNoConfigHome.
func ConfigHome() (string, error) {
	dir, err := os.UserConfigDir()
	if err == nil && dir != "" {
		return dir, nil
	}
	if home := UserHome(); home != "" {
		fallback := filepath.Join(home, ".config")
		log.WithFields(logger.Fields{
			"at":       "ConfigHome",
			"fallback": fallback,
		}).Debug("platform config directory unavailable, using home")
		return fallback, nil
	}
	return "", ErrNoConfigHome
}
