// Package config loads an application's typed configuration from a single
// file.
//
// # Path resolution
//
// A Store is bound to one file, chosen once when the store is built:
//
//  1. an explicit path (usually from --config) if given;
//  2. otherwise Options.ConfigDir joined with the file name;
//  3. otherwise <user config dir>/.<AppName>/<file name>.
//
// The file name is Options.FileName or "config.<ext>", where ext follows
// Options.Format (TOML unless set).
//
// # Defaults
//
// When the file does not exist, Load writes the default value of the
// configuration type and then reads it back. The default is the zero value,
// refined by SetDefaults when the type implements Defaulter. The write goes to
// a temporary sibling which is synced and then renamed over the final path, so
// a crash never leaves a truncated file behind.
//
// # Reload
//
// Reload reads the same file again and returns a complete new value. Fields
// missing from the file take their defaults; nothing is carried over from the
// previous value.
//
// # Usage
//
//	store, err := config.NewStore[MyConfig](args.ConfigPath, config.Options{AppName: "myapp"})
//	if err != nil {
//	    return err
//	}
//	cfg, err := store.Load()
package config
