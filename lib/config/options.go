package config

import (
	"path/filepath"
	"strings"

	"github.com/go-i2p/go-appbase/lib/util"
	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// DefaultAppName is used when Options.AppName is empty.
const DefaultAppName = "go_unnamed_app"

// configFileBase is the file name, without extension, of a config file whose
// name was not given explicitly.
const configFileBase = "config"

// Options describes where a configuration file lives when no explicit path is
// given on the command line. Options are copied into a Store and never
// consulted again after it is constructed.
type Options struct {
	// AppName names the per-application subdirectory, ".<AppName>", under the
	// platform config home.
	AppName string
	// ConfigDir, when set, replaces "<config home>/.<AppName>".
	ConfigDir string
	// FileName, when set, replaces "config.<ext>".
	FileName string
	// Format selects the codec. When empty it is inferred from the resolved
	// path's extension, defaulting to TOML.
	Format Format
}

// DefaultOptions returns Options for an unnamed application.
func DefaultOptions() Options {
	return Options{AppName: DefaultAppName}
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) fileName() string {
	if o.FileName != "" {
		return o.FileName
	}
	f := o.Format
	if f == "" {
		f = FormatTOML
	}
	return configFileBase + "." + f.Extension()
}

// configHome is swapped in tests to simulate a platform without a config
// directory.
var configHome = util.ConfigHome

// ResolvePath returns the file a Store built from cliPath and opts would use.
// An explicit cliPath always wins. Otherwise the path is
// ConfigDir/<file> or <config home>/.<AppName>/<file>.
//
// It returns an error matching ErrDirectoryNotFound when the platform config
// home is needed but cannot be determined.
func ResolvePath(cliPath string, opts Options) (string, error) {
	if cliPath != "" {
		return cliPath, nil
	}
	if opts.ConfigDir != "" {
		return filepath.Join(opts.ConfigDir, opts.fileName()), nil
	}
	home, err := configHome()
	if err != nil || home == "" {
		return "", &Error{Kind: KindDirectoryNotFound, Op: "resolve", Err: err}
	}
	return filepath.Join(home, "."+opts.appName(), opts.fileName()), nil
}

// inferFormat picks a format from a file extension. Unknown extensions are
// treated as TOML.
func inferFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
