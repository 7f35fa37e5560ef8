package app

import "github.com/go-i2p/go-appbase/lib/config"

// ConfigLocation tells Run where an application's configuration lives when
// --config is not given. Passing a nil *ConfigLocation to Run disables
// configuration loading for that run.
type ConfigLocation struct {
	AppName   string
	ConfigDir string
	FileName  string
	Format    config.Format
}

// NewConfigLocation returns a location under the platform config home,
// in ".<appName>/config.toml".
func NewConfigLocation(appName string) *ConfigLocation {
	return &ConfigLocation{AppName: appName}
}

// WithDir replaces the platform default directory.
func (l *ConfigLocation) WithDir(dir string) *ConfigLocation {
	l.ConfigDir = dir
	return l
}

// WithFileName replaces the default "config.<ext>" file name.
func (l *ConfigLocation) WithFileName(name string) *ConfigLocation {
	l.FileName = name
	return l
}

// WithFormat selects the file format.
func (l *ConfigLocation) WithFormat(f config.Format) *ConfigLocation {
	l.Format = f
	return l
}

// Options converts the location into config store options.
func (l *ConfigLocation) Options() config.Options {
	return config.Options{
		AppName:   l.AppName,
		ConfigDir: l.ConfigDir,
		FileName:  l.FileName,
		Format:    l.Format,
	}
}
