// Package cli declares the command-line flags every application built on
// go-appbase understands and turns them into Args.
package cli

import (
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
)

// Args are the parsed command-line arguments handed to an application.
type Args struct {
	// ConfigPath is the explicit configuration file from --config. Empty
	// means "use the default location".
	ConfigPath string
	// Verbose is set by --verbose.
	Verbose bool
}

// BindFlags declares --config/-c and --verbose/-v on fs and binds them into v.
// Environment variables are deliberately not bound.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.StringP(FlagConfig, "c", "", "path to the configuration file")
	fs.BoolP(FlagVerbose, "v", false, "enable verbose output")

	for _, name := range []string{FlagConfig, FlagVerbose} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return oops.In("cli").Wrapf(err, "binding --%s", name)
		}
	}
	return nil
}

// ArgsFrom reads the bound flags back out of v.
func ArgsFrom(v *viper.Viper) Args {
	return Args{
		ConfigPath: v.GetString(FlagConfig),
		Verbose:    v.GetBool(FlagVerbose),
	}
}
