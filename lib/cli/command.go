package cli

import (
	"github.com/go-i2p/go-appbase/lib/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunFunc is called by a command built with NewCommand once flags are parsed.
// positional holds the non-flag arguments.
type RunFunc func(cmd *cobra.Command, args Args, positional []string) error

// NewCommand returns a cobra root command carrying the standard flags. Usage
// and error printing are left to the caller, which sees run's error from
// Execute.
func NewCommand(use, short string, run RunFunc) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			return run(cmd, ArgsFrom(v), positional)
		},
	}
	if err := BindFlags(cmd.PersistentFlags(), v); err != nil {
		// Only reachable if a flag above is misnamed.
		util.Panicf("cli: %v", err)
	}
	return cmd
}
