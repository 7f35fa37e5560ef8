package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-i2p/go-appbase/lib/app"
	"github.com/go-i2p/go-appbase/lib/cli"
	"github.com/go-i2p/logger"
	"github.com/spf13/cobra"
)

var log = logger.GetGoI2PLogger()

const appName = "appbase-demo"

// demoConfig is written to ~/.config/.appbase-demo/config.toml on first run.
type demoConfig struct {
	Greeting       string `toml:"greeting" yaml:"greeting"`
	IntervalMillis int    `toml:"interval_millis" yaml:"interval_millis"`
	WatchFile      bool   `toml:"watch_file" yaml:"watch_file"`
}

func (c *demoConfig) SetDefaults() {
	c.Greeting = "hello from go-appbase"
	c.IntervalMillis = 5000
	c.WatchFile = true
}

func (c demoConfig) interval() time.Duration {
	if c.IntervalMillis <= 0 {
		return time.Second
	}
	return time.Duration(c.IntervalMillis) * time.Millisecond
}

// demoApp prints its greeting periodically, re-reads its configuration on
// SIGHUP or when the file changes, and exits cleanly on SIGINT/SIGTERM.
type demoApp struct {
	out *os.File
}

func (d demoApp) Run(ctx *app.Context[demoConfig]) error {
	ctx.Signals.Install()
	ctx.Signals.OnReload(func() {
		if err := ctx.Reload(); err != nil {
			log.WithError(err).Error("keeping previous configuration")
		}
	})
	if ctx.Config().WatchFile {
		if err := ctx.WatchConfig(); err != nil && !errors.Is(err, app.ErrConfigDisabled) {
			log.WithError(err).Warn("config file watching unavailable")
		}
	}

	log.WithFields(logger.Fields{
		"at":     "(demoApp) Run",
		"config": ctx.ConfigPath(),
	}).Info("started")

	for {
		cfg := ctx.Config()
		select {
		case <-ctx.Signals.ShutdownC():
			<-ctx.Signals.Drained()
			log.Info("shutdown complete")
			return nil
		case <-time.After(cfg.interval()):
			if ctx.Args.Verbose {
				fmt.Fprintf(d.out, "%s: %s (config %s)\n", time.Now().Format(time.TimeOnly), cfg.Greeting, ctx.ConfigPath())
			} else {
				fmt.Fprintln(d.out, cfg.Greeting)
			}
		}
	}
}

func newRootCommand() *cobra.Command {
	return cli.NewCommand(appName, "Demonstrates the go-appbase bootstrap scaffold",
		func(_ *cobra.Command, args cli.Args, _ []string) error {
			return app.Run[demoConfig](demoApp{out: os.Stdout}, app.NewConfigLocation(appName), args)
		})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
