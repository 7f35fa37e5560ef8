// Package app wires configuration, command-line arguments and lifecycle
// signals together and runs an application with them.
//
// # Basic Usage
//
//	type server struct{}
//
//	func (server) Run(ctx *app.Context[Config]) error {
//	    ctx.Signals.Install()
//	    ctx.Signals.OnReload(func() { _ = ctx.Reload() })
//	    return ctx.Signals.WaitShutdown(context.Background())
//	}
//
//	cmd := cli.NewCommand("server", "example", func(_ *cobra.Command, args cli.Args, _ []string) error {
//	    return app.Run[Config](server{}, app.NewConfigLocation("server"), args)
//	})
//
// # Lifecycle
//
// Run performs, in order:
//  1. the privilege check (PrivilegedApp), before anything touches the disk;
//  2. configuration load, writing a default file on first run, unless the
//     location is nil;
//  3. the application's Run with a fresh Context;
//  4. closing every resource registered on the Context.
package app
