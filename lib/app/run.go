package app

import (
	"github.com/go-i2p/go-appbase/lib/cli"
	"github.com/go-i2p/go-appbase/lib/config"
	"github.com/go-i2p/go-appbase/lib/util/signals"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

// App is an application runnable by Run. C is its configuration type; it must
// be encodable by the configuration codec, and may implement
// config.Defaulter to provide non-zero defaults.
type App[C any] interface {
	Run(ctx *Context[C]) error
}

// PrivilegedApp is implemented by applications that need more than User
// privilege.
type PrivilegedApp interface {
	Privilege() Privilege
}

func requiredPrivilege(a any) Privilege {
	if p, ok := a.(PrivilegedApp); ok {
		return p.Privilege()
	}
	return User
}

// Run checks privileges, loads the configuration, builds a Context and runs
// the application. Resources registered on the Context are closed when the
// application returns.
//
// When loc is nil configuration loading is disabled: the application sees the
// default value of C and Context.Reload returns ErrConfigDisabled. Otherwise
// args.ConfigPath, if set, overrides loc.
//
// Run never prints or exits; every failure is returned.
func Run[C any](a App[C], loc *ConfigLocation, args cli.Args) (err error) {
	required := requiredPrivilege(a)
	if err := CheckPrivilege(required); err != nil {
		log.WithFields(logger.Fields{
			"at":       "Run",
			"required": required.String(),
		}).Error("insufficient privilege")
		return err
	}

	var (
		cfg   C
		store *config.Store[C]
	)
	if loc != nil {
		store, err = config.NewStore[C](args.ConfigPath, loc.Options())
		if err != nil {
			return oops.In("app").Wrapf(err, "resolving configuration path")
		}
		cfg, err = store.Load()
		if err != nil {
			return oops.In("app").Wrapf(err, "loading configuration")
		}
	} else {
		log.WithField("at", "Run").Debug("configuration loading disabled")
		cfg = config.Default[C]()
	}

	ctx := newContext(cfg, store, args, signals.New())
	defer func() {
		if cerr := ctx.closers.CloseAll(); cerr != nil && err == nil {
			err = oops.In("app").Wrapf(cerr, "closing resources")
		}
	}()

	log.WithFields(logger.Fields{
		"at":          "Run",
		"config_path": ctx.ConfigPath(),
	}).Debug("starting application")
	return a.Run(ctx)
}
