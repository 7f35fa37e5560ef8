package config

import (
	"reflect"

	"github.com/go-i2p/logger"
	"github.com/spf13/afero"
)

// Defaulter is implemented by configuration types whose default is not their
// zero value. SetDefaults is called on a zero value before it is written as
// the default file and before every decode, so fields absent from the file
// keep their defaults. A field the file does set replaces its default
// entirely; map entries are never merged.
type Defaulter interface {
	SetDefaults()
}

// Default returns the default value of T: its zero value, refined by
// SetDefaults when *T implements Defaulter.
func Default[T any]() T {
	var v T
	if d, ok := any(&v).(Defaulter); ok {
		d.SetDefaults()
	}
	return v
}

// StoreOption customizes a Store.
type StoreOption func(*storeSettings)

type storeSettings struct {
	fs    afero.Fs
	codec Codec
}

// WithFs makes the store operate on fs instead of the OS filesystem.
func WithFs(fs afero.Fs) StoreOption {
	return func(s *storeSettings) { s.fs = fs }
}

// WithCodec overrides the codec chosen from Options.Format or the path.
func WithCodec(c Codec) StoreOption {
	return func(s *storeSettings) { s.codec = c }
}

// Store loads, reloads and saves a configuration of type T at a single path.
// The path is resolved once by NewStore; later changes to the command line or
// to the Options value the store was built from have no effect on it.
//
// A Store holds no mutable state, so concurrent calls are safe. Concurrent
// Reloads are not serialized: callers replacing an in-memory value from
// overlapping reloads get last-writer-wins.
type Store[T any] struct {
	fs    afero.Fs
	path  string
	opts  Options
	codec Codec
}

// NewStore resolves the configuration path from cliPath and opts and returns a
// Store bound to it. It fails with ErrDirectoryNotFound when cliPath is empty
// and no default directory can be determined.
func NewStore[T any](cliPath string, opts Options, options ...StoreOption) (*Store[T], error) {
	settings := storeSettings{fs: afero.NewOsFs()}
	for _, o := range options {
		o(&settings)
	}

	path, err := ResolvePath(cliPath, opts)
	if err != nil {
		return nil, err
	}

	codec := settings.codec
	if codec == nil {
		format := opts.Format
		if format == "" {
			format = inferFormat(path)
		}
		codec, err = CodecFor(format)
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(logger.Fields{
		"at":     "NewStore",
		"path":   path,
		"format": codec.Format(),
	}).Debug("resolved config path")

	return &Store[T]{
		fs:    settings.fs,
		path:  path,
		opts:  opts,
		codec: codec,
	}, nil
}

// Load is shorthand for NewStore followed by Store.Load on the OS filesystem.
func Load[T any](cliPath string, opts Options) (T, error) {
	s, err := NewStore[T](cliPath, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Load()
}

// Path returns the resolved configuration file path.
func (s *Store[T]) Path() string { return s.path }

// Options returns a copy of the options the store was built from.
func (s *Store[T]) Options() Options { return s.opts }

// Format returns the format of the store's codec.
func (s *Store[T]) Format() Format { return s.codec.Format() }

// Load reads and decodes the configuration file. When the file does not exist
// the default value of T is written first.
func (s *Store[T]) Load() (T, error) {
	var zero T

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return zero, ioError("stat", s.path, err)
	}
	if !exists {
		log.WithField("path", s.path).Debug("config file not found, creating default")
		if err := WriteDefault(s.fs, s.path, s.codec, Default[T]()); err != nil {
			return zero, err
		}
	}

	log.WithField("path", s.path).Debug("loading config")
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return zero, ioError("read", s.path, err)
	}

	var doc map[string]any
	err = s.codec.Unmarshal(data, &doc)
	cfg := Default[T]()
	if err == nil {
		dropReplacedMaps(reflect.ValueOf(&cfg).Elem(), doc, string(s.codec.Format()))
		err = s.codec.Unmarshal(data, &cfg)
	}
	if err != nil {
		log.WithFields(logger.Fields{
			"at":    "(Store) Load",
			"path":  s.path,
			"error": err.Error(),
		}).Debug("invalid config file")
		return zero, decodeError(s.path, err)
	}

	log.WithField("path", s.path).Debug("config loaded successfully")
	return cfg, nil
}

// Reload re-runs Load against the path captured at construction. The returned
// value is complete: it replaces the caller's value, it is not merged into it.
func (s *Store[T]) Reload() (T, error) {
	log.WithField("path", s.path).Debug("reloading config")
	return s.Load()
}

// Save atomically replaces the configuration file with v.
func (s *Store[T]) Save(v T) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return &Error{Kind: KindSerialize, Op: "encode", Path: s.path, Err: err}
	}
	if err := writeAtomic(s.fs, s.path, data); err != nil {
		return err
	}
	log.WithField("path", s.path).Debug("config saved")
	return nil
}
