package config

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Format names an on-disk serialization.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension, without the dot, used for f.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "toml"
	}
}

// Codec converts configuration values to and from their textual form.
// Marshal must produce human-editable output that Unmarshal reads back into
// an equal value.
type Codec interface {
	Format() Format
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CodecFor returns the built-in codec for f. Formats other than TOML and YAML
// fail with ErrUnsupportedFormat.
func CodecFor(f Format) (Codec, error) {
	switch f {
	case FormatTOML, "":
		return TOMLCodec{}, nil
	case FormatYAML:
		return YAMLCodec{}, nil
	default:
		return nil, oops.In("config").
			With("format", string(f)).
			Wrapf(ErrUnsupportedFormat, "codec for %q", string(f))
	}
}

// TOMLCodec encodes with go-toml, indenting nested tables.
type TOMLCodec struct{}

func (TOMLCodec) Format() Format { return FormatTOML }

func (TOMLCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (TOMLCodec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// YAMLCodec encodes with yaml.v3 using two-space indentation.
type YAMLCodec struct{}

func (YAMLCodec) Format() Format { return FormatYAML }

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// decodeError wraps a codec failure for path, lifting the position out of
// go-toml diagnostics when one is available.
func decodeError(path string, err error) error {
	e := &Error{Kind: KindInvalidFormat, Op: "decode", Path: path, Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		e.Line, e.Column = de.Position()
	}
	return e
}
