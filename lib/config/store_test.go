package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverSection struct {
	Host           string `toml:"host" yaml:"host"`
	Port           int    `toml:"port" yaml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

type testConfig struct {
	Name    string        `toml:"name" yaml:"name"`
	Debug   bool          `toml:"debug" yaml:"debug"`
	Workers int           `toml:"workers" yaml:"workers"`
	Server  serverSection `toml:"server" yaml:"server"`
}

func (c *testConfig) SetDefaults() {
	c.Name = "demo"
	c.Workers = 4
	c.Server = serverSection{Host: "localhost", Port: 8080, TimeoutSeconds: 30}
}

// plainConfig has no SetDefaults; its default is the zero value.
type plainConfig struct {
	Enabled bool   `toml:"enabled"`
	Label   string `toml:"label"`
}

func newMemStore(t *testing.T, cliPath string, opts Options) (*Store[testConfig], afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := NewStore[testConfig](cliPath, opts, WithFs(fs))
	require.NoError(t, err)
	return s, fs
}

// =============================================================================
// Default creation
// =============================================================================

func TestLoadCreatesDefaultFile(t *testing.T) {
	s, fs := newMemStore(t, "/etc/demo/config.toml", Options{})

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Default[testConfig](), cfg)

	exists, err := afero.Exists(fs, "/etc/demo/config.toml")
	require.NoError(t, err)
	assert.True(t, exists, "default file should have been written")

	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Default[testConfig](), again)
}

func TestLoadCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "c", "config.toml")

	cfg, err := Load[testConfig](path, Options{})
	require.NoError(t, err)
	assert.Equal(t, Default[testConfig](), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestLoadZeroValueDefault(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewStore[plainConfig]("/plain.toml", Options{}, WithFs(fs))
	require.NoError(t, err)

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, plainConfig{}, cfg)
}

func TestDefaultFileIsHumanReadable(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/config.toml", Options{})
	_, err := s.Load()
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/cfg/config.toml")
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "[server]")
	assert.Contains(t, text, "host")
	assert.Contains(t, text, "workers = 4")
	assert.Greater(t, strings.Count(text, "\n"), 4, "expected one key per line")
}

// =============================================================================
// Round trip
// =============================================================================

func TestCodecRoundTripDefaults(t *testing.T) {
	for _, codec := range []Codec{TOMLCodec{}, YAMLCodec{}} {
		t.Run(string(codec.Format()), func(t *testing.T) {
			want := Default[testConfig]()
			data, err := codec.Marshal(want)
			require.NoError(t, err)

			var got testConfig
			require.NoError(t, codec.Unmarshal(data, &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestYAMLStoreByExtension(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/app.yml", Options{})
	assert.Equal(t, FormatYAML, s.Format())

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Default[testConfig](), cfg)

	data, err := afero.ReadFile(fs, "/cfg/app.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "server:\n  host: localhost")
}

// =============================================================================
// Reload
// =============================================================================

func TestReloadReplacesWholeValue(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/config.toml", Options{})
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("name = 'custom'\nworkers = 16\n"), 0o644))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 16, cfg.Workers)

	// Drop workers from the file: reload must fall back to the default (4),
	// not keep the previous in-memory value (16).
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("name = 'edited'\n"), 0o644))
	cfg, err = s.Reload()
	require.NoError(t, err)
	assert.Equal(t, "edited", cfg.Name)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestReloadRecreatesDeletedFile(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/config.toml", Options{})
	_, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, fs.Remove(s.Path()))

	cfg, err := s.Reload()
	require.NoError(t, err)
	assert.Equal(t, Default[testConfig](), cfg)
}

// =============================================================================
// Path precedence
// =============================================================================

func TestExplicitPathWinsAndIsCaptured(t *testing.T) {
	opts := Options{AppName: "demo", ConfigDir: "/opts/dir"}
	s, fs := newMemStore(t, "/explicit/override.toml", opts)
	assert.Equal(t, "/explicit/override.toml", s.Path())

	// Mutating the caller's options must not move the store.
	opts.ConfigDir = "/somewhere/else"
	opts.AppName = "other"

	_, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/explicit/override.toml", []byte("name = 'override'\n"), 0o644))

	cfg, err := s.Reload()
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.Name)
	assert.Equal(t, "/explicit/override.toml", s.Path())
	assert.Equal(t, "/opts/dir", s.Options().ConfigDir)

	exists, err := afero.Exists(fs, "/opts/dir/config.toml")
	require.NoError(t, err)
	assert.False(t, exists)
}

// =============================================================================
// Bad file
// =============================================================================

func TestLoadInvalidTOML(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/config.toml", Options{})
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("name = 'ok'\nworkers = [unclosed\n"), 0o644))

	_, err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.NotErrorIs(t, err, ErrIO)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "/cfg/config.toml", cfgErr.Path)
	assert.Equal(t, KindInvalidFormat, cfgErr.Kind)
	assert.Equal(t, 2, cfgErr.Line)
	assert.Contains(t, err.Error(), "/cfg/config.toml")
}

func TestLoadWrongTypeTOML(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/config.toml", Options{})
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("workers = 'many'\n"), 0o644))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoadInvalidYAML(t *testing.T) {
	s, fs := newMemStore(t, "/cfg/config.yaml", Options{})
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("name: [unclosed\n"), 0o644))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrInvalidFormat)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "/cfg/config.yaml", cfgErr.Path)
}

func TestLoadUnreadablePathIsIOError(t *testing.T) {
	dir := t.TempDir()
	// The configured "file" is a directory.
	_, err := Load[testConfig](dir, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

// =============================================================================
// Serialize failures
// =============================================================================

type failingCodec struct{ TOMLCodec }

func (failingCodec) Marshal(any) ([]byte, error) { return nil, errors.New("cannot encode") }

func TestLoadSerializeFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewStore[testConfig]("/cfg/config.toml", Options{}, WithFs(fs), WithCodec(failingCodec{}))
	require.NoError(t, err)

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrSerialize)

	exists, err := afero.Exists(fs, "/cfg/config.toml")
	require.NoError(t, err)
	assert.False(t, exists)
}

// =============================================================================
// Save
// =============================================================================

func TestSaveThenLoad(t *testing.T) {
	s, _ := newMemStore(t, "/cfg/config.toml", Options{})
	want := Default[testConfig]()
	want.Name = "saved"
	want.Debug = true
	want.Server.Port = 9999

	require.NoError(t, s.Save(want))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// =============================================================================
// Map-valued defaults
// =============================================================================

type limitsSection struct {
	Burst int            `toml:"burst" yaml:"burst"`
	Rates map[string]int `toml:"rates" yaml:"rates"`
}

type peersConfig struct {
	Peers  map[string]int `toml:"peers" yaml:"peers"`
	Tags   []string       `toml:"tags" yaml:"tags"`
	Limits limitsSection  `toml:"limits" yaml:"limits"`
}

func (c *peersConfig) SetDefaults() {
	c.Peers = map[string]int{"a": 1, "b": 2}
	c.Tags = []string{"x", "y", "z"}
	c.Limits = limitsSection{Burst: 5, Rates: map[string]int{"read": 10, "write": 5}}
}

func TestReloadReplacesMapDefaults(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{
			name:    "toml",
			path:    "/cfg/config.toml",
			content: "tags = ['only']\n\n[peers]\nc = 3\n\n[limits.rates]\nread = 1\n",
		},
		{
			name:    "yaml",
			path:    "/cfg/config.yaml",
			content: "tags: [only]\npeers:\n  c: 3\nlimits:\n  rates:\n    read: 1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s, err := NewStore[peersConfig](tt.path, Options{}, WithFs(fs))
			require.NoError(t, err)

			cfg, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, Default[peersConfig](), cfg)

			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))
			cfg, err = s.Reload()
			require.NoError(t, err)

			assert.Equal(t, map[string]int{"c": 3}, cfg.Peers)
			assert.Equal(t, []string{"only"}, cfg.Tags)
			assert.Equal(t, map[string]int{"read": 1}, cfg.Limits.Rates)
			assert.Equal(t, 5, cfg.Limits.Burst, "absent sibling keeps its default")
		})
	}
}

func TestAbsentMapKeepsDefault(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewStore[peersConfig]("/cfg/config.toml", Options{}, WithFs(fs))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("tags = []\n"), 0o644))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, cfg.Peers)
	assert.Equal(t, map[string]int{"read": 10, "write": 5}, cfg.Limits.Rates)
	assert.Empty(t, cfg.Tags)
}

func TestSaveSerializeFailureMessage(t *testing.T) {
	s, err := NewStore[testConfig]("/cfg/config.toml", Options{}, WithFs(afero.NewMemMapFs()), WithCodec(failingCodec{}))
	require.NoError(t, err)

	err = s.Save(Default[testConfig]())
	require.ErrorIs(t, err, ErrSerialize)
	assert.Contains(t, err.Error(), "failed to serialize config")
	assert.NotContains(t, err.Error(), "default")
}
