package echotrace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/loopwork/echotrace/internal/echo"
	"github.com/loopwork/echotrace/internal/print/human"
	"github.com/tetratelabs/wazero"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "~/.echotrace/config.yaml"

// ConfigPath is the path to the echotrace configuration.
var ConfigPath human.Path = defaultConfigPath

// LoadConfig opens and reads the configuration file.
func LoadConfig() (*Config, error) {
	r, _, err := OpenConfig()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadConfig(r)
}

// OpenConfig opens the configuration file, substituting the default
// configuration when no file exists.
func OpenConfig() (io.ReadCloser, string, error) {
	path, err := ConfigPath.Resolve()
	if err != nil {
		return nil, path, err
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
		c := DefaultConfig()
		b, _ := yaml.Marshal(c)
		return io.NopCloser(bytes.NewReader(b)), path, nil
	}
	return f, path, nil
}

// ReadConfig reads and parses configuration.
func ReadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && err != io.EOF {
		return nil, err
	}
	return c, nil
}

// DefaultConfig is the default configuration.
func DefaultConfig() *Config {
	c := new(Config)
	c.Server.Listen = "localhost:3000"
	c.Server.Banner = echo.DefaultBanner
	c.Server.MaxChunkSize = human.Bytes(echo.DefaultMaxChunk)
	c.Trace.Compression = "zstd"
	return c
}

// Config is echotrace configuration.
type Config struct {
	Server struct {
		Listen       string      `json:"listen"         yaml:"listen"`
		Banner       string      `json:"banner"         yaml:"banner"`
		MaxChunkSize human.Bytes `json:"max-chunk-size" yaml:"max-chunk-size"`
		MaxRPS       human.Count `json:"max-rps"        yaml:"max-rps"`
	} `json:"server" yaml:"server"`
	Trace struct {
		Location    Nullable[human.Path] `json:"location"    yaml:"location"`
		Compression string               `json:"compression" yaml:"compression"`
	} `json:"trace" yaml:"trace"`
}

// NewHandler constructs the echo handler described by the configuration.
func (c *Config) NewHandler() *echo.Handler {
	return &echo.Handler{
		Banner:   c.Server.Banner,
		MaxChunk: int(c.Server.MaxChunkSize),
	}
}

// NewRuntime constructs a wazero.Runtime for running guest modules.
func (c *Config) NewRuntime(ctx context.Context) wazero.Runtime {
	return wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true))
}

type Nullable[T any] struct {
	value T
	exist bool
}

func NullableValue[T any](v T) Nullable[T] {
	return Nullable[T]{value: v, exist: true}
}

func (v Nullable[T]) Value() (T, bool) {
	return v.value, v.exist
}

func (v Nullable[T]) MarshalJSON() ([]byte, error) {
	if !v.exist {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

func (v Nullable[T]) MarshalYAML() (any, error) {
	if !v.exist {
		return nil, nil
	}
	return v.value, nil
}

func (v *Nullable[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		v.exist = false
		return nil
	} else if err := json.Unmarshal(b, &v.value); err != nil {
		v.exist = false
		return err
	} else {
		v.exist = true
		return nil
	}
}

func (v *Nullable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" || node.Value == "~" || node.Value == "null" {
		v.exist = false
		return nil
	} else if err := node.Decode(&v.value); err != nil {
		v.exist = false
		return err
	} else {
		v.exist = true
		return nil
	}
}
