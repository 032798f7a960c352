package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// Decoder is implemented by the toml and yaml stream decoders.
type Decoder interface {
	Decode(v any) error
}

// Encoder is implemented by the toml and yaml stream encoders.
type Encoder interface {
	Encode(v any) error
}

// FormatFromPath picks the encoding from a file extension.
//
// Parameters:
//   - path: a file name ending in .toml, .yaml or .yml
//
// Returns:
//   - Format: the matching format
//   - error: error if the extension is not recognized
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("config %s: unknown format %q, want .toml, .yaml or .yml", path, filepath.Ext(path))
	}
}

func newDecoder(f Format, r io.Reader) Decoder {
	if f == FormatYAML {
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		return d
	}
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	return d
}

func newEncoder(f Format, w io.Writer) Encoder {
	if f == FormatYAML {
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		return e
	}
	return toml.NewEncoder(w)
}

// Load reads a configuration file over the defaults and validates the result.
// Fields absent from the file keep their default values.
//
// Parameters:
//   - path: the TOML or YAML file to read
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the file cannot be read, decoded or fails validation
func Load(path string) (*Config, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer fp.Close()

	c, err := Read(bufio.NewReader(fp), f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Read decodes a configuration stream over the defaults and validates the result.
//
// Parameters:
//   - r: the encoded configuration
//   - f: the encoding of r
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if decoding or validation fails
func Read(r io.Reader, f Format) (*Config, error) {
	c := Default()
	// An empty YAML document decodes as io.EOF.
	if err := newDecoder(f, r).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Save writes c to path in the format chosen by its extension.
//
// Parameters:
//   - path: the destination file
//   - c: the configuration to write
//
// Returns:
//   - error: error if encoding or writing fails
func Save(path string, c *Config) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	w := bufio.NewWriter(fp)
	enc := newEncoder(f, w)
	if err := enc.Encode(c); err != nil {
		fp.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if cl, ok := enc.(io.Closer); ok {
		if err := cl.Close(); err != nil {
			fp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
