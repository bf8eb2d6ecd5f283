package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bufti-format/bufti-go/pkg/model"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrFormat is returned for an unsupported catalog format or file extension.
var ErrFormat = errors.New("unsupported catalog format")

// FieldSpec declares one field of a model.
type FieldSpec struct {
	Index int    `yaml:"index" toml:"index"`
	Label string `yaml:"label" toml:"label"`
	Type  string `yaml:"type" toml:"type"`

	// Required marks a field every record must carry.
	Required bool `yaml:"required,omitempty" toml:"required,omitempty"`
}

// ModelSpec declares one model.
type ModelSpec struct {
	Name   string      `yaml:"name" toml:"name"`
	Fields []FieldSpec `yaml:"fields" toml:"fields"`
}

// Catalog is a parsed catalog document.
type Catalog struct {
	Models []ModelSpec `yaml:"models" toml:"models"`
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrFormat, path)
	}
}

// Parse parses a catalog document.
func Parse(data []byte, format Format) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing yaml catalog: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, fmt.Errorf("parsing toml catalog: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parsing toml catalog: unknown key %s", undecoded[0])
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	return &c, nil
}

// LoadFile reads and parses a catalog file. The format follows the extension.
func LoadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, format)
}

// Register registers every model of the catalog into reg, in document order.
// It stops at the first model that fails; errors wrap model.ErrModel.
func (c *Catalog) Register(reg *model.Registry) error {
	for _, ms := range c.Models {
		fields := make([]model.FieldDef, 0, len(ms.Fields))
		for _, fs := range ms.Fields {
			f, err := model.FieldOf(fs.Index, fs.Label, fs.Type)
			if err != nil {
				return fmt.Errorf("model %s: %w", ms.Name, err)
			}
			f.Required = fs.Required
			fields = append(fields, f)
		}
		if _, err := reg.Register(ms.Name, fields...); err != nil {
			return err
		}
	}
	return nil
}

// Build loads the catalog at path into a new registry and freezes it.
// Every model reference must resolve to a model of the catalog.
func Build(path string) (*model.Registry, error) {
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := model.NewRegistry()
	if err := c.Register(reg); err != nil {
		return nil, err
	}
	if refs := reg.Unresolved(); len(refs) > 0 {
		return nil, fmt.Errorf("%w: unresolved references: %s", model.ErrModel, strings.Join(refs, ", "))
	}
	reg.Freeze()
	return reg, nil
}
