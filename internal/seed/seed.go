// Package seed loads catalog seed files used by the importer and the
// offline sampling command.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"gopkg.in/yaml.v3"
)

const Kind = "Catalog"

type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

type Catalog struct {
	Kind     string `json:"kind" yaml:"kind"`
	Version  string `json:"version" yaml:"version"`
	Metadata struct {
		Name string `json:"name" yaml:"name"`
	} `json:"metadata" yaml:"metadata"`
	Products []domain.Product `json:"products" yaml:"products"`
}

func (c *Catalog) Validate() error {
	if c.Kind != "" && c.Kind != Kind {
		return fmt.Errorf("unexpected kind %q, expected %q", c.Kind, Kind)
	}

	var errs []error
	seen := make(map[string]int, len(c.Products))
	for i, p := range c.Products {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("product %d: name is required", i))
		}
		if p.Price < 0 {
			errs = append(errs, fmt.Errorf("product %d: price must not be negative", i))
		}
		if p.ID == "" {
			continue
		}
		if first, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("product %d: id %q already used by product %d", i, p.ID, first))
			continue
		}
		seen[p.ID] = i
	}
	return errors.Join(errs...)
}

type Loader struct {
	reader io.Reader
	format Format
}

func NewLoader(reader io.Reader, format Format) *Loader {
	return &Loader{reader: reader, format: format}
}

func (l *Loader) Load(validate bool) (*Catalog, error) {
	var c Catalog
	switch l.format {
	case JSON:
		if err := json.NewDecoder(l.reader).Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode json catalog: %w", err)
		}
	default:
		if err := yaml.NewDecoder(l.reader).Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	}

	if validate {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// FormatOf picks the format from the file extension, YAML unless it is .json.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return NewLoader(f, FormatOf(path)).Load(true)
}
