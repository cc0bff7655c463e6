package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/agvfleet/core/model"
)

// Format identifies a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath guesses the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog format: %s", ext)
	}
}

// Load reads a catalog file. The document maps vehicle codes to vehicles.
func Load(path string) (model.Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	cat, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Decode reads a catalog document from r.
func Decode(r io.Reader, format Format) (model.Catalog, error) {
	cat := model.Catalog{}
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&cat); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&cat); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}
	for code, v := range cat {
		v.Code = code
		cat[code] = v
	}
	return cat, nil
}

// Encode writes cat to w in the given format.
func Encode(w io.Writer, cat model.Catalog, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	default:
		return fmt.Errorf("unsupported catalog format: %s", format)
	}
}
