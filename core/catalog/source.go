package catalog

import (
	"context"

	"github.com/kilianp07/agvfleet/core/factory"
	"github.com/kilianp07/agvfleet/core/model"
)

// Source produces a vehicle catalog.
type Source interface {
	Load(ctx context.Context) (model.Catalog, error)
}

// Builtin serves the reference catalog.
type Builtin struct{}

func (Builtin) Load(context.Context) (model.Catalog, error) { return Default(), nil }

// FileSource reads a YAML or JSON catalog file on every Load.
type FileSource struct {
	Path string `json:"path"`
}

func (s FileSource) Load(ctx context.Context) (model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(s.Path)
}

var sourceRegistry = factory.NewRegistry[Source]()

func init() {
	_ = RegisterSource("builtin", func(map[string]any) (Source, error) {
		return Builtin{}, nil
	})
	_ = RegisterSource("file", func(conf map[string]any) (Source, error) {
		var s FileSource
		if err := factory.Decode(conf, &s); err != nil {
			return nil, err
		}
		if _, err := FormatFromPath(s.Path); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// RegisterSource adds a source factory identified by name.
func RegisterSource(name string, f factory.Factory[Source]) error {
	return sourceRegistry.Register(name, f)
}

// NewSource builds the source described by cfg. An empty type selects the
// built-in catalog.
func NewSource(cfg factory.ModuleConfig) (Source, error) {
	if cfg.Type == "" {
		return Builtin{}, nil
	}
	return sourceRegistry.Create(cfg)
}

// SourceTypes lists the registered source names.
func SourceTypes() []string { return sourceRegistry.Types() }
