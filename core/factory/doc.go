// Package factory provides a small generic registry used to build pluggable
// components (catalog sources, metrics sinks) from configuration. A component is
// described by a type string and a map of raw settings; the registered factory
// decodes the settings into its own struct and returns the implementation.
//
//	reg := factory.NewRegistry[catalog.Source]()
//	_ = reg.Register("file", func(conf map[string]any) (catalog.Source, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return catalog.FileSource{Path: c.Path}, nil
//	})
//	src, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "fleet.yaml"}})
package factory
