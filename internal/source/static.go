package source

import (
	"context"
	"os"

	"github.com/woozymasta/obrasmap/internal/geo"
)

// Embedded serves a dataset compiled into the binary.
type Embedded struct {
	Data []byte
}

func (Embedded) Name() string { return "embedded" }

func (e Embedded) Load(context.Context) (*geo.FeatureCollection, error) {
	return geo.Decode(e.Data)
}

// Inline serves a FeatureCollection written directly in config.yaml.
type Inline struct {
	Doc map[string]interface{}
}

func (Inline) Name() string { return "inline" }

func (i Inline) Load(context.Context) (*geo.FeatureCollection, error) {
	return geo.FromYAML(i.Doc)
}

// File reads a GeoJSON document from disk.
type File struct {
	Path string
}

func (f File) Name() string { return f.Path }

func (f File) Load(context.Context) (*geo.FeatureCollection, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return geo.Decode(data)
}
