// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"github.com/woozymasta/obrasmap/internal/geo"
	"github.com/woozymasta/obrasmap/internal/obras"
	"github.com/woozymasta/obrasmap/internal/view"

	"gopkg.in/yaml.v3"
)

// DefaultTileURL is the public OpenStreetMap tile server.
const DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

// Config represents the root configuration file structure.
type Config struct {
	Title       string  `yaml:"title,omitempty" json:"title,omitempty"`
	Attribution string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Dataset     Dataset `yaml:"dataset" json:"-"`
	Labels      Labels  `yaml:"labels" json:"labels"`
	Tiles       Tiles   `yaml:"tiles" json:"-"`
	View        View    `yaml:"view" json:"-"`
}

// Dataset describes where the works collection is loaded from.
type Dataset struct {
	// defining GeoJSON directly in config.yaml
	Inline map[string]interface{} `yaml:"geojson,omitempty"`

	// http(s):// URL, s3://bucket/key or local path; empty means the embedded dataset
	URL    string `yaml:"url,omitempty"`
	Cache  string `yaml:"cache,omitempty"` // loader output file
	NoData string `yaml:"no_data,omitempty"`
	S3     S3     `yaml:"s3,omitempty"`
}

// S3 holds object storage settings for s3:// dataset URLs.
type S3 struct {
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"` // e.g. MinIO
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	PathStyle       bool   `yaml:"path_style,omitempty"`
}

// Labels are the wildcard entries shown at the top of each selector.
type Labels struct {
	AllLocalities string `yaml:"all_localities,omitempty" json:"all_localities"`
	AllOrganisms  string `yaml:"all_organisms,omitempty" json:"all_organisms"`
	AllTypes      string `yaml:"all_types,omitempty" json:"all_types"`
}

// Tiles configures the base layer and the local tile mirror.
type Tiles struct {
	URL        string   `yaml:"url,omitempty"`
	Dir        string   `yaml:"dir,omitempty"`
	Subdomains []string `yaml:"subdomains,omitempty"`
	ZoomMin    int      `yaml:"zoom_min,omitempty"`
	ZoomLimit  int      `yaml:"zoom,omitempty"`
	Mirror     bool     `yaml:"mirror,omitempty"`
}

// View selects the camera profile and optional per-value overrides.
type View struct {
	Padding        *float64    `yaml:"padding,omitempty"`
	MaxZoom        *float64    `yaml:"max_zoom,omitempty"`
	Center         *geo.LatLng `yaml:"center,omitempty"`
	Profile        string      `yaml:"profile,omitempty"`
	Popup          string      `yaml:"popup,omitempty"`
	StatusFallback string      `yaml:"status_fallback,omitempty"`
	Zoom           float64     `yaml:"zoom,omitempty"`
	SingleZoom     float64     `yaml:"single_zoom,omitempty"`
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	// validate profile early so the server fails at startup
	if _, err := cfg.View.Options(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "Mapa de Obras"
	}
	if c.Attribution == "" {
		c.Attribution = "© OpenStreetMap contributors"
	}
	if c.Dataset.NoData == "" {
		c.Dataset.NoData = obras.NoData
	}
	if c.Dataset.Cache == "" {
		c.Dataset.Cache = "data/obras.geojson"
	}
	if c.Labels.AllLocalities == "" {
		c.Labels.AllLocalities = "Todas"
	}
	if c.Labels.AllOrganisms == "" {
		c.Labels.AllOrganisms = "Todos"
	}
	if c.Labels.AllTypes == "" {
		c.Labels.AllTypes = "Todos"
	}
	if c.Tiles.URL == "" {
		c.Tiles.URL = DefaultTileURL
	}
	if len(c.Tiles.Subdomains) == 0 {
		c.Tiles.Subdomains = []string{"a", "b", "c"}
	}
	if c.Tiles.Dir == "" {
		c.Tiles.Dir = "tiles"
	}
}

// Options resolves the profile and applies overrides.
func (v View) Options() (view.Options, error) {
	opts, err := view.ProfileOptions(v.Profile)
	if err != nil {
		return view.Options{}, err
	}

	if v.Center != nil {
		opts.Initial.Center = *v.Center
	}
	if v.Zoom > 0 {
		opts.Initial.Zoom = v.Zoom
	}
	if v.SingleZoom > 0 {
		opts.SingleZoom = v.SingleZoom
	}
	if v.Padding != nil {
		opts.Padding = *v.Padding
	}
	if v.MaxZoom != nil {
		opts.MaxZoom = *v.MaxZoom
	}
	if v.StatusFallback != "" {
		opts.StatusFallback = v.StatusFallback
	}

	switch view.PopupField(v.Popup) {
	case view.PopupType, view.PopupOrganism:
		opts.PopupField = view.PopupField(v.Popup)
	}

	return opts, nil
}

// IsWildcardLabel reports whether a selector value is one of the configured
// wildcard labels.
func (l Labels) IsWildcardLabel(v string) bool {
	return v == l.AllLocalities || v == l.AllOrganisms || v == l.AllTypes
}
