// Package config loads map session descriptions from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"geomap/internal/layer"
)

// Session describes a map and the layers to attach to it.
type Session struct {
	Title     string        `yaml:"title"`
	Center    []float64     `yaml:"center"`
	Zoom      *int          `yaml:"zoom"`
	SourceDir string        `yaml:"source_dir"`
	Output    string        `yaml:"output"`
	Layers    []LayerConfig `yaml:"layers"`
}

// LayerConfig names a dataset. Every key besides name is a layer option and
// is passed to layer.NewVector unchanged.
type LayerConfig struct {
	Name    string
	Options layer.Options
}

// UnmarshalYAML splits the name from the remaining option keys.
func (lc *LayerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	name, ok := raw["name"].(string)
	if !ok {
		return fmt.Errorf("config: line %d: layer name must be a string", value.Line)
	}
	delete(raw, "name")
	lc.Name = name
	if len(raw) > 0 {
		lc.Options = layer.Options(raw)
	}
	return nil
}

// DefaultZoom is used when the file does not set one.
const DefaultZoom = 3

// Load reads and validates a session file. A relative source_dir is resolved
// against the file's directory.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if s.SourceDir != "" && !filepath.IsAbs(s.SourceDir) {
		s.SourceDir = filepath.Join(filepath.Dir(path), s.SourceDir)
	}
	return s, nil
}

// Parse decodes and validates session YAML.
func Parse(data []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) Validate() error {
	if len(s.Layers) == 0 {
		return errors.New("no layers configured")
	}
	seen := map[string]bool{}
	for i, l := range s.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer %d: empty name", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("layer %q configured twice", l.Name)
		}
		seen[l.Name] = true
	}
	if len(s.Center) != 0 && len(s.Center) != 2 {
		return fmt.Errorf("center must be [lat, lon], got %d values", len(s.Center))
	}
	if s.Zoom != nil && *s.Zoom < 0 {
		return fmt.Errorf("zoom must not be negative, got %d", *s.Zoom)
	}
	return nil
}

// Location returns the configured center, defaulting to 0,0.
func (s *Session) Location() (lat, lon float64) {
	if len(s.Center) == 2 {
		return s.Center[0], s.Center[1]
	}
	return 0, 0
}

func (s *Session) ZoomLevel() int {
	if s.Zoom == nil {
		return DefaultZoom
	}
	return *s.Zoom
}
