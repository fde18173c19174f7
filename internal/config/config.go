// Package config loads the flexure tool configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chazu/flexure/pkg/export"
	"github.com/chazu/flexure/pkg/placement"
	"github.com/chazu/flexure/pkg/tessellate"
)

// Config holds every tunable of the CLI and App.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// LibraryFile is an optional YAML profile library merged over the
	// built-in flexures.
	LibraryFile      string             `yaml:"library_file"`
	ReferenceRadius  float64            `yaml:"reference_radius"`
	PreviewThickness float64            `yaml:"preview_thickness"`
	MeshCells        int                `yaml:"mesh_cells"`
	Tessellation     tessellate.Options `yaml:"tessellation"`
	Export           export.Options     `yaml:"export"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:         "info",
		ReferenceRadius:  placement.ReferenceRadius,
		PreviewThickness: 0.1,
		MeshCells:        200,
		Tessellation:     tessellate.DefaultOptions(),
		Export:           export.DefaultOptions(),
	}
}

// Load reads path over Default. Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes a configuration document over Default and validates it.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case !(c.ReferenceRadius > 0):
		return fmt.Errorf("reference_radius must be positive, got %v", c.ReferenceRadius)
	case !(c.PreviewThickness > 0):
		return fmt.Errorf("preview_thickness must be positive, got %v", c.PreviewThickness)
	case c.MeshCells < 1:
		return fmt.Errorf("mesh_cells must be at least 1, got %d", c.MeshCells)
	case !(c.Tessellation.MaxAngleStep > 0):
		return fmt.Errorf("tessellation.max_angle_step must be positive, got %v", c.Tessellation.MaxAngleStep)
	case c.Tessellation.SplineSegments < 1:
		return fmt.Errorf("tessellation.spline_segments must be at least 1, got %d", c.Tessellation.SplineSegments)
	case !(c.Tessellation.Epsilon > 0):
		return fmt.Errorf("tessellation.epsilon must be positive, got %v", c.Tessellation.Epsilon)
	case !(c.Export.PixelsPerUnit > 0):
		return fmt.Errorf("export.pixels_per_unit must be positive, got %v", c.Export.PixelsPerUnit)
	}
	return nil
}
