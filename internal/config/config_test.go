package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestReadOverridesDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
log_level: debug
library_file: extra.yaml
preview_thickness: 0.25
tessellation:
  spline_segments: 16
export:
  layer: Cut
`))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "extra.yaml", cfg.LibraryFile)
	assert.Equal(t, 0.25, cfg.PreviewThickness)
	assert.Equal(t, 16, cfg.Tessellation.SplineSegments)
	assert.Equal(t, d.Tessellation.MaxAngleStep, cfg.Tessellation.MaxAngleStep)
	assert.Equal(t, "Cut", cfg.Export.Layer)
	assert.Equal(t, d.Export.PixelsPerUnit, cfg.Export.PixelsPerUnit)
	assert.Equal(t, d.ReferenceRadius, cfg.ReferenceRadius)
}

func TestReadEmpty(t *testing.T) {
	cfg, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"bad type", "mesh_cells: many\n", "cannot unmarshal"},
		{"zero radius", "reference_radius: 0\n", "reference_radius"},
		{"negative thickness", "preview_thickness: -1\n", "preview_thickness"},
		{"no cells", "mesh_cells: 0\n", "mesh_cells"},
		{"zero step", "tessellation: {max_angle_step: 0}\n", "max_angle_step"},
		{"zero segments", "tessellation: {spline_segments: 0}\n", "spline_segments"},
		{"zero epsilon", "tessellation: {epsilon: 0}\n", "epsilon"},
		{"zero pixels", "export: {pixels_per_unit: 0}\n", "pixels_per_unit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flexure.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mesh_cells: 64\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MeshCells)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
