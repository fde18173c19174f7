// Package export writes profiles to sketch exchange formats: DXF for CAD
// import and SVG for drawings.
package export

import (
	"fmt"
	"math"

	"github.com/chazu/flexure/pkg/profile"
	"github.com/chazu/flexure/pkg/tessellate"
)

// Options controls both writers. Zero fields fall back to DefaultOptions.
type Options struct {
	// Layer is the DXF layer every entity is placed on.
	Layer string `yaml:"layer"`
	// PixelsPerUnit scales sketch units to SVG user units.
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	// Margin is the blank border around an SVG drawing, in pixels.
	Margin float64 `yaml:"margin"`
	// StrokeWidth is the SVG line width, in pixels.
	StrokeWidth float64 `yaml:"stroke_width"`
	// Title is written as the SVG title element when set.
	Title string `yaml:"-"`
	// Tessellation controls how splines are flattened for DXF and how
	// bounds are sampled for SVG.
	Tessellation tessellate.Options `yaml:"tessellation"`
}

// DefaultOptions returns the writer defaults.
func DefaultOptions() Options {
	return Options{
		Layer:         "Flexure",
		PixelsPerUnit: 100,
		Margin:        10,
		StrokeWidth:   1,
		Tessellation:  tessellate.DefaultOptions(),
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Layer == "" {
		o.Layer = d.Layer
	}
	if !(o.PixelsPerUnit > 0) {
		o.PixelsPerUnit = d.PixelsPerUnit
	}
	if !(o.Margin >= 0) {
		o.Margin = d.Margin
	}
	if !(o.StrokeWidth > 0) {
		o.StrokeWidth = d.StrokeWidth
	}
	return o
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// checkPrimitives rejects nil entries so the writers never emit a partial
// file for a malformed profile.
func checkPrimitives(p profile.Profile) error {
	for i, prim := range p {
		if prim == nil {
			return &profile.PrimitiveError{Index: i, Kind: profile.Kind(-1), Err: profile.ErrUnsupportedPrimitive}
		}
	}
	return nil
}

// bounds returns the XY extent of the flattened profile.
func bounds(p profile.Profile, opts tessellate.Options) (minX, minY, maxX, maxY float64, err error) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, prim := range p {
		for _, pt := range tessellate.Flatten(prim, opts) {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0, fmt.Errorf("export: %w", profile.ErrEmptyOrDegenerateProfile)
	}
	return minX, minY, maxX, maxY, nil
}
