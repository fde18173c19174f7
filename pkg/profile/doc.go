// Package profile defines sketch profiles and the geometry computed on them.
// A profile is an ordered, immutable list of line, arc, circle and spline
// primitives extracted from (or replayed into) a sketch.
package profile
