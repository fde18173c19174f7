// Package placement centers and scales a library profile onto a target
// loop in a sketch.
package placement

import (
	"fmt"
	"math"

	"github.com/chazu/flexure/pkg/profile"
)

// ReferenceRadius is the hub radius library profiles are drawn around.
const ReferenceRadius = 1.0

// ScaleFactor returns targetRadius/referenceRadius. Both must be positive
// and finite.
func ScaleFactor(targetRadius, referenceRadius float64) (float64, error) {
	if !(targetRadius > 0) || !(referenceRadius > 0) {
		return 0, fmt.Errorf("placement: radius %v over reference %v: %w",
			targetRadius, referenceRadius, profile.ErrInvalidScaleFactor)
	}
	f := targetRadius / referenceRadius
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("placement: radius %v over reference %v: %w",
			targetRadius, referenceRadius, profile.ErrInvalidScaleFactor)
	}
	return f, nil
}

// Place scales ref so its reference hub matches targetRadius and moves it
// onto the centroid of target. The target's z is ignored; ref keeps its own
// z values.
func Place(ref, target profile.Profile, targetRadius float64) (profile.Profile, error) {
	return PlaceWithReference(ref, target, targetRadius, ReferenceRadius)
}

// PlaceWithReference is like Place for a library drawn around a hub of
// referenceRadius.
func PlaceWithReference(ref, target profile.Profile, targetRadius, referenceRadius float64) (profile.Profile, error) {
	factor, err := ScaleFactor(targetRadius, referenceRadius)
	if err != nil {
		return nil, err
	}
	at, err := profile.Centroid(target)
	if err != nil {
		return nil, fmt.Errorf("placement: target: %w", err)
	}
	at.Z = 0
	out, err := profile.Scale(ref, factor, at)
	if err != nil {
		return nil, fmt.Errorf("placement: %w", err)
	}
	return out, nil
}

// Recenter moves ref so that its origin lands on at, without scaling.
func Recenter(ref profile.Profile, at profile.Point) (profile.Profile, error) {
	at.Z = 0
	return profile.Scale(ref, 1, at)
}

// TargetRadius returns the radius of the single circle in target, the usual
// case of a round cut. It fails if target is not exactly one circle.
func TargetRadius(target profile.Profile) (float64, error) {
	if len(target) != 1 {
		return 0, fmt.Errorf("placement: target has %d primitives, want one circle: %w",
			len(target), profile.ErrUnsupportedPrimitive)
	}
	c, ok := target[0].(profile.Circle)
	if !ok {
		return 0, fmt.Errorf("placement: target is a %s, want a circle: %w",
			target[0].Kind(), profile.ErrUnsupportedPrimitive)
	}
	return c.Radius, nil
}
