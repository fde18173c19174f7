package profile_test

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/flexure/pkg/profile"
)

func TestValidateClean(t *testing.T) {
	p := profile.Profile{
		profile.Line{Start: profile.Point{X: 1}, End: profile.Point{X: 2}},
		profile.Arc{Center: profile.Point{X: 3}, Start: profile.Point{X: 2}, Sweep: math.Pi},
		profile.Circle{Radius: 0.5},
	}
	result := profile.Validate(p)
	if !result.OK() {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		prim   profile.Primitive
		substr string
	}{
		{"SweepTooLarge", profile.Arc{Start: profile.Point{X: 1}, Sweep: 2 * math.Pi}, "outside [0, 2π)"},
		{"NegativeSweep", profile.Arc{Start: profile.Point{X: 1}, Sweep: -0.1}, "outside [0, 2π)"},
		{"NegativeRadius", profile.Circle{Radius: -1}, "negative"},
		{"NaNLine", profile.Line{Start: profile.Point{X: math.NaN()}}, "non-finite"},
		{"InfCircle", profile.Circle{Radius: math.Inf(1)}, "non-finite"},
		{"ShortSpline", profile.Spline{FitPoints: []profile.Point{{}}}, "at least 2"},
		{"Nil", nil, "nil primitive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := profile.Validate(profile.Profile{tt.prim})
			if result.OK() {
				t.Fatal("expected validation error")
			}
			e := result.Errors[0]
			if e.Index != 0 || e.Severity != profile.SeverityError {
				t.Errorf("unexpected finding %+v", e)
			}
			if !strings.Contains(e.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", e.Error(), tt.substr)
			}
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	p := profile.Profile{
		profile.Line{Start: profile.Point{X: 1}, End: profile.Point{X: 1}},
		profile.Line{Start: profile.Point{X: 5}, End: profile.Point{X: 6}},
		profile.Circle{Center: profile.Point{X: 9}},
	}
	result := profile.Validate(p)
	if !result.OK() {
		t.Fatalf("warnings must not be errors: %v", result.Errors)
	}

	var degenerate, gaps int
	for _, w := range result.Warnings {
		switch {
		case strings.HasPrefix(w.Message, "zero-"):
			degenerate++
		case strings.Contains(w.Message, "does not touch"):
			gaps++
			if w.Index != 1 {
				t.Errorf("gap reported at %d, want 1", w.Index)
			}
		}
	}
	if degenerate != 2 {
		t.Errorf("expected 2 degenerate warnings, got %d", degenerate)
	}
	if gaps != 1 {
		t.Errorf("expected 1 continuity warning, got %d", gaps)
	}
}

// Adjacent primitives may touch in either orientation.
func TestValidateContinuityReversed(t *testing.T) {
	p := profile.Profile{
		profile.Line{Start: profile.Point{X: 2}, End: profile.Point{X: 1}},
		profile.Line{Start: profile.Point{X: 3}, End: profile.Point{X: 2}},
	}
	if w := profile.Validate(p).Warnings; len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
}

func TestSeverityString(t *testing.T) {
	if profile.SeverityError.String() != "error" || profile.SeverityWarning.String() != "warning" {
		t.Error("unexpected severity names")
	}
	if got := profile.ValidationSeverity(9).String(); got != "ValidationSeverity(9)" {
		t.Errorf("got %q", got)
	}
}
