package profile

import (
	"fmt"
	"math"
)

// DefaultTolerance is the distance under which two endpoints are considered
// coincident.
const DefaultTolerance = 1e-6

// ValidationSeverity indicates whether a finding makes the profile unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // profile violates an invariant
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Index    int                // primitive index, -1 if profile-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] primitive %d: %s", e.Severity, e.Index, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Index   int
	Message string
}

// ValidationResult bundles invariant violations and advisories.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no invariant is violated.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Err returns the first error finding, or nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Validate checks p against the profile invariants. It never mutates p.
func Validate(p Profile) ValidationResult {
	var result ValidationResult
	result.Errors = append(result.Errors, validateValues(p)...)
	result.Warnings = append(result.Warnings, validateDegenerate(p)...)
	result.Warnings = append(result.Warnings, validateContinuity(p, DefaultTolerance)...)
	return result
}

// validateValues checks finiteness, sweep range and radius sign.
func validateValues(p Profile) []ValidationError {
	var errs []ValidationError
	fail := func(i int, format string, args ...interface{}) {
		errs = append(errs, ValidationError{
			Index:    i,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for i, prim := range p {
		switch v := prim.(type) {
		case Line:
			if !v.Start.IsFinite() || !v.End.IsFinite() {
				fail(i, "line has a non-finite coordinate")
			}
		case Arc:
			if !v.Center.IsFinite() || !v.Start.IsFinite() {
				fail(i, "arc has a non-finite coordinate")
			}
			if !finite(v.Sweep) || v.Sweep < 0 || v.Sweep >= 2*math.Pi {
				fail(i, "arc sweep %v outside [0, 2π)", v.Sweep)
			}
		case Circle:
			if !v.Center.IsFinite() || !finite(v.Radius) {
				fail(i, "circle has a non-finite value")
			}
			if v.Radius < 0 {
				fail(i, "circle radius %v is negative", v.Radius)
			}
		case Spline:
			if len(v.FitPoints) < 2 {
				fail(i, "spline has %d fit points, need at least 2", len(v.FitPoints))
			}
			for _, fp := range v.FitPoints {
				if !fp.IsFinite() {
					fail(i, "spline has a non-finite fit point")
					break
				}
			}
		case nil:
			fail(i, "nil primitive")
		}
	}
	return errs
}

// validateDegenerate warns about primitives that carry no weight.
func validateDegenerate(p Profile) []ValidationWarning {
	var warnings []ValidationWarning
	for i, prim := range p {
		switch v := prim.(type) {
		case Line:
			if v.Length() == 0 {
				warnings = append(warnings, ValidationWarning{Index: i, Message: "zero-length line"})
			}
		case Arc:
			if v.Radius() == 0 {
				warnings = append(warnings, ValidationWarning{Index: i, Message: "zero-radius arc"})
			}
		case Circle:
			if v.Radius == 0 {
				warnings = append(warnings, ValidationWarning{Index: i, Message: "zero-radius circle"})
			}
		}
	}
	return warnings
}

// validateContinuity warns when consecutive open primitives share no
// endpoint. Arcs are always stored counter-clockwise, so either orientation
// of each neighbour is accepted.
func validateContinuity(p Profile, eps float64) []ValidationWarning {
	var warnings []ValidationWarning
	for i := 1; i < len(p); i++ {
		as, ae, okA := Endpoints(p[i-1])
		bs, be, okB := Endpoints(p[i])
		if !okA || !okB {
			continue
		}
		if ae.Near(bs, eps) || ae.Near(be, eps) || as.Near(bs, eps) || as.Near(be, eps) {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			Index:   i,
			Message: fmt.Sprintf("%s does not touch preceding %s", p[i].Kind(), p[i-1].Kind()),
		})
	}
	return warnings
}
