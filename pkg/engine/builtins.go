package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/flexure/pkg/library"
	"github.com/chazu/flexure/pkg/profile"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms flexure Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: arc-through -> arc_through
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters; a
		// leading minus stays an operator or a sign.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point; it doubles as a direction where a normal is
// expected.
type sexpVec3 struct {
	vec profile.Point
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPrimitive wraps a single profile primitive.
type sexpPrimitive struct {
	prim profile.Primitive
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", p.prim.Kind())
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

// sexpProfile wraps a whole profile. name is empty for derived profiles.
type sexpProfile struct {
	name string
	prof profile.Profile
}

func (p *sexpProfile) SexpString(ps *zygo.PrintState) string {
	if p.name != "" {
		return fmt.Sprintf("(profile %q)", p.name)
	}
	return fmt.Sprintf("(profile <%d primitives>)", len(p.prof))
}
func (p *sexpProfile) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (profile.Point, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return profile.Point{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toNormal(s zygo.Sexp) (profile.Vector, error) {
	p, err := toVec3(s)
	return profile.Vector(p), err
}

func toProfile(s zygo.Sexp) (profile.Profile, error) {
	if p, ok := s.(*sexpProfile); ok {
		return p.prof, nil
	}
	return nil, fmt.Errorf("expected profile, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// appendItems flattens primitives, profiles and lists of either into p.
func appendItems(p profile.Profile, items []zygo.Sexp) (profile.Profile, error) {
	for i, item := range items {
		switch v := item.(type) {
		case *sexpPrimitive:
			p = append(p, v.prim)
		case *sexpProfile:
			p = append(p, v.prof...)
		case *zygo.SexpPair, *zygo.SexpArray:
			inner, err := sexpListToSlice(v)
			if err != nil {
				return nil, err
			}
			if p, err = appendItems(p, inner); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("item %d: expected primitive or profile, got %T (%s)",
				i, item, item.SexpString(nil))
		}
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// state collects the profiles defined by one evaluation.
type state struct {
	base     *library.Library
	builder  *library.Builder
	defined  map[string]profile.Profile
	warnings []EvalWarning
}

func newState(base *library.Library) *state {
	return &state{
		base:    base,
		builder: library.NewBuilder(),
		defined: make(map[string]profile.Profile),
	}
}

func (s *state) define(category, name string, p profile.Profile) error {
	if _, ok := s.defined[name]; ok {
		return fmt.Errorf("profile %q already defined", name)
	}
	result := profile.Validate(p)
	if err := result.Err(); err != nil {
		return err
	}
	if err := s.builder.Add(category, name, p).Err(); err != nil {
		return err
	}
	s.defined[name] = p
	for _, w := range result.Warnings {
		s.warnings = append(s.warnings, EvalWarning{Profile: name, Index: w.Index, Message: w.Message})
	}
	return nil
}

// lookup searches profiles defined so far, then the base library.
func (s *state) lookup(name string) (profile.Profile, bool) {
	if p, ok := s.defined[name]; ok {
		return p.Clone(), true
	}
	if e, ok := s.base.Find(name); ok {
		return e.Profile, true
	}
	return nil, false
}

func (s *state) build() (*library.Library, error) {
	return s.builder.Build()
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all profile DSL builtins into a zygomys
// environment. Defined profiles are collected in st.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *state) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var xyz [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			xyz[i] = f
		}

		return &sexpVec3{vec: profile.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (line (vec3 0 0 0) (vec3 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("line requires a start and an end point")
		}
		start, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: start: %w", err)
		}
		end, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: end: %w", err)
		}
		return &sexpPrimitive{prim: profile.Line{Start: start, End: end}}, nil
	})

	// -----------------------------------------------------------------------
	// (arc center start sweep)
	// -----------------------------------------------------------------------
	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("arc requires a center, a start point and a sweep angle")
		}
		center, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc: center: %w", err)
		}
		start, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc: start: %w", err)
		}
		sweep, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc: sweep: %w", err)
		}
		return &sexpPrimitive{prim: profile.Arc{Center: center, Start: start, Sweep: sweep}}, nil
	})

	// -----------------------------------------------------------------------
	// (arc-through center start end :normal (vec3 0 0 1))
	//
	// Registered as "arc_through"; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("arc_through", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("arc-through requires a center, a start and an end point")
		}
		pts, err := threePoints("arc-through", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, ok := pa.kw["normal"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("arc-through: :normal is required")
		}
		normal, err := toNormal(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc-through: normal: %w", err)
		}
		arc, err := profile.ArcThrough(pts[0], pts[1], pts[2], normal)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc-through: %w", err)
		}
		return &sexpPrimitive{prim: arc}, nil
	})

	// -----------------------------------------------------------------------
	// (circle center radius)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("circle requires a center and a radius")
		}
		center, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
		}
		return &sexpPrimitive{prim: profile.Circle{Center: center, Radius: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (spline p1 p2 p3 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("spline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		fit := make([]profile.Point, 0, len(args))
		for i, a := range args {
			p, err := toVec3(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("spline: fit point %d: %w", i, err)
			}
			fit = append(fit, p)
		}
		if len(fit) < 2 {
			return zygo.SexpNull, fmt.Errorf("spline requires at least 2 fit points, got %d", len(fit))
		}
		return &sexpPrimitive{prim: profile.Spline{FitPoints: fit}}, nil
	})

	// -----------------------------------------------------------------------
	// (defprofile "name" :category "Circular" item ...)
	// -----------------------------------------------------------------------
	env.AddFunction("defprofile", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("defprofile requires a name")
		}

		profName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defprofile: name: %w", err)
		}

		category := DefaultCategory
		if v, ok := pa.kw["category"]; ok {
			if category, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defprofile: category: %w", err)
			}
		}

		p, err := appendItems(nil, pa.positional[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defprofile %q: %w", profName, err)
		}
		if len(p) == 0 {
			return zygo.SexpNull, fmt.Errorf("defprofile %q: no primitives", profName)
		}
		if err := st.define(category, profName, p); err != nil {
			return zygo.SexpNull, fmt.Errorf("defprofile %q: %w", profName, err)
		}

		return &sexpProfile{name: profName, prof: p}, nil
	})

	// -----------------------------------------------------------------------
	// (profile "name")
	// -----------------------------------------------------------------------
	env.AddFunction("profile", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("profile requires a name argument")
		}
		profName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile: name: %w", err)
		}
		p, ok := st.lookup(profName)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("profile: no profile named %q", profName)
		}
		return &sexpProfile{name: profName, prof: p}, nil
	})

	// -----------------------------------------------------------------------
	// (scaled prof 2.0 :offset (vec3 5 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("scaled", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("scaled requires a profile and a factor")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scaled: %w", err)
		}
		factor, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scaled: factor: %w", err)
		}
		var offset profile.Point
		if v, ok := pa.kw["offset"]; ok {
			if offset, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("scaled: offset: %w", err)
			}
		}
		out, err := profile.Scale(p, factor, offset)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scaled: %w", err)
		}
		return &sexpProfile{prof: out}, nil
	})

	// -----------------------------------------------------------------------
	// (offset-curves prof 0.1 :toward (vec3 0 0 0))
	//
	// Without :toward the offset moves toward the profile's mean center.
	// -----------------------------------------------------------------------
	env.AddFunction("offset_curves", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("offset-curves requires a profile and a distance")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset-curves: %w", err)
		}
		d, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset-curves: distance: %w", err)
		}
		var toward profile.Point
		if v, ok := pa.kw["toward"]; ok {
			if toward, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("offset-curves: toward: %w", err)
			}
		} else if toward, err = profile.MeanCenter(p); err != nil {
			return zygo.SexpNull, fmt.Errorf("offset-curves: %w", err)
		}
		out, err := profile.Offset(p, toward, d)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset-curves: %w", err)
		}
		return &sexpProfile{prof: out}, nil
	})

	// -----------------------------------------------------------------------
	// (centroid prof) -> vec3
	// -----------------------------------------------------------------------
	env.AddFunction("centroid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("centroid requires a profile")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("centroid: %w", err)
		}
		var opts []profile.CentroidOption
		if _, ok := pa.kw["true-arc"]; ok {
			opts = append(opts, profile.WithTrueArcCentroid())
		}
		c, err := profile.Centroid(p, opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("centroid: %w", err)
		}
		return &sexpVec3{vec: c}, nil
	})

	// -----------------------------------------------------------------------
	// (sweep-angle center start end :normal (vec3 0 0 1)) -> float
	// -----------------------------------------------------------------------
	env.AddFunction("sweep_angle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("sweep-angle requires a center, a start and an end point")
		}
		pts, err := threePoints("sweep-angle", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, ok := pa.kw["normal"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sweep-angle: :normal is required")
		}
		normal, err := toNormal(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep-angle: normal: %w", err)
		}
		sweep, err := profile.SweepAngle(pts[0], pts[1], pts[2], normal)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep-angle: %w", err)
		}
		return &zygo.SexpFloat{Val: sweep}, nil
	})
}

func threePoints(fn string, args []zygo.Sexp) ([3]profile.Point, error) {
	var pts [3]profile.Point
	for i, role := range []string{"center", "start", "end"} {
		p, err := toVec3(args[i])
		if err != nil {
			return pts, fmt.Errorf("%s: %s: %w", fn, role, err)
		}
		pts[i] = p
	}
	return pts, nil
}
