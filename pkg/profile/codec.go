package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// The textual form is the literal profile table used by the sketch scripts:
//
//	[
//	    ('line', [((x, y, z), (x, y, z))]),
//	    ('arc', [((cx, cy, cz), (sx, sy, sz), sweep)]),
//	    ('circle', [((cx, cy, cz), r)]),
//	    ('spline', [([(x, y, z), ...],)]),
//	]

// Encode renders p in the textual profile table form. Floats use the
// shortest representation that parses back to the same value.
func Encode(p Profile) string {
	var b strings.Builder
	b.WriteString("[\n")
	for _, prim := range p {
		b.WriteString("    ('")
		b.WriteString(kindOf(prim).String())
		b.WriteString("', [(")
		switch v := prim.(type) {
		case Line:
			writePoint(&b, v.Start)
			b.WriteString(", ")
			writePoint(&b, v.End)
		case Arc:
			writePoint(&b, v.Center)
			b.WriteString(", ")
			writePoint(&b, v.Start)
			b.WriteString(", ")
			b.WriteString(formatFloat(v.Sweep))
		case Circle:
			writePoint(&b, v.Center)
			b.WriteString(", ")
			b.WriteString(formatFloat(v.Radius))
		case Spline:
			b.WriteString("[")
			for i, fp := range v.FitPoints {
				if i > 0 {
					b.WriteString(", ")
				}
				writePoint(&b, fp)
			}
			b.WriteString("],")
		}
		b.WriteString(")]),\n")
	}
	b.WriteString("]\n")
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	fmt.Fprintf(b, "(%s, %s, %s)", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") { // keep integral values float-looking
		s += ".0"
	}
	return s
}

// SyntaxError reports malformed profile text.
type SyntaxError struct {
	Offset int // byte offset into the input
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("profile: syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Decode parses the textual profile table form. The decoded profile is
// validated; invariant violations are returned as errors.
func Decode(s string) (Profile, error) {
	ps := &parser{src: s}
	root, err := ps.parseValue()
	if err != nil {
		return nil, err
	}
	ps.skipSpace()
	if ps.pos < len(ps.src) {
		return nil, ps.errorf("unexpected trailing input %q", ps.src[ps.pos:min(ps.pos+16, len(ps.src))])
	}
	if root.kind != valList {
		return nil, &SyntaxError{Offset: root.pos, Msg: "profile must be a [...] list"}
	}

	p := make(Profile, 0, len(root.items))
	for _, entry := range root.items {
		prim, err := decodeEntry(entry)
		if err != nil {
			return nil, err
		}
		p = append(p, prim)
	}
	if err := Validate(p).Err(); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Value tree
// ---------------------------------------------------------------------------

type valKind int

const (
	valList valKind = iota
	valTuple
	valString
	valNumber
)

func (k valKind) String() string {
	switch k {
	case valList:
		return "list"
	case valTuple:
		return "tuple"
	case valString:
		return "string"
	default:
		return "number"
	}
}

type value struct {
	kind  valKind
	pos   int
	items []value
	str   string
	num   float64
}

func (v value) isSeq() bool { return v.kind == valList || v.kind == valTuple }

type parser struct {
	src string
	pos int
}

func (ps *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Offset: ps.pos, Msg: fmt.Sprintf(format, args...)}
}

func (ps *parser) skipSpace() {
	for ps.pos < len(ps.src) {
		c := ps.src[ps.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			ps.pos++
		case c == '#':
			for ps.pos < len(ps.src) && ps.src[ps.pos] != '\n' {
				ps.pos++
			}
		default:
			return
		}
	}
}

func (ps *parser) parseValue() (value, error) {
	ps.skipSpace()
	if ps.pos >= len(ps.src) {
		return value{}, ps.errorf("unexpected end of input")
	}
	start := ps.pos
	switch c := ps.src[ps.pos]; {
	case c == '[':
		items, err := ps.parseSeq(']')
		return value{kind: valList, pos: start, items: items}, err
	case c == '(':
		items, err := ps.parseSeq(')')
		return value{kind: valTuple, pos: start, items: items}, err
	case c == '\'' || c == '"':
		return ps.parseString(c)
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return ps.parseNumber()
	default:
		return value{}, ps.errorf("unexpected character %q", c)
	}
}

// parseSeq parses comma separated values up to close, allowing a trailing
// comma.
func (ps *parser) parseSeq(close byte) ([]value, error) {
	ps.pos++ // opening bracket
	var items []value
	for {
		ps.skipSpace()
		if ps.pos >= len(ps.src) {
			return nil, ps.errorf("unterminated sequence, expected %q", close)
		}
		if ps.src[ps.pos] == close {
			ps.pos++
			return items, nil
		}
		v, err := ps.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		ps.skipSpace()
		if ps.pos >= len(ps.src) {
			return nil, ps.errorf("unterminated sequence, expected %q", close)
		}
		switch ps.src[ps.pos] {
		case ',':
			ps.pos++
		case close:
			ps.pos++
			return items, nil
		default:
			return nil, ps.errorf("expected ',' or %q, got %q", close, ps.src[ps.pos])
		}
	}
}

func (ps *parser) parseString(quote byte) (value, error) {
	start := ps.pos
	ps.pos++
	end := strings.IndexByte(ps.src[ps.pos:], quote)
	if end < 0 {
		return value{}, &SyntaxError{Offset: start, Msg: "unterminated string"}
	}
	s := ps.src[ps.pos : ps.pos+end]
	ps.pos += end + 1
	return value{kind: valString, pos: start, str: s}, nil
}

func (ps *parser) parseNumber() (value, error) {
	start := ps.pos
	for ps.pos < len(ps.src) {
		c := ps.src[ps.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+' {
			ps.pos++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(ps.src[start:ps.pos], 64)
	if err != nil {
		return value{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("bad number %q", ps.src[start:ps.pos])}
	}
	return value{kind: valNumber, pos: start, num: f}, nil
}

// ---------------------------------------------------------------------------
// Entry decoding
// ---------------------------------------------------------------------------

func decodeEntry(entry value) (Primitive, error) {
	if entry.kind != valTuple || len(entry.items) != 2 {
		return nil, &SyntaxError{Offset: entry.pos, Msg: "entry must be a (kind, params) pair"}
	}
	name, params := entry.items[0], entry.items[1]
	if name.kind != valString {
		return nil, &SyntaxError{Offset: name.pos, Msg: "entry kind must be a string"}
	}
	kind, err := ParseKind(name.str)
	if err != nil {
		return nil, &SyntaxError{Offset: name.pos, Msg: err.Error()}
	}
	if !params.isSeq() || len(params.items) != 1 || !params.items[0].isSeq() {
		return nil, &SyntaxError{Offset: params.pos, Msg: fmt.Sprintf("%s params must be a single-element list holding a tuple", kind)}
	}
	fields := params.items[0]

	switch kind {
	case KindLine:
		if err := arity(fields, kind, 2); err != nil {
			return nil, err
		}
		start, err := decodePoint(fields.items[0])
		if err != nil {
			return nil, err
		}
		end, err := decodePoint(fields.items[1])
		if err != nil {
			return nil, err
		}
		return Line{Start: start, End: end}, nil

	case KindArc:
		if err := arity(fields, kind, 3); err != nil {
			return nil, err
		}
		center, err := decodePoint(fields.items[0])
		if err != nil {
			return nil, err
		}
		start, err := decodePoint(fields.items[1])
		if err != nil {
			return nil, err
		}
		sweep, err := decodeNumber(fields.items[2])
		if err != nil {
			return nil, err
		}
		return Arc{Center: center, Start: start, Sweep: sweep}, nil

	case KindCircle:
		if err := arity(fields, kind, 2); err != nil {
			return nil, err
		}
		center, err := decodePoint(fields.items[0])
		if err != nil {
			return nil, err
		}
		r, err := decodeNumber(fields.items[1])
		if err != nil {
			return nil, err
		}
		return Circle{Center: center, Radius: r}, nil

	default: // KindSpline
		pts := fields
		// ([...],) wraps the point list in a one-element tuple.
		if len(fields.items) == 1 && fields.items[0].isSeq() && len(fields.items[0].items) > 0 && fields.items[0].items[0].isSeq() {
			pts = fields.items[0]
		}
		fit := make([]Point, 0, len(pts.items))
		for _, item := range pts.items {
			fp, err := decodePoint(item)
			if err != nil {
				return nil, err
			}
			fit = append(fit, fp)
		}
		return Spline{FitPoints: fit}, nil
	}
}

func arity(v value, kind Kind, n int) error {
	if v.kind != valTuple || len(v.items) != n {
		return &SyntaxError{Offset: v.pos, Msg: fmt.Sprintf("%s needs a tuple of %d fields, got %s of %d", kind, n, v.kind, len(v.items))}
	}
	return nil
}

func decodePoint(v value) (Point, error) {
	if !v.isSeq() || len(v.items) != 3 {
		return Point{}, &SyntaxError{Offset: v.pos, Msg: "point must be an (x, y, z) triple"}
	}
	var xyz [3]float64
	for i, item := range v.items {
		f, err := decodeNumber(item)
		if err != nil {
			return Point{}, err
		}
		xyz[i] = f
	}
	return Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func decodeNumber(v value) (float64, error) {
	if v.kind != valNumber {
		return 0, &SyntaxError{Offset: v.pos, Msg: fmt.Sprintf("expected number, got %s", v.kind)}
	}
	return v.num, nil
}
