package profile_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/flexure/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scriptTable = `[
    ('line', [((1.2494080302136261, -0.2530324324719002, 0.0), (0.9674577965561877, -0.2530324324719002, 0.0))]),
    ('arc', [((-1.5439038936193583e-16, -1.5265566588595902e-16, 0.0), (1.0000000000000009, 1.3877787807814457e-16, 0.0), 6.027371896796864)]),
    ('circle', [((0.0, 0.0, 0.0), 0.9999913636483746)]),
]`

func TestDecodeScriptTable(t *testing.T) {
	p, err := profile.Decode(scriptTable)
	require.NoError(t, err)
	require.Len(t, p, 3)

	line := p[0].(profile.Line)
	assert.Equal(t, 1.2494080302136261, line.Start.X)
	assert.Equal(t, -0.2530324324719002, line.End.Y)

	arc := p[1].(profile.Arc)
	assert.Equal(t, -1.5439038936193583e-16, arc.Center.X)
	assert.Equal(t, 6.027371896796864, arc.Sweep)

	circle := p[2].(profile.Circle)
	assert.Equal(t, 0.9999913636483746, circle.Radius)
}

func TestEncodeDecodeExact(t *testing.T) {
	p := mixedProfile()
	text := profile.Encode(p)

	got, err := profile.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, text, profile.Encode(got))
}

func TestEncodeFormat(t *testing.T) {
	p := profile.Profile{
		profile.Line{Start: profile.Point{X: 1}, End: profile.Point{Y: 2}},
		profile.Spline{FitPoints: []profile.Point{{}, {X: 1}}},
	}
	want := "[\n" +
		"    ('line', [((1.0, 0.0, 0.0), (0.0, 2.0, 0.0))]),\n" +
		"    ('spline', [([(0.0, 0.0, 0.0), (1.0, 0.0, 0.0)],)]),\n" +
		"]\n"
	assert.Equal(t, want, profile.Encode(p))
}

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []profile.Kind
	}{
		{"Empty", "[]", nil},
		{"DoubleQuotes", `[("circle", [((0, 0, 0), 1)])]`, []profile.Kind{profile.KindCircle}},
		{"Comments", "# flexure\n[ # entries\n('circle', [((0,0,0), 1)]) ]", []profile.Kind{profile.KindCircle}},
		{"SplineUnwrapped", "[('spline', [((0,0,0), (1,1,0))])]", []profile.Kind{profile.KindSpline}},
		{"ListPoints", "[('line', [([0,0,0], [1,0,0])])]", []profile.Kind{profile.KindLine}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := profile.Decode(tt.input)
			require.NoError(t, err)
			require.Len(t, p, len(tt.kinds))
			for i, k := range tt.kinds {
				assert.Equal(t, k, p[i].Kind())
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		substr string
	}{
		{"NotAList", "('line', [])", "must be a [...] list"},
		{"Unterminated", "[('line', [((0,0,0), (1,0,0))])", "unterminated"},
		{"UnknownKind", "[('bezier', [((0,0,0),)])]", "unknown primitive kind"},
		{"ArcArity", "[('arc', [((0,0,0), (1,0,0))])]", "arc needs a tuple of 3 fields"},
		{"ShortPoint", "[('line', [((0,0), (1,0,0))])]", "(x, y, z) triple"},
		{"BadNumber", "[('circle', [((0,0,0), 1.2.3)])]", "bad number"},
		{"Trailing", "[] extra", "trailing input"},
		{"StringAsNumber", "[('circle', [((0,0,0), 'r')])]", "expected number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := profile.Decode(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var serr *profile.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}

func TestDecodeRejectsInvariantViolations(t *testing.T) {
	_, err := profile.Decode("[('arc', [((0,0,0), (1,0,0), 7.0)])]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside [0, 2π)")

	_, err = profile.Decode("[('circle', [((0,0,0), -1)])]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}
