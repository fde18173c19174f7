package library_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/flexure/pkg/library"
	"github.com/chazu/flexure/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hub(r float64) profile.Profile {
	return profile.Profile{profile.Circle{Radius: r}}
}

func TestBuilder(t *testing.T) {
	lib, err := library.NewBuilder().
		Add("Circular", "b", hub(1)).
		Add("Circular", "a", hub(2)).
		AddCategory("Square").
		Add("Triangular", "t", hub(3)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"Circular", "Square", "Triangular"}, lib.Categories())
	assert.Equal(t, []string{"a", "b"}, lib.Names("Circular"))
	assert.Empty(t, lib.Names("Square"))
	assert.Nil(t, lib.Names("Hexagonal"))
	assert.Equal(t, 3, lib.Len())
}

func TestBuilderErrors(t *testing.T) {
	_, err := library.NewBuilder().Add("C", "x", hub(1)).Add("C", "x", hub(2)).Build()
	assert.ErrorIs(t, err, library.ErrDuplicate)

	_, err = library.NewBuilder().Add("C", "", hub(1)).Build()
	assert.ErrorIs(t, err, library.ErrEmptyName)

	_, err = library.NewBuilder().AddCategory("").Build()
	assert.ErrorIs(t, err, library.ErrEmptyName)

	// The same name in different categories is fine.
	_, err = library.NewBuilder().Add("A", "x", hub(1)).Add("B", "x", hub(1)).Build()
	assert.NoError(t, err)
}

func TestLookupReturnsCopy(t *testing.T) {
	spline := profile.Spline{FitPoints: []profile.Point{{}, {X: 1}}}
	src := profile.Profile{spline}
	lib, err := library.NewBuilder().Add("C", "s", src).Build()
	require.NoError(t, err)

	// Mutating the source after Add must not leak in.
	spline.FitPoints[1].X = 99

	got, ok := lib.Lookup("C", "s")
	require.True(t, ok)
	got[0].(profile.Spline).FitPoints[0].X = -5

	again := lib.MustLookup("C", "s")
	assert.Equal(t, 0.0, again[0].(profile.Spline).FitPoints[0].X)
	assert.Equal(t, 1.0, again[0].(profile.Spline).FitPoints[1].X)

	_, ok = lib.Lookup("C", "missing")
	assert.False(t, ok)
	assert.Panics(t, func() { lib.MustLookup("C", "missing") })
}

func TestFind(t *testing.T) {
	lib, err := library.NewBuilder().Add("B", "x", hub(2)).Add("A", "x", hub(1)).Build()
	require.NoError(t, err)

	e, ok := lib.Find("x")
	require.True(t, ok)
	assert.Equal(t, "A", e.Category)
	assert.Equal(t, 1.0, e.Profile[0].(profile.Circle).Radius)

	_, ok = lib.Find("y")
	assert.False(t, ok)
}

func TestMergeOverlayWins(t *testing.T) {
	base, err := library.NewBuilder().Add("C", "x", hub(1)).Add("C", "y", hub(1)).Build()
	require.NoError(t, err)
	overlay, err := library.NewBuilder().Add("C", "x", hub(5)).Add("D", "z", hub(1)).Build()
	require.NoError(t, err)

	m := library.Merge(base, overlay)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 5.0, m.MustLookup("C", "x")[0].(profile.Circle).Radius)
	assert.Equal(t, []string{"C", "D"}, m.Categories())

	assert.Equal(t, 2, library.Merge(base, nil).Len())
}

func TestDefault(t *testing.T) {
	lib := library.Default()
	assert.Same(t, lib, library.Default())

	assert.Equal(t, []string{"Circular", "Square", "Triangular"}, lib.Categories())
	assert.Equal(t, []string{"1st Flexure", "2nd Flexure", "3rd Flexure"}, lib.Names("Circular"))
	assert.Empty(t, lib.Names("Triangular"))
	assert.Empty(t, lib.Names("Square"))

	counts := map[string]int{"1st Flexure": 7, "2nd Flexure": 18, "3rd Flexure": 67}
	for name, want := range counts {
		p := lib.MustLookup("Circular", name)
		assert.Len(t, p, want, name)
		assert.True(t, profile.Validate(p).OK(), name)
	}

	first := lib.MustLookup("Circular", "1st Flexure")
	line := first[0].(profile.Line)
	assert.Equal(t, 1.2494080302136261, line.Start.X)

	third := lib.MustLookup("Circular", "3rd Flexure")
	hubCircle := third[len(third)-1].(profile.Circle)
	assert.Equal(t, 0.9999913636483746, hubCircle.Radius)
}

// The built-in profiles are drawn around a unit hub at the origin.
func TestDefaultHubAtOrigin(t *testing.T) {
	third := library.Default().MustLookup("Circular", "3rd Flexure")
	hubCircle := third[len(third)-1].(profile.Circle)
	assert.InDelta(t, 1.0, hubCircle.Radius, 1e-4)
	assert.Equal(t, profile.Point{}, hubCircle.Center)

	for _, a := range third {
		if arc, ok := a.(profile.Arc); ok {
			assert.True(t, arc.Sweep >= 0 && arc.Sweep < 2*math.Pi)
		}
	}
}

func TestDefaultCodecRoundTrip(t *testing.T) {
	for _, e := range library.Default().Entries() {
		got, err := profile.Decode(profile.Encode(e.Profile))
		require.NoError(t, err, e.Name)
		assert.Equal(t, e.Profile, got, e.Name)
	}
}

func TestLoadAndDump(t *testing.T) {
	src := `
categories:
  Circular:
    hub: "[('circle', [((0, 0, 0), 1)])]"
  Square: {}
`
	lib, err := library.Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"Circular", "Square"}, lib.Categories())

	var buf bytes.Buffer
	require.NoError(t, library.Dump(&buf, lib))

	again, err := library.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, lib.Entries(), again.Entries())
	assert.Equal(t, lib.Categories(), again.Categories())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"BadYAML", "categories: [1, 2"},
		{"UnknownField", "profiles: {}"},
		{"BadProfile", "categories:\n  C:\n    x: \"[('arc', [((0,0,0), (1,0,0))])]\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := library.Load(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}

	_, err := library.Load(strings.NewReader("categories:\n  C:\n    x: \"[('circle', [((0,0,0), -1)])]\""))
	var verr profile.ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)
}

func TestLoadEmpty(t *testing.T) {
	lib, err := library.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
	assert.Empty(t, lib.Categories())
}
