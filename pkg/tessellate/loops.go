package tessellate

import (
	"github.com/chazu/flexure/pkg/profile"
)

// Loop is a chain of flattened primitives. A closed loop does not repeat
// its first point at the end.
type Loop struct {
	Points []profile.Point
	Closed bool
	// Primitives holds the indices of the primitives the loop was built
	// from, in chaining order.
	Primitives []int

	disc *profile.Circle
}

// Loops flattens every primitive of p and chains the open polylines into
// loops by endpoint coincidence within opts.Epsilon. A primitive may join
// a chain in either orientation. Circles are closed loops of their own.
// Chains that never close are returned with Closed false. Nil entries are
// skipped.
func Loops(p profile.Profile, opts Options) []Loop {
	opts = opts.normalized()

	type piece struct {
		index int
		pts   []profile.Point
	}
	var loops []Loop
	var open []piece
	for i, prim := range p {
		switch v := prim.(type) {
		case nil:
			continue
		case profile.Circle:
			pts := Flatten(v, opts)
			c := v
			loops = append(loops, Loop{
				Points:     pts[:len(pts)-1],
				Closed:     true,
				Primitives: []int{i},
				disc:       &c,
			})
		default:
			pts := Flatten(prim, opts)
			if len(pts) < 2 {
				continue
			}
			open = append(open, piece{index: i, pts: pts})
		}
	}

	used := make([]bool, len(open))
	for start := range open {
		if used[start] {
			continue
		}
		used[start] = true
		chain := append([]profile.Point(nil), open[start].pts...)
		members := []int{open[start].index}

		for !closes(chain, opts.Epsilon) {
			tail := chain[len(chain)-1]
			next, reversed := -1, false
			for j := range open {
				if used[j] {
					continue
				}
				pts := open[j].pts
				if pts[0].Near(tail, opts.Epsilon) {
					next = j
					break
				}
				if pts[len(pts)-1].Near(tail, opts.Epsilon) {
					next, reversed = j, true
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			pts := open[next].pts
			if reversed {
				pts = reversedPoints(pts)
			}
			chain = append(chain, pts[1:]...)
			members = append(members, open[next].index)
		}

		l := Loop{Points: chain, Primitives: members}
		if closes(chain, opts.Epsilon) {
			l.Points = chain[:len(chain)-1]
			l.Closed = true
		}
		loops = append(loops, l)
	}
	return loops
}

// closes reports whether a chain ends where it starts and encloses area.
func closes(chain []profile.Point, eps float64) bool {
	return len(chain) > 3 && chain[0].Near(chain[len(chain)-1], eps)
}

func reversedPoints(pts []profile.Point) []profile.Point {
	out := make([]profile.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// contains reports whether (x, y) lies inside the closed loop, by the
// even-odd crossing rule.
func (l Loop) contains(x, y float64) bool {
	in := false
	pts := l.Points
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
