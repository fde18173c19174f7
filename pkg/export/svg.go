package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/chazu/flexure/pkg/profile"
	"github.com/chazu/flexure/pkg/tessellate"
)

// canvas maps sketch coordinates to SVG user units with y pointing down.
type canvas struct {
	minX, maxY float64
	scale      float64
	margin     float64
}

func (c canvas) x(v float64) string { return num(c.margin + (v-c.minX)*c.scale) }
func (c canvas) y(v float64) string { return num(c.margin + (c.maxY-v)*c.scale) }
func (c canvas) r(v float64) string { return num(v * c.scale) }

func (c canvas) point(p profile.Point) string { return c.x(p.X) + " " + c.y(p.Y) }

func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	if s == "-0.000" {
		return "0.000"
	}
	return s
}

// WriteSVG draws p onto w as an SVG document, one path per primitive in
// profile order. Arcs and circles use native arc commands; splines are
// drawn through their flattened polyline. The drawing is framed to the
// profile's extent plus opts.Margin.
func WriteSVG(w io.Writer, p profile.Profile, opts Options) error {
	opts = opts.normalized()
	if err := checkPrimitives(p); err != nil {
		return fmt.Errorf("export: svg: %w", err)
	}
	minX, minY, maxX, maxY, err := bounds(p, opts.Tessellation)
	if err != nil {
		return err
	}

	c := canvas{minX: minX, maxY: maxY, scale: opts.PixelsPerUnit, margin: opts.Margin}
	width := math.Ceil((maxX-minX)*c.scale + 2*c.margin)
	height := math.Ceil((maxY-minY)*c.scale + 2*c.margin)

	ew := &errWriter{w: w}
	doc := svg.New(ew)
	doc.Start(width, height)
	if opts.Title != "" {
		doc.Title(opts.Title)
	}
	doc.Gstyle(fmt.Sprintf("fill:none;stroke:black;stroke-width:%g", opts.StrokeWidth))
	for i, prim := range p {
		doc.Path(pathData(c, prim, opts.Tessellation), fmt.Sprintf(`id="%s-%d"`, prim.Kind(), i))
	}
	doc.Gend()
	doc.End()

	if ew.err != nil {
		return fmt.Errorf("export: svg: %w", ew.err)
	}
	return nil
}

func pathData(c canvas, prim profile.Primitive, opts tessellate.Options) string {
	var b strings.Builder
	switch v := prim.(type) {
	case profile.Line:
		fmt.Fprintf(&b, "M %s L %s", c.point(v.Start), c.point(v.End))
	case profile.Arc:
		// Flipping y turns counter-clockwise into the negative-angle
		// direction, so the sweep flag is always 0.
		large := 0
		if v.Sweep > math.Pi {
			large = 1
		}
		r := c.r(v.Radius())
		fmt.Fprintf(&b, "M %s A %s %s 0 %d 0 %s", c.point(v.Start), r, r, large, c.point(v.End()))
	case profile.Circle:
		r := c.r(v.Radius)
		east := profile.Point{X: v.Center.X + v.Radius, Y: v.Center.Y}
		west := profile.Point{X: v.Center.X - v.Radius, Y: v.Center.Y}
		fmt.Fprintf(&b, "M %s A %s %s 0 1 0 %s A %s %s 0 1 0 %s Z",
			c.point(east), r, r, c.point(west), r, r, c.point(east))
	case profile.Spline:
		for i, pt := range tessellate.Flatten(v, opts) {
			if i == 0 {
				b.WriteString("M ")
			} else {
				b.WriteString(" L ")
			}
			b.WriteString(c.point(pt))
		}
	}
	return b.String()
}

// errWriter keeps the first write error; svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
