package mask

import (
	"image"
	"math"

	"github.com/ctessum/geom"

	"github.com/voidshard/otter/internal/affine"
	"github.com/voidshard/otter/internal/line"
	"github.com/voidshard/otter/internal/raster"
)

// edgeTolerance is how close (in pixels) a point must be to a cell edge
// to count as sitting on it
const edgeTolerance = 1e-9

// Options tweak how geometries are burnt into a mask
type Options struct {
	// Buffer grows each geometry by this distance (in map units) before
	// masking. Corners are square, so a buffered point is a square with
	// sides 2 * Buffer long. Zero disables buffering.
	Buffer float64

	// AllTouched flags every cell a polygon edge passes through as well as
	// those with their centre inside.
	AllTouched bool
}

// One masks r against a single geometry. The raster is not altered.
//
//   - points flag the cell they fall in, or every cell they border when they
//     sit exactly on a cell edge
//   - lines flag each cell they pass through
//   - polygons flag cells whose centre is inside (holes excluded)
//   - multi geometries & collections flag the union of their parts
func One(r *raster.Raster, g geom.Geom, opts Options) (*Mask, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}
	inv, err := r.Transform.Inverse()
	if err != nil {
		return nil, err
	}

	m := New(r.Width, r.Height)
	for _, part := range explode(g) {
		switch t := part.(type) {
		case geom.Point:
			m.burnPoint(inv, t)
		case geom.LineString:
			m.burnLine(inv, t)
		case geom.Polygon:
			m.burnPolygon(inv, t, opts.AllTouched)
		}
		if opts.Buffer > 0 {
			m.burnBuffer(r.Transform, inv, part, opts.Buffer)
		}
	}
	return m, nil
}

// Skipped is a geometry Union left out & why
type Skipped struct {
	Index int
	Err   error
}

// Union masks r against every geometry, returning the combined mask.
// Geometries that can't be masked, or that miss the raster (ErrOutside),
// are left out & reported by their index in gs.
func Union(r *raster.Raster, gs []geom.Geom, opts Options) (*Mask, []Skipped) {
	out := New(r.Width, r.Height)
	skipped := []Skipped{}
	for i, g := range gs {
		m, err := One(r, g, opts)
		if err == nil && m.Class() == Empty {
			err = ErrOutside
		}
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: err})
			continue
		}
		out.Union(m)
	}
	return out, skipped
}

// toPixel maps a map space point into fractional pixel space (x=col, y=row)
func toPixel(inv affine.Affine, p geom.Point) geom.Point {
	col, row := inv.Forward(p.X, p.Y)
	return geom.Point{X: col, Y: row}
}

// edgeCells returns the cell index v falls in, or both neighbours if v is
// on the boundary between two cells.
func edgeCells(v float64) []int {
	k := math.Round(v)
	if math.Abs(v-k) < edgeTolerance {
		return []int{int(k) - 1, int(k)}
	}
	return []int{int(math.Floor(v))}
}

func (m *Mask) burnPoint(inv affine.Affine, p geom.Point) {
	px := toPixel(inv, p)
	for _, row := range edgeCells(px.Y) {
		for _, col := range edgeCells(px.X) {
			m.Set(row, col)
		}
	}
}

func (m *Mask) burnLine(inv affine.Affine, ls geom.LineString) {
	if len(ls) == 1 {
		m.burnPoint(inv, ls[0])
		return
	}
	for i := 1; i < len(ls); i++ {
		m.burnSegment(toPixel(inv, ls[i-1]), toPixel(inv, ls[i]))
	}
}

// burnSegment flags cells along a pixel space segment, after clipping it to
// the raster so we never walk cells far off the map.
func (m *Mask) burnSegment(a, b geom.Point) {
	a, b, ok := clip(a, b, float64(m.width), float64(m.height))
	if !ok {
		return
	}
	line.Walk(m.cellOf(a), m.cellOf(b), func(x, y int) {
		m.Set(y, x)
	})
}

// cellOf returns the in bounds cell containing pixel space point p
func (m *Mask) cellOf(p geom.Point) image.Point {
	x := int(math.Floor(p.X))
	y := int(math.Floor(p.Y))
	return image.Pt(clamp(x, 0, m.width-1), clamp(y, 0, m.height-1))
}

func (m *Mask) burnPolygon(inv affine.Affine, poly geom.Polygon, allTouched bool) {
	px := make(geom.Polygon, len(poly))
	for i, ring := range poly {
		px[i] = make([]geom.Point, len(ring))
		for j, p := range ring {
			px[i][j] = toPixel(inv, p)
		}
	}

	minx, miny, maxx, maxy := bounds(px)
	r0 := clamp(int(math.Floor(miny)), 0, m.height-1)
	r1 := clamp(int(math.Ceil(maxy)), 0, m.height-1)
	c0 := clamp(int(math.Floor(minx)), 0, m.width-1)
	c1 := clamp(int(math.Ceil(maxx)), 0, m.width-1)
	if maxy < 0 || maxx < 0 || miny > float64(m.height) || minx > float64(m.width) {
		return
	}

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if polygonContains(px, geom.Point{X: float64(col) + 0.5, Y: float64(row) + 0.5}) {
				m.Set(row, col)
			}
		}
	}

	if !allTouched {
		return
	}
	for _, ring := range px {
		for i := range ring {
			m.burnSegment(ring[(i+len(ring)-1)%len(ring)], ring[i])
		}
	}
}

// burnBuffer flags cells whose centre is within d (chebyshev distance, in
// map units) of the geometry part.
func (m *Mask) burnBuffer(tr, inv affine.Affine, part geom.Geom, d float64) {
	minx, miny, maxx, maxy := bounds(part)
	minx, miny, maxx, maxy = minx-d, miny-d, maxx+d, maxy+d

	r0, r1 := math.Inf(1), math.Inf(-1)
	c0, c1 := math.Inf(1), math.Inf(-1)
	for _, corner := range []geom.Point{{X: minx, Y: miny}, {X: maxx, Y: miny}, {X: minx, Y: maxy}, {X: maxx, Y: maxy}} {
		px := toPixel(inv, corner)
		r0, r1 = math.Min(r0, px.Y), math.Max(r1, px.Y)
		c0, c1 = math.Min(c0, px.X), math.Max(c1, px.X)
	}
	if r1 < 0 || c1 < 0 || r0 > float64(m.height) || c0 > float64(m.width) {
		return
	}

	limit := d * (1 + edgeTolerance)
	for row := clamp(int(math.Floor(r0)), 0, m.height-1); row <= clamp(int(math.Ceil(r1)), 0, m.height-1); row++ {
		for col := clamp(int(math.Floor(c0)), 0, m.width-1); col <= clamp(int(math.Ceil(c1)), 0, m.width-1); col++ {
			x, y := tr.CellCentre(row, col)
			if chebyshev(part, geom.Point{X: x, Y: y}) <= limit {
				m.Set(row, col)
			}
		}
	}
}

// clip a segment to [0,w]x[0,h] (Liang-Barsky)
func clip(a, b geom.Point, w, h float64) (geom.Point, geom.Point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y

	edges := [][2]float64{
		{-dx, a.X},
		{dx, w - a.X},
		{-dy, a.Y},
		{dy, h - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}

	return geom.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, geom.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
