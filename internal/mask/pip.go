package mask

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
)

// polygonContains returns if p is inside poly using the even-odd rule over
// every ring, so holes are respected.
func polygonContains(poly geom.Polygon, p geom.Point) bool {
	inside := false
	for _, ring := range poly {
		if ringCrossings(ring, p)%2 == 1 {
			inside = !inside
		}
	}
	return inside
}

// ringCrossings counts ring edges crossed by a ray cast from p towards +x.
// The ring may or may not repeat its first point at the end.
func ringCrossings(ring []geom.Point, p geom.Point) int {
	n := len(ring)
	if n < 3 {
		return 0
	}

	count := 0
	start := ring[n-1]
	for _, end := range ring {
		if intersectsWithRaycast(p, start, end) {
			count++
		}
		start = end
	}
	return count
}

// intersectsWithRaycast returns if the ray from p towards +x crosses the
// edge start -> end. Edges are half open in y so a ray through a vertex
// is only counted once.
func intersectsWithRaycast(p, start, end geom.Point) bool {
	if (start.Y > p.Y) == (end.Y > p.Y) {
		return false
	}
	x := start.X + (p.Y-start.Y)*(end.X-start.X)/(end.Y-start.Y)
	return p.X < x
}

// Contains returns if p is inside any polygon part of g. Points & lines
// contain nothing.
func Contains(g geom.Geom, p geom.Point) bool {
	for _, part := range explode(g) {
		if poly, ok := part.(geom.Polygon); ok && polygonContains(poly, p) {
			return true
		}
	}
	return false
}

// Area returns the area of the polygon parts of g. A ring only counts as a
// hole if it sits inside another ring of the same polygon, so a polygon made
// of disjoint rings (eg. a multi-part shapefile record) sums every island.
func Area(g geom.Geom) float64 {
	total := 0.0
	for _, part := range explode(g) {
		if poly, ok := part.(geom.Polygon); ok {
			total += poly.Area()
		}
	}
	return math.Max(total, 0)
}

// Envelope returns the bounding box of every vertex in g
func Envelope(g geom.Geom) r2.Rect {
	out := r2.EmptyRect()
	for _, part := range explode(g) {
		visit(part, func(p geom.Point) {
			out = out.AddPoint(r2.Point{X: p.X, Y: p.Y})
		})
	}
	return out
}
