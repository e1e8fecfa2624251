package mask

import (
	"math"

	"github.com/ctessum/geom"
)

// chebyshev returns the L-infinity distance from p to a single part.
// Points inside a polygon are at distance 0.
func chebyshev(part geom.Geom, p geom.Point) float64 {
	switch t := part.(type) {
	case geom.Point:
		return pointDist(t, p)
	case geom.LineString:
		if len(t) == 1 {
			return pointDist(t[0], p)
		}
		best := math.Inf(1)
		for i := 1; i < len(t); i++ {
			best = math.Min(best, segmentDist(t[i-1], t[i], p))
		}
		return best
	case geom.Polygon:
		if polygonContains(t, p) {
			return 0
		}
		best := math.Inf(1)
		for _, ring := range t {
			for i := range ring {
				best = math.Min(best, segmentDist(ring[(i+len(ring)-1)%len(ring)], ring[i], p))
			}
		}
		return best
	}
	return math.Inf(1)
}

func pointDist(a, p geom.Point) float64 {
	return math.Max(math.Abs(a.X-p.X), math.Abs(a.Y-p.Y))
}

// segmentDist is the L-infinity distance from p to the segment a -> b.
// Along the segment the distance is convex & piecewise linear, so the
// minimum sits at an end, where one axis term is zero, or where both
// axis terms are equal.
func segmentDist(a, b, p geom.Point) float64 {
	ux, uy := b.X-a.X, b.Y-a.Y
	fx, fy := a.X-p.X, a.Y-p.Y

	candidates := []float64{0, 1}
	if ux != 0 {
		candidates = append(candidates, -fx/ux)
	}
	if uy != 0 {
		candidates = append(candidates, -fy/uy)
	}
	if ux != uy {
		candidates = append(candidates, (fy-fx)/(ux-uy))
	}
	if ux != -uy {
		candidates = append(candidates, -(fx+fy)/(ux+uy))
	}

	best := math.Inf(1)
	for _, t := range candidates {
		if t < 0 || t > 1 || math.IsNaN(t) {
			continue
		}
		d := math.Max(math.Abs(fx+t*ux), math.Abs(fy+t*uy))
		best = math.Min(best, d)
	}
	return best
}
