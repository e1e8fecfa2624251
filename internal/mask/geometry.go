package mask

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

var (
	// ErrEmptyGeometry is returned for nil geometries or ones with no points
	ErrEmptyGeometry = fmt.Errorf("geometry is empty")

	// ErrInvalidGeometry is returned for geometries we cannot rasterize
	ErrInvalidGeometry = fmt.Errorf("geometry is invalid")

	// ErrOutside is reported for geometries that flag no cell
	ErrOutside = fmt.Errorf("outside of map")
)

// Validate checks g can be masked.
func Validate(g geom.Geom) error {
	parts := explode(g)
	if len(parts) == 0 {
		if g == nil || isEmpty(g) {
			return ErrEmptyGeometry
		}
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidGeometry, g)
	}
	for _, p := range parts {
		if err := validatePart(p); err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(g geom.Geom) bool {
	switch t := g.(type) {
	case geom.MultiPoint:
		return len(t) == 0
	case geom.LineString:
		return len(t) == 0
	case geom.MultiLineString:
		return len(t) == 0
	case geom.Polygon:
		return len(t) == 0
	case geom.MultiPolygon:
		return len(t) == 0
	case geom.GeometryCollection:
		return len(t) == 0
	}
	return false
}

func validatePart(g geom.Geom) error {
	switch t := g.(type) {
	case geom.Point:
		if !finite(t) {
			return fmt.Errorf("%w: non finite point", ErrInvalidGeometry)
		}
	case geom.LineString:
		for _, p := range t {
			if !finite(p) {
				return fmt.Errorf("%w: non finite vertex", ErrInvalidGeometry)
			}
		}
	case geom.Polygon:
		for i, ring := range t {
			if len(distinct(ring)) < 3 {
				return fmt.Errorf("%w: ring %d has fewer than 3 distinct points", ErrInvalidGeometry, i)
			}
			for _, p := range ring {
				if !finite(p) {
					return fmt.Errorf("%w: non finite vertex", ErrInvalidGeometry)
				}
			}
		}
	}
	return nil
}

// explode splits g into Points, LineStrings & Polygons. Empty parts are
// dropped.
func explode(g geom.Geom) []geom.Geom {
	out := []geom.Geom{}
	switch t := g.(type) {
	case geom.Point:
		out = append(out, t)
	case *geom.Point:
		if t != nil {
			out = append(out, *t)
		}
	case geom.MultiPoint:
		for _, p := range t {
			out = append(out, p)
		}
	case geom.LineString:
		if len(t) > 0 {
			out = append(out, t)
		}
	case geom.MultiLineString:
		for _, l := range t {
			if len(l) > 0 {
				out = append(out, l)
			}
		}
	case geom.Polygon:
		if len(t) > 0 {
			out = append(out, t)
		}
	case geom.MultiPolygon:
		for _, p := range t {
			if len(p) > 0 {
				out = append(out, p)
			}
		}
	case *geom.Bounds:
		if t != nil {
			out = append(out, geom.Polygon{{
				t.Min, {X: t.Max.X, Y: t.Min.Y}, t.Max, {X: t.Min.X, Y: t.Max.Y},
			}})
		}
	case geom.GeometryCollection:
		for _, sub := range t {
			out = append(out, explode(sub)...)
		}
	}
	return out
}

// bounds of g as minx, miny, maxx, maxy
func bounds(g geom.Geom) (float64, float64, float64, float64) {
	minx, miny := math.Inf(1), math.Inf(1)
	maxx, maxy := math.Inf(-1), math.Inf(-1)
	visit(g, func(p geom.Point) {
		minx, miny = math.Min(minx, p.X), math.Min(miny, p.Y)
		maxx, maxy = math.Max(maxx, p.X), math.Max(maxy, p.Y)
	})
	return minx, miny, maxx, maxy
}

// visit every vertex of a single part
func visit(g geom.Geom, fn func(geom.Point)) {
	switch t := g.(type) {
	case geom.Point:
		fn(t)
	case geom.LineString:
		for _, p := range t {
			fn(p)
		}
	case geom.Polygon:
		for _, ring := range t {
			for _, p := range ring {
				fn(p)
			}
		}
	}
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// distinct returns the ring without consecutive duplicates or the closing point
func distinct(ring []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
