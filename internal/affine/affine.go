package affine

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

var (
	// ErrSingular is returned when a transform cannot be inverted
	ErrSingular = fmt.Errorf("affine transform is not invertible")
)

// Affine maps pixel space (col, row) onto map space (x, y)
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// Pixel space (0,0) is the top left corner of the top left cell, so the
// cell (r, c) covers [c, c+1) x [r, r+1).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// NorthUp returns the usual transform for a raster with no rotation, given
// the map position of the top left corner & the size of a cell.
func NorthUp(left, top, cellWidth, cellHeight float64) Affine {
	return Affine{A: cellWidth, C: left, E: -cellHeight, F: top}
}

// Forward maps (col, row) in pixel space to map space.
func (t Affine) Forward(col, row float64) (float64, float64) {
	return t.A*col + t.B*row + t.C, t.D*col + t.E*row + t.F
}

// PixelToGeo maps a fractional (row, col) to (x, y).
func (t Affine) PixelToGeo(row, col float64) (float64, float64) {
	return t.Forward(col, row)
}

// CellCentre returns the map position of the centre of cell (row, col).
func (t Affine) CellCentre(row, col int) (float64, float64) {
	return t.Forward(float64(col)+0.5, float64(row)+0.5)
}

// Determinant of the linear part
func (t Affine) Determinant() float64 {
	return t.A*t.E - t.B*t.D
}

// Inverse returns the transform taking map space back to pixel space, that is
// the result maps (x, y) to (col, row).
func (t Affine) Inverse() (Affine, error) {
	det := t.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Affine{}, ErrSingular
	}
	ia := t.E / det
	ib := -t.B / det
	id := -t.D / det
	ie := t.A / det
	return Affine{
		A: ia, B: ib, C: -(ia*t.C + ib*t.F),
		D: id, E: ie, F: -(id*t.C + ie*t.F),
	}, nil
}

// GeoToPixel maps (x, y) to a fractional (row, col). Both are NaN if the
// transform is singular.
func (t Affine) GeoToPixel(x, y float64) (float64, float64) {
	inv, err := t.Inverse()
	if err != nil {
		return math.NaN(), math.NaN()
	}
	col, row := inv.Forward(x, y)
	return row, col
}

// Cell returns the (row, col) index of the cell containing (x, y).
func (t Affine) Cell(x, y float64) (int, int) {
	row, col := t.GeoToPixel(x, y)
	return int(math.Floor(row)), int(math.Floor(col))
}

// PixelSize returns the width & height of one cell in map units.
func (t Affine) PixelSize() (float64, float64) {
	return math.Hypot(t.A, t.D), math.Hypot(t.B, t.E)
}

// IsSquare returns if cells are (within tol) as wide as they are high.
func (t Affine) IsSquare(tol float64) bool {
	w, h := t.PixelSize()
	return math.Abs(w-h) <= tol*math.Max(w, h)
}

// Bounds returns the map space rectangle covering a width x height raster.
func (t Affine) Bounds(width, height int) r2.Rect {
	corners := [][2]float64{
		{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)},
	}
	pts := make([]r2.Point, 0, len(corners))
	for _, c := range corners {
		x, y := t.Forward(c[0], c[1])
		pts = append(pts, r2.Point{X: x, Y: y})
	}
	return r2.RectFromPoints(pts...)
}

// AlmostEqual compares each coefficient within tol
func (t Affine) AlmostEqual(o Affine, tol float64) bool {
	a := []float64{t.A, t.B, t.C, t.D, t.E, t.F}
	b := []float64{o.A, o.B, o.C, o.D, o.E, o.F}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// Rect builds a map space rectangle from its extremes
func Rect(minX, minY, maxX, maxY float64) r2.Rect {
	return r2.Rect{X: r1.Interval{Lo: minX, Hi: maxX}, Y: r1.Interval{Lo: minY, Hi: maxY}}
}

func (t Affine) String() string {
	return fmt.Sprintf("| %g, %g, %g|\n| %g, %g, %g|", t.A, t.B, t.C, t.D, t.E, t.F)
}
