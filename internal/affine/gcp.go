package affine

import (
	"fmt"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// GCP is a ground control point, tying a pixel space position to a
// position in map space.
type GCP struct {
	Row, Col float64
	X, Y     float64
}

// FromGCPs fits an Affine to the given control points by least squares.
// At least three points that are not collinear are needed.
func FromGCPs(gcps []GCP) (Affine, error) {
	if len(gcps) < 3 {
		return Affine{}, fmt.Errorf("need at least 3 control points, got %d", len(gcps))
	}

	design := mat.NewDense(len(gcps), 3, nil)
	targets := mat.NewDense(len(gcps), 2, nil)
	for i, g := range gcps {
		design.SetRow(i, []float64{g.Col, g.Row, 1})
		targets.SetRow(i, []float64{g.X, g.Y})
	}

	var coef mat.Dense
	if err := coef.Solve(design, targets); err != nil {
		return Affine{}, fmt.Errorf("control points do not define a transform: %w", err)
	}

	t := Affine{
		A: coef.At(0, 0), B: coef.At(1, 0), C: coef.At(2, 0),
		D: coef.At(0, 1), E: coef.At(1, 1), F: coef.At(2, 1),
	}
	if _, err := t.Inverse(); err != nil {
		return Affine{}, err
	}
	return t, nil
}

// CornerGCPs returns the four corner control points tying a width x height
// image to the given map space bounds. Pixel space corners are cell edges,
// so the centre of every cell lines up with the centre of the matching
// cell in a raster of the same shape covering the same bounds.
func CornerGCPs(bounds r2.Rect, width, height int) []GCP {
	w, h := float64(width), float64(height)
	lo, hi := bounds.Lo(), bounds.Hi()
	return []GCP{
		{Row: 0, Col: 0, X: lo.X, Y: hi.Y}, // top left
		{Row: 0, Col: w, X: hi.X, Y: hi.Y}, // top right
		{Row: h, Col: 0, X: lo.X, Y: lo.Y}, // bottom left
		{Row: h, Col: w, X: hi.X, Y: lo.Y}, // bottom right
	}
}

// FromCorners builds the transform for an image of width x height that
// exactly covers bounds.
func FromCorners(bounds r2.Rect, width, height int) (Affine, error) {
	if width <= 0 || height <= 0 {
		return Affine{}, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	return FromGCPs(CornerGCPs(bounds, width, height))
}
