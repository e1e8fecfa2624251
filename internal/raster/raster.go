package raster

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/voidshard/otter/internal/affine"
)

// DType names the numeric type cells are stored as on disk.
// In memory every cell is a float64.
type DType string

const (
	Uint8   DType = "uint8"
	Uint16  DType = "uint16"
	Int16   DType = "int16"
	Int32   DType = "int32"
	Float32 DType = "float32"
	Float64 DType = "float64"
)

var dtypeRange = map[DType][2]float64{
	Uint8:   {0, math.MaxUint8},
	Uint16:  {0, math.MaxUint16},
	Int16:   {math.MinInt16, math.MaxInt16},
	Int32:   {math.MinInt32, math.MaxInt32},
	Float32: {-math.MaxFloat32, math.MaxFloat32},
	Float64: {-math.MaxFloat64, math.MaxFloat64},
}

// Valid returns if we know about this dtype
func (d DType) Valid() bool {
	_, ok := dtypeRange[d]
	return ok
}

// Integer returns if the dtype only holds whole numbers
func (d DType) Integer() bool {
	return d != Float32 && d != Float64
}

// Clamp v into the range representable by the dtype, rounding for integer
// types.
func (d DType) Clamp(v float64) float64 {
	rng, ok := dtypeRange[d]
	if !ok || math.IsNaN(v) {
		return v
	}
	if d.Integer() {
		v = math.Round(v)
	}
	return math.Max(rng[0], math.Min(rng[1], v))
}

// Raster is a single band grid of numbers placed on the map by Transform.
// Cells are held row major, top row first.
type Raster struct {
	Width, Height int

	// Band holds Width * Height values
	Band []float64

	Transform affine.Affine

	// CRS is whatever identifies the coordinate system, eg. "EPSG:4326".
	// We only carry it around; no reprojection is ever done.
	CRS string

	// NoData if set marks cells holding this value as empty
	NoData *float64

	DType DType
}

// New returns a zeroed raster
func New(width, height int, tr affine.Affine, dtype DType) *Raster {
	return &Raster{
		Width:     width,
		Height:    height,
		Band:      make([]float64, width*height),
		Transform: tr,
		DType:     dtype,
	}
}

// FromRows builds a raster from a row major 2D slice.
func FromRows(rows [][]float64, tr affine.Affine, dtype DType) (*Raster, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("raster must have at least one cell")
	}
	r := New(len(rows[0]), len(rows), tr, dtype)
	for y, row := range rows {
		if len(row) != r.Width {
			return nil, fmt.Errorf("row %d has %d values, expected %d", y, len(row), r.Width)
		}
		copy(r.Band[y*r.Width:], row)
	}
	return r, nil
}

// InBounds returns if (row, col) is a cell of this raster
func (r *Raster) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < r.Height && col < r.Width
}

// At returns the value at (row, col)
func (r *Raster) At(row, col int) float64 {
	return r.Band[row*r.Width+col]
}

// Set the value at (row, col)
func (r *Raster) Set(row, col int, v float64) {
	r.Band[row*r.Width+col] = v
}

// IsNoData returns if v is the nodata marker (or NaN)
func (r *Raster) IsNoData(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return r.NoData != nil && *r.NoData == v
}

// Rows returns a copy of the data as a 2D slice
func (r *Raster) Rows() [][]float64 {
	out := make([][]float64, r.Height)
	for y := range out {
		out[y] = make([]float64, r.Width)
		copy(out[y], r.Band[y*r.Width:(y+1)*r.Width])
	}
	return out
}

// Bounds of the raster in map space
func (r *Raster) Bounds() r2.Rect {
	return r.Transform.Bounds(r.Width, r.Height)
}

// Clone returns a deep copy
func (r *Raster) Clone() *Raster {
	out := *r
	out.Band = make([]float64, len(r.Band))
	copy(out.Band, r.Band)
	if r.NoData != nil {
		nd := *r.NoData
		out.NoData = &nd
	}
	return &out
}

// MinMax returns the lowest & highest valid values.
func (r *Raster) MinMax() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range r.Band {
		if r.IsNoData(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
