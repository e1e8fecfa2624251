package mask

import (
	"github.com/boljen/go-bitmap"

	"github.com/voidshard/otter/internal/raster"
)

// SeaLevel is the cell value the game treats as water
const SeaLevel = 0.0

// Class describes how many cells a geometry landed on
type Class int

const (
	Empty  Class = iota // no cells, the geometry is off the map
	Single              // exactly one cell
	Multi               // more than one cell
)

func (c Class) String() string {
	switch c {
	case Single:
		return "single"
	case Multi:
		return "multi"
	}
	return "empty"
}

// Cell is a 0 based (row, col) raster index
type Cell struct {
	Row, Col int
}

// Mask flags the cells of a raster that a geometry covers.
type Mask struct {
	width, height int
	bits          bitmap.Bitmap
	count         int
}

// New returns an empty mask for a width x height raster
func New(width, height int) *Mask {
	return &Mask{width: width, height: height, bits: bitmap.New(width * height)}
}

// Set flags (row, col); out of bounds cells are ignored
func (m *Mask) Set(row, col int) {
	if row < 0 || col < 0 || row >= m.height || col >= m.width {
		return
	}
	i := row*m.width + col
	if m.bits.Get(i) {
		return
	}
	m.bits.Set(i, true)
	m.count++
}

// Get returns if (row, col) is flagged
func (m *Mask) Get(row, col int) bool {
	if row < 0 || col < 0 || row >= m.height || col >= m.width {
		return false
	}
	return m.bits.Get(row*m.width + col)
}

// Count of flagged cells
func (m *Mask) Count() int {
	return m.count
}

// Class of the mask by its count
func (m *Mask) Class() Class {
	switch {
	case m.count == 0:
		return Empty
	case m.count == 1:
		return Single
	}
	return Multi
}

// Cells returns flagged cells in row major order
func (m *Mask) Cells() []Cell {
	out := make([]Cell, 0, m.count)
	for i := 0; i < m.width*m.height && len(out) < m.count; i++ {
		if m.bits.Get(i) {
			out = append(out, Cell{Row: i / m.width, Col: i % m.width})
		}
	}
	return out
}

// Union flags every cell flagged in o
func (m *Mask) Union(o *Mask) {
	for _, c := range o.Cells() {
		m.Set(c.Row, c.Col)
	}
}

// OnWater returns if any flagged cell is at sea level
func (m *Mask) OnWater(r *raster.Raster) bool {
	for _, c := range m.Cells() {
		if r.At(c.Row, c.Col) == SeaLevel {
			return true
		}
	}
	return false
}
