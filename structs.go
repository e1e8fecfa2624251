package otter

import (
	"fmt"

	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/logger"
	"github.com/voidshard/otter/internal/mask"
)

// GridCoordinate is where one feature landed on the map.
// Rows & Cols are 1 based (the game's tile numbering) and always the
// same length; a single cell match has one entry in each.
type GridCoordinate struct {
	// Index is the position of the feature in the (filtered) input
	Index int

	Rows []int
	Cols []int

	// IsWater is set if any cell the feature covers is at sea level
	IsWater bool

	// IsMulti is set if the feature covers more than one cell
	IsMulti bool
}

// Row returns the first row (the only one for single cell matches)
func (g *GridCoordinate) Row() int {
	return g.Rows[0]
}

// Col returns the first column (the only one for single cell matches)
func (g *GridCoordinate) Col() int {
	return g.Cols[0]
}

// newGridCoordinate converts 0 based mask cells into a GridCoordinate
func newGridCoordinate(index int, cells []mask.Cell, water bool) *GridCoordinate {
	gc := &GridCoordinate{
		Index:   index,
		Rows:    make([]int, len(cells)),
		Cols:    make([]int, len(cells)),
		IsWater: water,
		IsMulti: len(cells) > 1,
	}
	for i, c := range cells {
		gc.Rows[i] = c.Row + 1
		gc.Cols[i] = c.Col + 1
	}
	return gc
}

// Warning records why an input row was skipped (or flagged)
type Warning struct {
	// Index of the row in the input, -1 if the warning isn't about a row
	Index int

	// Subject is the zone, column or file the warning concerns (optional)
	Subject string

	Reason string
}

func (w Warning) String() string {
	switch {
	case w.Index >= 0 && w.Subject != "":
		return fmt.Sprintf("row %d (%s): %s", w.Index, w.Subject, w.Reason)
	case w.Index >= 0:
		return fmt.Sprintf("row %d: %s", w.Index, w.Reason)
	case w.Subject != "":
		return fmt.Sprintf("%s: %s", w.Subject, w.Reason)
	}
	return w.Reason
}

// warnings collects Warnings, logging each as it is added
type warnings []Warning

func (w *warnings) add(index int, subject, format string, args ...interface{}) {
	reason := fmt.Sprintf(format, args...)
	logger.L().Warn(reason, "index", index, "subject", subject)
	*w = append(*w, Warning{Index: index, Subject: subject, Reason: reason})
}

// ResultColumns are the names of the columns added to resolved output.
// They differ from the defaults when the input already had columns with
// those names.
type ResultColumns struct {
	Row   string
	Col   string
	Water string
	Multi string
}

// Resolution is the outcome of resolving features against a raster
type Resolution struct {
	// Set holds only the rows that landed on the map, in input order,
	// with the ResultColumns appended
	Set *feature.Set

	// Coords lines up with Set.Rows
	Coords []*GridCoordinate

	Warnings []Warning

	Columns ResultColumns
}

// EditReport describes what a raster edit did
type EditReport struct {
	// Cells is the number of cells set
	Cells int

	// BufferDistance is the buffer in map units actually used
	BufferDistance float64

	Warnings []Warning
}
