package feature

import (
	"fmt"
	"strings"

	"github.com/ctessum/geom"
)

var (
	// ErrUnknownColumn is returned when a named column is not in a Set
	ErrUnknownColumn = fmt.Errorf("unknown column")
)

// Row is one record, values line up with the Set's Columns.
// Geom is nil for purely tabular records.
type Row struct {
	Values []string
	Geom   geom.Geom
}

// Set is the canonical table every input is normalised into: an ordered
// list of named string columns plus an optional geometry per row.
type Set struct {
	Columns []string
	Rows    []*Row
}

// NewSet returns an empty Set with the given columns
func NewSet(columns ...string) *Set {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Set{Columns: cols, Rows: []*Row{}}
}

// Len returns the number of rows
func (s *Set) Len() int {
	return len(s.Rows)
}

// Add appends a row, padding or truncating values to fit the columns.
func (s *Set) Add(values []string, g geom.Geom) *Row {
	vals := make([]string, len(s.Columns))
	copy(vals, values)
	row := &Row{Values: vals, Geom: g}
	s.Rows = append(s.Rows, row)
	return row
}

// Index returns the position of the named column, or -1
func (s *Set) Index(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has returns if the named column exists
func (s *Set) Has(name string) bool {
	return s.Index(name) >= 0
}

// Value returns the cell at (row, col), "" if col is out of range
func (s *Set) Value(row, col int) string {
	vals := s.Rows[row].Values
	if col < 0 || col >= len(vals) {
		return ""
	}
	return vals[col]
}

// UniqueName returns name if no column has it yet, otherwise the first of
// name.1, name.2 .. that is free.
func (s *Set) UniqueName(name string) string {
	if !s.Has(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%d", name, i)
		if !s.Has(candidate) {
			return candidate
		}
	}
}

// AddColumn appends a new column, never overwriting an existing one (see
// UniqueName). Returns the name actually used and its index.
func (s *Set) AddColumn(name string) (string, int) {
	name = s.UniqueName(name)
	s.Columns = append(s.Columns, name)
	for _, r := range s.Rows {
		r.Values = append(r.Values, "")
	}
	return name, len(s.Columns) - 1
}

// Filter returns the rows whose column equals value (whitespace trimmed).
func (s *Set) Filter(column, value string) (*Set, error) {
	idx := s.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, column)
	}
	want := strings.TrimSpace(value)
	keep := []int{}
	for i := range s.Rows {
		if strings.TrimSpace(s.Value(i, idx)) == want {
			keep = append(keep, i)
		}
	}
	return s.Subset(keep), nil
}

// Subset returns a new Set holding copies of the given rows, in the given
// order.
func (s *Set) Subset(rows []int) *Set {
	out := NewSet(s.Columns...)
	for _, i := range rows {
		out.Add(s.Rows[i].Values, s.Rows[i].Geom)
	}
	return out
}

// Clone returns a deep copy (geometries are immutable & shared).
func (s *Set) Clone() *Set {
	all := make([]int, len(s.Rows))
	for i := range all {
		all[i] = i
	}
	return s.Subset(all)
}

// HasGeometry returns if any row carries a geometry
func (s *Set) HasGeometry() bool {
	for _, r := range s.Rows {
		if r.Geom != nil {
			return true
		}
	}
	return false
}
