package feature

import (
	"fmt"
	"strconv"
	"unicode"
)

// ColumnRef addresses a column either by name or by position.
type ColumnRef struct {
	name    string
	index   int
	byIndex bool
}

// ByName refers to a column by its header
func ByName(name string) ColumnRef {
	return ColumnRef{name: name}
}

// ByIndex refers to the column at a 0 based position
func ByIndex(i int) ColumnRef {
	return ColumnRef{index: i, byIndex: true}
}

// ParseColumnRef treats a header made only of digits as a position &
// anything else as a name.
func ParseColumnRef(header string) ColumnRef {
	if header == "" {
		return ByName(header)
	}
	for _, r := range header {
		if !unicode.IsDigit(r) {
			return ByName(header)
		}
	}
	i, err := strconv.Atoi(header)
	if err != nil {
		return ByName(header)
	}
	return ByIndex(i)
}

// IsZero returns if the ref was never set
func (c ColumnRef) IsZero() bool {
	return !c.byIndex && c.name == ""
}

// Bind resolves the ref against s, returning the column position.
func (c ColumnRef) Bind(s *Set) (int, error) {
	if c.byIndex {
		if c.index < 0 || c.index >= len(s.Columns) {
			return -1, fmt.Errorf("%w: index %d out of range (%d columns)", ErrUnknownColumn, c.index, len(s.Columns))
		}
		return c.index, nil
	}
	i := s.Index(c.name)
	if i < 0 {
		return -1, fmt.Errorf("%w %q", ErrUnknownColumn, c.name)
	}
	return i, nil
}

func (c ColumnRef) String() string {
	if c.byIndex {
		return fmt.Sprintf("#%d", c.index)
	}
	return c.name
}
