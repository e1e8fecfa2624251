package otter

import (
	"fmt"
	"math"
	"strings"

	"github.com/voidshard/otter/internal/feature"
)

// PlacementRecord is one validated thing to put on the map.
// Script returns the line of game script that places it.
type PlacementRecord interface {
	Script() string
}

// Town to found at game start
type Town struct {
	X, Y       int
	Size       TownSize
	City       bool
	Name       string
	Population int // target, 0 to leave the town at its founding size
}

func (t *Town) Script() string {
	return fmt.Sprintf("\tTryTown(%d,%d,%s,%t,%s,%d);\n", t.X, t.Y, t.Size.Script(), t.City, quote(t.Name), t.Population)
}

// Industry to build at game start
type Industry struct {
	X, Y     int
	Name     string
	Type     int
	TryLevel bool
	LevelX2  int
	LevelY2  int
}

func (i *Industry) Script() string {
	return fmt.Sprintf("\tTryIndustry(%d,%d,%s,%d,%t,%d,%d);\n", i.X, i.Y, quote(i.Name), i.Type, i.TryLevel, i.LevelX2, i.LevelY2)
}

// Canal tile
type Canal struct {
	X, Y int
}

func (c *Canal) Script() string {
	return fmt.Sprintf("\tPlaceCanal(%d,%d);\n", c.X, c.Y)
}

// Sign placed on a tile
type Sign struct {
	X, Y int
	Text string
}

func (s *Sign) Script() string {
	return fmt.Sprintf("\tPlaceSign(%d,%d,%s);\n", s.X, s.Y, quote(s.Text))
}

// quote writes a squirrel string literal
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// binder binds ColumnRefs against one set, keeping the first failure
type binder struct {
	s   *feature.Set
	err error
}

// bind returns the column index for ref, -1 if ref is optional & unset
func (b *binder) bind(field string, ref feature.ColumnRef, required bool) int {
	if b.err != nil {
		return -1
	}
	if ref.IsZero() {
		if required {
			b.err = configError(field, "a column is required")
		}
		return -1
	}
	i, err := ref.Bind(b.s)
	if err != nil {
		b.err = configError(field, "%v", err)
		return -1
	}
	return i
}

// tile parses a tile coordinate cell
func tile(s *feature.Set, row, col int, axis string) (int, error) {
	v, err := feature.ParseInt(s.Value(row, col))
	if err != nil {
		return 0, fmt.Errorf("%w: %s tile must be an integer (%v)", ErrBadValue, axis, err)
	}
	return v, nil
}

// Towns validates a table of towns. Rows with bad values are skipped with
// a warning; an unknown header is a ConfigError.
func Towns(s *feature.Set, h *TownHeaders) ([]*Town, []Warning, error) {
	if h == nil {
		h = DefaultTownHeaders()
	}
	b := &binder{s: s}
	xi := b.bind("town x column", h.X, true)
	yi := b.bind("town y column", h.Y, true)
	si := b.bind("town size column", h.Size, true)
	ci := b.bind("city column", h.City, true)
	ni := b.bind("town name column", h.Name, true)
	pi := b.bind("town population column", h.Population, false)
	if b.err != nil {
		return nil, nil, b.err
	}

	warn := warnings{}
	out := []*Town{}
	for i := range s.Rows {
		name := s.Value(i, ni)
		x, err := tile(s, i, xi, "x")
		if err != nil {
			warn.add(i, name, "skipped: %v", err)
			continue
		}
		y, err := tile(s, i, yi, "y")
		if err != nil {
			warn.add(i, name, "skipped: %v", err)
			continue
		}
		size, ok := ParseTownSize(s.Value(i, si))
		if !ok {
			warn.add(i, name, "skipped: %v: town size must be SMALL, MEDIUM or LARGE, got %q", ErrBadValue, s.Value(i, si))
			continue
		}
		city, err := feature.ParseBool(s.Value(i, ci))
		if err != nil {
			warn.add(i, name, "skipped: %v: city flag %v", ErrBadValue, err)
			continue
		}
		pop := 0
		if pi >= 0 {
			v, err := feature.ParseFloat(s.Value(i, pi))
			if err != nil {
				warn.add(i, name, "skipped: %v: target population %v", ErrBadValue, err)
				continue
			}
			pop = int(math.Round(v))
		}
		out = append(out, &Town{X: x, Y: y, Size: size, City: city, Name: name, Population: pop})
	}
	return out, warn, nil
}

// Industries validates a table of industries. Bad levelling sizes fall
// back to 0 with a warning, other bad values skip the row.
func Industries(s *feature.Set, h *IndustryHeaders) ([]*Industry, []Warning, error) {
	if h == nil {
		h = DefaultIndustryHeaders()
	}
	b := &binder{s: s}
	xi := b.bind("industry x column", h.X, true)
	yi := b.bind("industry y column", h.Y, true)
	ni := b.bind("industry name column", h.Name, true)
	ti := b.bind("industry type column", h.Type, true)
	li := b.bind("try level column", h.TryLevel, false)
	x2i := b.bind("level x2 column", h.LevelX2, false)
	y2i := b.bind("level y2 column", h.LevelY2, false)
	if b.err != nil {
		return nil, nil, b.err
	}

	warn := warnings{}
	out := []*Industry{}
	for i := range s.Rows {
		name := s.Value(i, ni)
		x, err := tile(s, i, xi, "x")
		if err != nil {
			warn.add(i, name, "skipped: %v", err)
			continue
		}
		y, err := tile(s, i, yi, "y")
		if err != nil {
			warn.add(i, name, "skipped: %v", err)
			continue
		}
		typ, err := feature.ParseInt(s.Value(i, ti))
		if err != nil {
			warn.add(i, name, "skipped: %v: industry type must be an integer (%v)", ErrBadValue, err)
			continue
		}

		ind := &Industry{X: x, Y: y, Name: name, Type: typ}
		if li >= 0 {
			ind.TryLevel, err = feature.ParseBool(s.Value(i, li))
			if err != nil {
				warn.add(i, name, "skipped: %v: try level %v", ErrBadValue, err)
				continue
			}
		}
		ind.LevelX2 = levelSize(s, i, x2i, name, "level x2", &warn)
		ind.LevelY2 = levelSize(s, i, y2i, name, "level y2", &warn)
		out = append(out, ind)
	}
	return out, warn, nil
}

// levelSize reads an optional levelling size, 0 if absent or invalid
func levelSize(s *feature.Set, row, col int, name, field string, warn *warnings) int {
	if col < 0 {
		return 0
	}
	v, err := feature.ParseInt(s.Value(row, col))
	if err != nil {
		warn.add(row, name, "%s must be an integer, using 0 (%v)", field, err)
		return 0
	}
	return v
}

// Canals validates a table of canal tiles. A row whose x & y cells are
// lists (as written for multi cell features) gives one canal per pair;
// lists of different lengths skip the row.
func Canals(s *feature.Set, h *CanalHeaders) ([]*Canal, []Warning, error) {
	if h == nil {
		h = DefaultCanalHeaders()
	}
	b := &binder{s: s}
	xi := b.bind("canal x column", h.X, true)
	yi := b.bind("canal y column", h.Y, true)
	if b.err != nil {
		return nil, nil, b.err
	}

	warn := warnings{}
	out := []*Canal{}
	for i := range s.Rows {
		xs, xList, err := feature.ParseInts(s.Value(i, xi))
		if err != nil {
			warn.add(i, "", "skipped: %v: x tile %v", ErrBadValue, err)
			continue
		}
		ys, yList, err := feature.ParseInts(s.Value(i, yi))
		if err != nil {
			warn.add(i, "", "skipped: %v: y tile %v", ErrBadValue, err)
			continue
		}
		if xList != yList {
			warn.add(i, "", "skipped: %v: x & y must both be lists if either is", ErrBadValue)
			continue
		}
		if len(xs) != len(ys) {
			warn.add(i, "", "skipped: %v: %d x tiles but %d y tiles", ErrBadValue, len(xs), len(ys))
			continue
		}
		for j := range xs {
			out = append(out, &Canal{X: xs[j], Y: ys[j]})
		}
	}
	return out, warn, nil
}

// Signs validates a table of signs.
func Signs(s *feature.Set, h *SignHeaders) ([]*Sign, []Warning, error) {
	if h == nil {
		h = DefaultSignHeaders()
	}
	b := &binder{s: s}
	xi := b.bind("sign x column", h.X, true)
	yi := b.bind("sign y column", h.Y, true)
	ti := b.bind("sign text column", h.Text, true)
	if b.err != nil {
		return nil, nil, b.err
	}

	warn := warnings{}
	out := []*Sign{}
	for i := range s.Rows {
		text := s.Value(i, ti)
		x, err := tile(s, i, xi, "x")
		if err != nil {
			warn.add(i, text, "skipped: %v", err)
			continue
		}
		y, err := tile(s, i, yi, "y")
		if err != nil {
			warn.add(i, text, "skipped: %v", err)
			continue
		}
		out = append(out, &Sign{X: x, Y: y, Text: text})
	}
	return out, warn, nil
}
