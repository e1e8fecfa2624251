package otter

import (
	"bytes"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/feature"
)

// TownEntry is one town in the scenario editor's import format. X & Y
// are fractions of the map height & width.
type TownEntry struct {
	Name       string  `json:"name"`
	Population int     `json:"population"`
	City       bool    `json:"city"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

func (c *TownsJSONConfig) refs() (name, pop, city, row, col feature.ColumnRef) {
	or := func(r feature.ColumnRef, def string) feature.ColumnRef {
		if r.IsZero() {
			return feature.ByName(def)
		}
		return r
	}
	return or(c.Name, "name"), or(c.Population, "population"), or(c.City, "city"), or(c.Row, ColumnRow), or(c.Col, ColumnCol)
}

// TownsJSON converts a table of resolved towns into scenario editor
// entries. Rows outside the map (row not in 1..Height or col not in
// 1..Width) are dropped & counted in a single warning.
func TownsJSON(s *feature.Set, cfg *TownsJSONConfig) ([]*TownEntry, []Warning, error) {
	if cfg == nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, nil, configError("map size", "width & height must be positive")
	}
	s, err := applyFilter(s, cfg.Filter)
	if err != nil {
		return nil, nil, err
	}

	nameRef, popRef, cityRef, rowRef, colRef := cfg.refs()
	b := &binder{s: s}
	ni := b.bind("name column", nameRef, true)
	pi := b.bind("population column", popRef, true)
	ci := b.bind("city column", cityRef, true)
	ri := b.bind("row column", rowRef, true)
	coli := b.bind("col column", colRef, true)
	if b.err != nil {
		return nil, nil, b.err
	}

	warn := warnings{}
	out := []*TownEntry{}
	outside := 0
	for i := range s.Rows {
		name := s.Value(i, ni)
		row, err := feature.ParseFloat(s.Value(i, ri))
		if err != nil {
			outside++
			continue
		}
		col, err := feature.ParseFloat(s.Value(i, coli))
		if err != nil {
			outside++
			continue
		}
		if row <= 0 || row > float64(cfg.Height) || col <= 0 || col > float64(cfg.Width) {
			outside++
			continue
		}
		pop, err := feature.ParseFloat(s.Value(i, pi))
		if err != nil {
			warn.add(i, name, "skipped: %v: population %v", ErrBadValue, err)
			continue
		}
		city, err := feature.ParseBool(s.Value(i, ci))
		if err != nil {
			warn.add(i, name, "skipped: %v: city flag %v", ErrBadValue, err)
			continue
		}
		out = append(out, &TownEntry{
			Name:       name,
			Population: int(math.Round(pop)),
			City:       city,
			X:          row / float64(cfg.Height),
			Y:          col / float64(cfg.Width),
		})
	}
	if outside > 0 {
		warn.add(-1, "", "%d rows with invalid row,col indices removed", outside)
	}
	return out, warn, nil
}

// WriteTownsJSON converts towns from inPath & writes them to outPath
func WriteTownsJSON(inPath, outPath string, cfg *TownsJSONConfig) ([]*TownEntry, []Warning, error) {
	if extension(outPath) != ".json" {
		return nil, nil, configError("output", "%s must be a .json file", outPath)
	}
	if err := checkDirectory(dirOf(outPath)); err != nil {
		return nil, nil, err
	}
	s, err := ReadTable(inPath)
	if err != nil {
		return nil, nil, err
	}
	towns, warn, err := TownsJSON(s, cfg)
	if err != nil {
		return nil, nil, err
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(towns); err != nil {
		return nil, nil, errors.Wrapf(err, "encode %s", outPath)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return nil, nil, errors.Wrapf(err, "write %s", outPath)
	}
	return towns, warn, nil
}
