package otter

import (
	"strconv"

	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/raster"
	"github.com/voidshard/otter/internal/tabular"
	"github.com/voidshard/otter/internal/vector"
)

// LatLong is the map position of the centre of a grid tile
type LatLong struct {
	Row, Col  int
	Longitude float64
	Latitude  float64
}

// LatLongFromGrid returns the cell centre of each (row, col) pair.
// Pairs are game tiles (1 based) unless zeroBased is set. Pairs off the
// raster are skipped with a warning.
func LatLongFromGrid(r *raster.Raster, pairs [][2]int, zeroBased bool) ([]LatLong, []Warning) {
	warn := warnings{}
	out := []LatLong{}
	for i, p := range pairs {
		ll, ok := cellLatLong(r, p[0], p[1], zeroBased)
		if !ok {
			warn.add(i, "", "skipped: row %d col %d is %v", p[0], p[1], ErrNoIntersection)
			continue
		}
		out = append(out, ll)
	}
	return out, warn
}

func cellLatLong(r *raster.Raster, row, col int, zeroBased bool) (LatLong, bool) {
	ri, ci := row, col
	if !zeroBased {
		ri, ci = row-1, col-1
	}
	if !r.InBounds(ri, ci) {
		return LatLong{}, false
	}
	x, y := r.Transform.CellCentre(ri, ci)
	return LatLong{Row: row, Col: col, Longitude: x, Latitude: y}, true
}

// LatLongTable appends latitude & longitude columns to the rows of s,
// reading tiles from cfg's row & col columns. Rows that can't be placed
// are dropped with a warning.
func LatLongTable(r *raster.Raster, s *feature.Set, cfg *LatLongConfig) (*feature.Set, []Warning, error) {
	if cfg == nil {
		cfg = &LatLongConfig{}
	}
	s, ri, ci, err := prepareLatLong(s, cfg)
	if err != nil {
		return nil, nil, err
	}

	warn := warnings{}
	keep := []int{}
	found := []LatLong{}
	for i := range s.Rows {
		row, err := feature.ParseInt(s.Value(i, ri))
		if err != nil {
			warn.add(i, "row", "skipped: %v", err)
			continue
		}
		col, err := feature.ParseInt(s.Value(i, ci))
		if err != nil {
			warn.add(i, "col", "skipped: %v", err)
			continue
		}
		ll, ok := cellLatLong(r, row, col, cfg.ZeroBased)
		if !ok {
			warn.add(i, "", "skipped: row %d col %d is %v", row, col, ErrNoIntersection)
			continue
		}
		keep = append(keep, i)
		found = append(found, ll)
	}

	out := s.Subset(keep)
	_, lati := out.AddColumn("latitude")
	_, longi := out.AddColumn("longitude")
	for i, ll := range found {
		out.Rows[i].Values[lati] = strconv.FormatFloat(ll.Latitude, 'f', -1, 64)
		out.Rows[i].Values[longi] = strconv.FormatFloat(ll.Longitude, 'f', -1, 64)
	}
	return out, warn, nil
}

// prepareLatLong filters s & binds the row / col columns
func prepareLatLong(s *feature.Set, cfg *LatLongConfig) (*feature.Set, int, int, error) {
	rowRef, colRef := cfg.Row, cfg.Col
	if rowRef.IsZero() {
		rowRef = feature.ByName(ColumnRow)
	}
	if colRef.IsZero() {
		colRef = feature.ByName(ColumnCol)
	}
	s, err := applyFilter(s, cfg.Filter)
	if err != nil {
		return nil, 0, 0, err
	}
	ri, err := rowRef.Bind(s)
	if err != nil {
		return nil, 0, 0, configError("row column", "%v", err)
	}
	ci, err := colRef.Bind(s)
	if err != nil {
		return nil, 0, 0, configError("col column", "%v", err)
	}
	return s, ri, ci, nil
}

// LatLongFile reads a table of tiles, adds their positions & writes the
// result to outPath (if given).
func LatLongFile(rasterPath, inPath, outPath string, cfg *LatLongConfig) (*feature.Set, []Warning, error) {
	if cfg == nil {
		cfg = &LatLongConfig{}
	}
	if outPath != "" {
		if err := checkTableOutput(outPath); err != nil {
			return nil, nil, err
		}
	}
	in, err := ReadTable(inPath)
	if err != nil {
		return nil, nil, err
	}
	if _, _, _, err := prepareLatLong(in, cfg); err != nil {
		return nil, nil, err
	}

	r, err := raster.Read(rasterPath)
	if err != nil {
		return nil, nil, err
	}
	out, warn, err := LatLongTable(r, in, cfg)
	if err != nil {
		return nil, nil, err
	}
	if outPath != "" {
		if err := writeTable(outPath, out); err != nil {
			return nil, nil, err
		}
	}
	return out, warn, nil
}

// ReadTable loads any table (.csv .txt .xlsx) or vector file (.shp
// .geojson .json) as a feature set
func ReadTable(fpath string) (*feature.Set, error) {
	if !SupportedInput(fpath) {
		return nil, configError("input", "%s must be a .csv, .txt, .xlsx, .shp, .geojson or .json file", fpath)
	}
	if tabular.Supported(fpath) {
		return tabular.Read(fpath)
	}
	s, _, err := vector.Read(fpath)
	return s, err
}
