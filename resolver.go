package otter

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/logger"
	"github.com/voidshard/otter/internal/mask"
	"github.com/voidshard/otter/internal/raster"
	"github.com/voidshard/otter/internal/tabular"
	"github.com/voidshard/otter/internal/vector"
)

// Names of the columns Resolve adds. Existing columns are never
// overwritten, see ResultColumns.
const (
	ColumnRow   = "row"
	ColumnCol   = "col"
	ColumnWater = "water"
	ColumnMulti = "multi"
)

// Resolve maps every feature in src to the grid cells it covers on r.
//
// Features are handled in order & independently. A feature with no usable
// geometry, or one that misses the map entirely, is left out of the
// result with a Warning. Everything else gets 1 based row & col values
// (lists when it covers several cells) plus water & multi flags.
func Resolve(r *raster.Raster, src Source, cfg *ResolveConfig) (*Resolution, error) {
	if cfg == nil {
		cfg = &ResolveConfig{}
	}
	set, err := loadSource(src, cfg.Filter)
	if err != nil {
		return nil, err
	}
	return resolveSet(r, src, set, cfg)
}

// ResolveFile reads a raster, resolves src against it & optionally writes
// the result to outPath (.csv .txt .xlsx .geojson .json). Arguments are
// checked before the raster is opened.
func ResolveFile(rasterPath string, src Source, outPath string, cfg *ResolveConfig) (*Resolution, error) {
	if cfg == nil {
		cfg = &ResolveConfig{}
	}
	if outPath != "" {
		if err := checkTableOutput(outPath); err != nil {
			return nil, err
		}
	}
	set, err := loadSource(src, cfg.Filter)
	if err != nil {
		return nil, err
	}

	r, err := raster.Read(rasterPath)
	if err != nil {
		return nil, err
	}

	res, err := resolveSet(r, src, set, cfg)
	if err != nil {
		return nil, err
	}
	if outPath == "" {
		return res, nil
	}
	return res, writeTable(outPath, res.Set)
}

// loadSource reads & filters src
func loadSource(src Source, filter *Filter) (*feature.Set, error) {
	set, err := src.Load()
	if err != nil {
		return nil, err
	}
	return applyFilter(set, filter)
}

func resolveSet(r *raster.Raster, src Source, set *feature.Set, cfg *ResolveConfig) (*Resolution, error) {
	log := logger.L()
	if !sameCRS(src.CRS(), r.CRS) {
		log.Warn("input & raster CRS differ; coordinates are used as is", "input", src.CRS(), "raster", r.CRS)
	}

	warn := warnings{}
	keep := []int{}
	coords := []*GridCoordinate{}
	opts := mask.Options{AllTouched: cfg.AllTouched}

	for i := range set.Rows {
		g, err := src.Geometry(set, i)
		if err != nil {
			warn.add(i, "", "skipped: %v", err)
			continue
		}

		m, err := mask.One(r, g, opts)
		if err != nil {
			warn.add(i, "", "skipped: %v", err)
			continue
		}
		if m.Class() == mask.Empty {
			warn.add(i, "", "skipped: %v", ErrNoIntersection)
			continue
		}

		gc := newGridCoordinate(i, m.Cells(), m.OnWater(r))
		if gc.IsWater {
			log.Debug("feature on water", "index", i)
		}
		keep = append(keep, i)
		coords = append(coords, gc)
	}

	out := set.Subset(keep)
	cols := addResultColumns(out, coords)
	log.Info("resolved features", "input", set.Len(), "resolved", len(coords), "skipped", set.Len()-len(coords))

	return &Resolution{Set: out, Coords: coords, Warnings: warn, Columns: cols}, nil
}

// addResultColumns appends row, col, water & multi to s, whose rows line
// up with coords.
func addResultColumns(s *feature.Set, coords []*GridCoordinate) ResultColumns {
	cols := ResultColumns{}
	var ri, ci, wi, mi int
	cols.Row, ri = s.AddColumn(ColumnRow)
	cols.Col, ci = s.AddColumn(ColumnCol)
	cols.Water, wi = s.AddColumn(ColumnWater)
	cols.Multi, mi = s.AddColumn(ColumnMulti)

	for i, gc := range coords {
		vals := s.Rows[i].Values
		if gc.IsMulti {
			vals[ri] = feature.FormatInts(gc.Rows)
			vals[ci] = feature.FormatInts(gc.Cols)
		} else {
			vals[ri] = strconv.Itoa(gc.Row())
			vals[ci] = strconv.Itoa(gc.Col())
		}
		vals[wi] = flag(gc.IsWater)
		vals[mi] = flag(gc.IsMulti)
	}
	return cols
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// checkTableOutput validates an output path for writeTable
func checkTableOutput(fpath string) error {
	switch extension(fpath) {
	case ".csv", ".txt", ".xlsx", ".geojson", ".json":
	default:
		return configError("output", "%s must be a .csv, .txt, .xlsx, .geojson or .json file", fpath)
	}
	return raster.CheckDir(fpath)
}

// writeTable saves s by extension. GeoJSON keeps row geometry.
func writeTable(fpath string, s *feature.Set) error {
	var err error
	switch extension(fpath) {
	case ".csv", ".txt", ".xlsx":
		err = tabular.Write(fpath, s)
	case ".geojson", ".json":
		err = vector.Write(fpath, s)
	default:
		return configError("output", "unsupported extension %s", extension(fpath))
	}
	return errors.Wrapf(err, "write %s", fpath)
}
