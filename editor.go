package otter

import (
	"github.com/ctessum/geom"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/voidshard/otter/internal/affine"
	"github.com/voidshard/otter/internal/logger"
	"github.com/voidshard/otter/internal/mask"
	"github.com/voidshard/otter/internal/raster"
	"github.com/voidshard/otter/internal/vector"
)

// pixelTolerance is how much x & y pixel sizes may differ (relative) and
// still be considered square
const pixelTolerance = 1e-9

// SetToValue returns a copy of r with every cell covered by any of geoms
// set to value. r itself is never changed, so calling this again on the
// output with the same arguments gives the same raster.
//
// Geometries that can't be masked are skipped with a warning.
func SetToValue(r *raster.Raster, geoms []geom.Geom, value float64, cfg *EditConfig) (*raster.Raster, *EditReport, error) {
	if cfg == nil {
		cfg = &EditConfig{}
	}
	warn := warnings{}
	report := &EditReport{}

	opts := mask.Options{AllTouched: cfg.AllTouched}
	if cfg.Buffer > 0 {
		opts.Buffer = bufferDistance(r.Transform, cfg.Buffer, &warn)
		report.BufferDistance = opts.Buffer
	}

	union, skipped := mask.Union(r, geoms, opts)
	for _, s := range skipped {
		warn.add(s.Index, "", "skipped: %v", s.Err)
	}

	out := r.Clone()
	v := r.DType.Clamp(value)
	for _, c := range union.Cells() {
		out.Set(c.Row, c.Col, v)
	}

	report.Cells = union.Count()
	report.Warnings = warn
	return out, report, nil
}

// bufferDistance converts a buffer in tiles into map units
func bufferDistance(tr affine.Affine, tiles float64, warn *warnings) float64 {
	px, py := tr.PixelSize()
	if tr.IsSquare(pixelTolerance) {
		return px * tiles
	}
	warn.add(-1, "buffer", "pixel sizes differ (x %g, y %g), using their mean", px, py)
	return floats.Sum([]float64{px, py}) / 2 * tiles
}

// AddWater sets every cell covered by the geometries in vectorPath to sea
// level & writes the result to outPath.
func AddWater(rasterPath, vectorPath, outPath string, cfg *EditConfig) (*EditReport, error) {
	return editFile(rasterPath, vectorPath, outPath, mask.SeaLevel, cfg)
}

// AddLand raises every cell covered by the geometries in vectorPath to
// elevation & writes the result to outPath.
func AddLand(rasterPath, vectorPath, outPath string, elevation float64, cfg *EditConfig) (*EditReport, error) {
	return editFile(rasterPath, vectorPath, outPath, elevation, cfg)
}

// editFile runs SetToValue between files. All arguments are checked
// before the raster is read & nothing is written unless the edit worked.
//
// The vector & raster are assumed to share a CRS; if both declare one and
// they differ we only log it.
func editFile(rasterPath, vectorPath, outPath string, value float64, cfg *EditConfig) (*EditReport, error) {
	if cfg == nil {
		cfg = &EditConfig{}
	}
	if err := checkRasterOutput(outPath); err != nil {
		return nil, err
	}
	if !vector.Supported(vectorPath) {
		return nil, configError("vector", "%s must be a .shp, .geojson or .json file", vectorPath)
	}

	set, crs, err := vector.Read(vectorPath)
	if err != nil {
		return nil, err
	}
	set, err = applyFilter(set, cfg.Filter)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, errors.Wrapf(ErrNoFeatures, "%s", vectorPath)
	}

	r, err := raster.Read(rasterPath)
	if err != nil {
		return nil, err
	}
	if !sameCRS(crs, r.CRS) {
		logger.L().Warn("vector & raster CRS differ; coordinates are used as is", "vector", crs, "raster", r.CRS)
	}

	geoms := make([]geom.Geom, set.Len())
	for i, row := range set.Rows {
		geoms[i] = row.Geom
	}

	out, report, err := SetToValue(r, geoms, value, cfg)
	if err != nil {
		return nil, err
	}
	if err := raster.Write(outPath, out); err != nil {
		return nil, err
	}
	logger.L().Info("edited raster", "cells", report.Cells, "value", value, "out", outPath)
	return report, nil
}

// checkRasterOutput validates a raster destination, unsupported formats
// are ConfigErrors.
func checkRasterOutput(fpath string) error {
	err := raster.CheckWritable(fpath)
	if errors.Is(err, raster.ErrUnsupportedFormat) {
		return configError("output", "%s must be a .asc, .png or .tif file", fpath)
	}
	return err
}
