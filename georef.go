package otter

import (
	"strconv"
	"strings"

	"github.com/voidshard/otter/internal/affine"
	"github.com/voidshard/otter/internal/logger"
	"github.com/voidshard/otter/internal/raster"
)

// DefaultCRS is assumed for georeferenced images when none is given
const DefaultCRS = "EPSG:4326"

// GeorefConfig configures Georeference
type GeorefConfig struct {
	// CRS written with the output, default DefaultCRS
	CRS string

	// Scale is the expected image size as "WIDTHxHEIGHT" (eg. "1024x512").
	// Optional; if given the image must match it.
	Scale string
}

// Georeference places a plain image (eg. a rescaled heightmap) over the
// extent of a template raster & writes it to outPath (.png gets a world
// file, .asc holds the transform itself).
//
// The four image corners are tied to the template's bounds so the
// image's outer pixel edges line up with the template's.
func Georeference(templatePath, imagePath, outPath string, cfg *GeorefConfig) (*raster.Raster, error) {
	if cfg == nil {
		cfg = &GeorefConfig{}
	}
	if err := checkRasterOutput(outPath); err != nil {
		return nil, err
	}
	var want [2]int
	if cfg.Scale != "" {
		w, h, err := parseScale(cfg.Scale)
		if err != nil {
			return nil, err
		}
		want = [2]int{w, h}
	}

	tmpl, err := raster.Read(templatePath)
	if err != nil {
		return nil, err
	}
	img, err := raster.ReadImage(imagePath)
	if err != nil {
		return nil, err
	}
	if cfg.Scale != "" && (img.Width != want[0] || img.Height != want[1]) {
		return nil, configError("scale", "image is %dx%d, expected %s", img.Width, img.Height, cfg.Scale)
	}

	tr, err := affine.FromCorners(tmpl.Bounds(), img.Width, img.Height)
	if err != nil {
		return nil, err
	}
	img.Transform = tr
	img.CRS = cfg.CRS
	if img.CRS == "" {
		img.CRS = DefaultCRS
	}
	img.NoData = nil

	if err := raster.Write(outPath, img); err != nil {
		return nil, err
	}
	logger.L().Info("georeferenced image", "image", imagePath, "transform", tr.String(), "out", outPath)
	return img, nil
}

// parseScale reads "WIDTHxHEIGHT"
func parseScale(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, configError("scale", "%q is not WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, configError("scale", "%q has a bad width", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, configError("scale", "%q has a bad height", s)
	}
	return w, h, nil
}
