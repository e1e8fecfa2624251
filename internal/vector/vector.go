package vector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/voidshard/otter/internal/feature"
)

var (
	// ErrUnsupportedFormat is returned for extensions we can't read or write
	ErrUnsupportedFormat = fmt.Errorf("unsupported vector format")
)

// Supported reports whether Read accepts the file extension
func Supported(fpath string) bool {
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".shp", ".geojson", ".json":
		return true
	}
	return false
}

// Read loads a vector file by extension. The returned CRS is only known
// for shapefiles with a .prj.
func Read(fpath string) (*feature.Set, string, error) {
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".shp":
		return ReadShapefile(fpath)
	case ".geojson", ".json":
		s, err := ReadGeoJSONFile(fpath)
		return s, "", err
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fpath)
}

// Write saves the set. Only GeoJSON output is supported.
func Write(fpath string, s *feature.Set) error {
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".geojson", ".json":
		return WriteGeoJSONFile(fpath, s)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, fpath)
}
