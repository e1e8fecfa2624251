package otter

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/logger"
	"github.com/voidshard/otter/internal/mask"
	"github.com/voidshard/otter/internal/tabular"
	"github.com/voidshard/otter/internal/vector"
)

// Source supplies located features. Whatever the input looks like it is
// turned into a feature.Set plus a way to get each row's geometry.
type Source interface {
	// Load reads the attribute table. Problems with the caller's
	// arguments (eg. missing columns) are ConfigErrors.
	Load() (*feature.Set, error)

	// Geometry returns the geometry for row i of a set from Load, or from
	// a filtered copy of it. Rows without a usable geometry are errors.
	Geometry(s *feature.Set, i int) (geom.Geom, error)

	// CRS of the coordinates if known
	CRS() string
}

// LongLat returns a Source of literal (longitude, latitude) pairs
func LongLat(pairs [][2]float64) Source {
	return &longLatSource{pairs: pairs}
}

// Table returns a Source reading points from latitude & longitude
// columns of s.
func Table(s *feature.Set, lat, long feature.ColumnRef) Source {
	return &tableSource{set: s, lat: lat, long: long}
}

// Features returns a Source of rows that already carry geometry
func Features(s *feature.Set, crs string) Source {
	return &featureSource{set: s, crs: crs}
}

// File returns a Source reading fpath, chosen by extension:
// .csv, .txt & .xlsx need lat & long columns; .shp, .geojson & .json
// supply geometry themselves (lat & long are ignored).
func File(fpath string, lat, long feature.ColumnRef) Source {
	return &fileSource{path: fpath, lat: lat, long: long}
}

// SupportedInput returns if File can read the given path
func SupportedInput(fpath string) bool {
	return tabular.Supported(fpath) || vector.Supported(fpath)
}

type longLatSource struct {
	pairs [][2]float64
}

func (l *longLatSource) Load() (*feature.Set, error) {
	s := feature.NewSet("longitude", "latitude")
	for _, p := range l.pairs {
		s.Add(
			[]string{strconv.FormatFloat(p[0], 'f', -1, 64), strconv.FormatFloat(p[1], 'f', -1, 64)},
			geom.Point{X: p[0], Y: p[1]},
		)
	}
	return s, nil
}

func (l *longLatSource) Geometry(s *feature.Set, i int) (geom.Geom, error) {
	return rowGeometry(s, i)
}

func (l *longLatSource) CRS() string {
	return ""
}

type tableSource struct {
	set       *feature.Set
	lat, long feature.ColumnRef
	latIdx    int
	longIdx   int
}

func (t *tableSource) Load() (*feature.Set, error) {
	if t.lat.IsZero() || t.long.IsZero() {
		return nil, configError("coordinate columns", "latitude & longitude columns are required for tabular input")
	}
	var err error
	t.latIdx, err = t.lat.Bind(t.set)
	if err != nil {
		return nil, configError("latitude column", "%v", err)
	}
	t.longIdx, err = t.long.Bind(t.set)
	if err != nil {
		return nil, configError("longitude column", "%v", err)
	}
	return t.set, nil
}

func (t *tableSource) Geometry(s *feature.Set, i int) (geom.Geom, error) {
	lat, err := feature.ParseFloat(s.Value(i, t.latIdx))
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %v", ErrBadValue, err)
	}
	long, err := feature.ParseFloat(s.Value(i, t.longIdx))
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %v", ErrBadValue, err)
	}
	return geom.Point{X: long, Y: lat}, nil
}

func (t *tableSource) CRS() string {
	return ""
}

type featureSource struct {
	set *feature.Set
	crs string
}

func (f *featureSource) Load() (*feature.Set, error) {
	return f.set, nil
}

func (f *featureSource) Geometry(s *feature.Set, i int) (geom.Geom, error) {
	return rowGeometry(s, i)
}

func (f *featureSource) CRS() string {
	return f.crs
}

type fileSource struct {
	path      string
	lat, long feature.ColumnRef
	inner     Source
}

func (f *fileSource) Load() (*feature.Set, error) {
	if !SupportedInput(f.path) {
		return nil, configError("input", "%s must be a .csv, .txt, .xlsx, .shp, .geojson or .json file", f.path)
	}
	if _, err := os.Stat(f.path); err != nil {
		return nil, errors.Wrapf(err, "input %s", f.path)
	}

	if tabular.Supported(f.path) {
		s, err := tabular.Read(f.path)
		if err != nil {
			return nil, err
		}
		f.inner = Table(s, f.lat, f.long)
		return f.inner.Load()
	}

	s, crs, err := vector.Read(f.path)
	if err != nil {
		return nil, err
	}
	f.inner = Features(s, crs)
	return f.inner.Load()
}

func (f *fileSource) Geometry(s *feature.Set, i int) (geom.Geom, error) {
	if f.inner == nil {
		return nil, fmt.Errorf("source %s not loaded", f.path)
	}
	return f.inner.Geometry(s, i)
}

func (f *fileSource) CRS() string {
	if f.inner == nil {
		return ""
	}
	return f.inner.CRS()
}

// rowGeometry returns the stored geometry of row i, if it's usable
func rowGeometry(s *feature.Set, i int) (geom.Geom, error) {
	g := s.Rows[i].Geom
	if err := mask.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// applyFilter returns the rows of s matching f; a nil filter keeps all
func applyFilter(s *feature.Set, f *Filter) (*feature.Set, error) {
	if f == nil {
		return s, nil
	}
	out, err := s.Filter(f.Column, f.Value)
	if err != nil {
		return nil, configError("filter column", "%v", err)
	}
	return out, nil
}

// sameCRS loosely compares two CRS strings. Each may be an EPSG code or
// WKT (eg. from a .prj). Unknown or unreadable systems match anything.
func sameCRS(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" || strings.EqualFold(a, b) {
		return true
	}
	sa, err := parseCRS(a)
	if err != nil {
		logger.L().Debug("unable to read crs", "crs", a, "err", err)
		return true
	}
	sb, err := parseCRS(b)
	if err != nil {
		logger.L().Debug("unable to read crs", "crs", b, "err", err)
		return true
	}
	if !strings.EqualFold(sa.Name, sb.Name) || !strings.EqualFold(sa.DatumCode, sb.DatumCode) {
		return false
	}
	if strings.EqualFold(sa.Name, "longlat") {
		return true
	}
	pa := []float64{sa.Long0, sa.Lat0, sa.Lat1, sa.Lat2, sa.K0, sa.X0, sa.Y0}
	pb := []float64{sb.Long0, sb.Lat0, sb.Lat1, sb.Lat2, sb.K0, sb.X0, sb.Y0}
	for i := range pa {
		if math.IsNaN(pa[i]) != math.IsNaN(pb[i]) {
			return false
		}
		if !math.IsNaN(pa[i]) && math.Abs(pa[i]-pb[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func parseCRS(s string) (sr *proj.SR, err error) {
	if strings.HasPrefix(strings.ToUpper(s), "EPSG:") {
		s = strings.ToUpper(s)
	}
	defer func() {
		// the wkt parser panics on some malformed input
		if r := recover(); r != nil {
			sr, err = nil, fmt.Errorf("malformed crs: %v", r)
		}
	}()
	return proj.Parse(s)
}
