package vector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zoneRecord struct {
	geom.Polygon
	Zone  string `shp:"zone"`
	Count int    `shp:"count"`
}

func square(x0, y0, x1, y1 float64) geom.Path {
	return geom.Path{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}, {X: x0, Y: y0}}
}

// writeZones writes a polygon shapefile with one two-island record and one
// plain square.
func writeZones(t *testing.T, fpath string) {
	e, err := shp.NewEncoder(fpath, zoneRecord{})
	require.NoError(t, err)
	require.NoError(t, e.Encode(zoneRecord{
		Polygon: geom.Polygon{square(0, 0, 2, 2), square(5, 5, 7, 7)},
		Zone:    "islands",
		Count:   3,
	}))
	require.NoError(t, e.Encode(zoneRecord{
		Polygon: geom.Polygon{square(10, 10, 11, 11)},
		Zone:    "rock",
		Count:   1,
	}))
	e.Close()
}

func TestReadShapefile(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "zones.shp")
	writeZones(t, fpath)

	s, crs, err := Read(fpath)
	require.NoError(t, err)
	assert.Equal(t, "", crs)
	assert.Equal(t, []string{"zone", "count"}, s.Columns)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"islands", "3"}, s.Rows[0].Values)
	assert.Equal(t, []string{"rock", "1"}, s.Rows[1].Values)

	islands, ok := s.Rows[0].Geom.(geom.Polygon)
	require.True(t, ok)
	require.Len(t, islands, 2)
	assert.InDelta(t, 8.0, islands.Area(), 1e-9)
	assert.Equal(t, &geom.Bounds{Min: geom.Point{X: 5, Y: 5}, Max: geom.Point{X: 7, Y: 7}}, geom.Polygon{islands[1]}.Bounds())

	rock, ok := s.Rows[1].Geom.(geom.Polygon)
	require.True(t, ok)
	assert.InDelta(t, 1.0, rock.Area(), 1e-9)
}

func TestReadShapefilePrj(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "zones.shp")
	writeZones(t, fpath)

	wkt := `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones.prj"), []byte(wkt+"\n"), 0644))

	_, crs, err := ReadShapefile(fpath)
	require.NoError(t, err)
	assert.Equal(t, wkt, crs)
}

func TestReadShapefileMissing(t *testing.T) {
	_, _, err := ReadShapefile(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}
