package otter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/otter/internal/affine"
	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/raster"
	"github.com/voidshard/otter/internal/tabular"
)

// geoMap is 4x4 with half unit cells, top left at (100, 50)
func geoMap(t *testing.T) *raster.Raster {
	r, err := raster.FromRows(flat(4, 2), affine.NorthUp(100, 50, 0.5, 0.5), raster.Int16)
	require.NoError(t, err)
	return r
}

func TestLatLongFromGrid(t *testing.T) {
	r := geoMap(t)

	tests := []struct {
		name      string
		pairs     [][2]int
		zeroBased bool
		want      []LatLong
		warned    []int
	}{
		{
			"tiles",
			[][2]int{{1, 1}, {4, 2}},
			false,
			[]LatLong{{Row: 1, Col: 1, Longitude: 100.25, Latitude: 49.75}, {Row: 4, Col: 2, Longitude: 100.75, Latitude: 48.25}},
			[]int{},
		},
		{
			"zero-based",
			[][2]int{{0, 0}, {3, 1}},
			true,
			[]LatLong{{Row: 0, Col: 0, Longitude: 100.25, Latitude: 49.75}, {Row: 3, Col: 1, Longitude: 100.75, Latitude: 48.25}},
			[]int{},
		},
		{
			"off-map",
			[][2]int{{0, 1}, {5, 1}, {2, 2}},
			false,
			[]LatLong{{Row: 2, Col: 2, Longitude: 100.75, Latitude: 49.25}},
			[]int{0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warns := LatLongFromGrid(r, tt.pairs, tt.zeroBased)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.warned, rowsWarned(warns))
		})
	}
}

func TestLatLongRoundTrip(t *testing.T) {
	r := geoMap(t)

	got, _ := LatLongFromGrid(r, [][2]int{{3, 4}}, false)
	require.Len(t, got, 1)

	res, err := Resolve(r, LongLat([][2]float64{{got[0].Longitude, got[0].Latitude}}), nil)
	require.NoError(t, err)
	require.Len(t, res.Coords, 1)
	assert.Equal(t, 3, res.Coords[0].Row())
	assert.Equal(t, 4, res.Coords[0].Col())
}

func TestLatLongTable(t *testing.T) {
	s := feature.NewSet("name", "row", "col")
	s.Add([]string{"a", "1", "1"}, nil)
	s.Add([]string{"b", "x", "1"}, nil)
	s.Add([]string{"c", "4", "9"}, nil)
	s.Add([]string{"d", "2.0", "2"}, nil)

	out, warns, err := LatLongTable(geoMap(t), s, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "row", "col", "latitude", "longitude"}, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"a", "1", "1", "49.75", "100.25"}, out.Rows[0].Values)
	assert.Equal(t, []string{"d", "2.0", "2", "49.25", "100.75"}, out.Rows[1].Values)
	assert.Equal(t, []int{1, 2}, rowsWarned(warns))

	_, _, err = LatLongTable(geoMap(t), s, &LatLongConfig{Row: feature.ByName("r")})
	assert.True(t, IsConfigError(err))
}

func TestLatLongFile(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.asc")
	inPath := filepath.Join(dir, "tiles.csv")
	outPath := filepath.Join(dir, "out.xlsx")

	require.NoError(t, raster.Write(mapPath, geoMap(t)))
	require.NoError(t, os.WriteFile(inPath, []byte("Y,X,kind\n1,1,port\n3,0,port\n4,4,mine\n"), 0644))

	cfg := &LatLongConfig{
		Row:       feature.ByIndex(0),
		Col:       feature.ByName("X"),
		ZeroBased: true,
		Filter:    &Filter{Column: "kind", Value: "port"},
	}
	out, warns, err := LatLongFile(mapPath, inPath, outPath, cfg)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, 2, out.Len())

	got, err := tabular.Read(outPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "X", "kind", "latitude", "longitude"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "49.25", got.Rows[0].Values[3])
	assert.Equal(t, "100.75", got.Rows[0].Values[4])

	// bad column: found before the (missing) raster is read
	_, _, err = LatLongFile(filepath.Join(dir, "missing.asc"), inPath, "", &LatLongConfig{Col: feature.ByName("lon")})
	assert.True(t, IsConfigError(err))
}
