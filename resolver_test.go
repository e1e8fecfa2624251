package otter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/otter/internal/affine"
	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/raster"
	"github.com/voidshard/otter/internal/tabular"
)

// testMap returns a unit cell raster with its top left corner at (0, height)
// so that x is the column & height - y the row.
func testMap(t *testing.T, rows [][]float64) *raster.Raster {
	r, err := raster.FromRows(rows, affine.NorthUp(0, float64(len(rows)), 1, 1), raster.Int16)
	require.NoError(t, err)
	return r
}

func flat(size int, v float64) [][]float64 {
	rows := make([][]float64, size)
	for i := range rows {
		rows[i] = make([]float64, size)
		for j := range rows[i] {
			rows[i][j] = v
		}
	}
	return rows
}

func TestResolveOneBased(t *testing.T) {
	r := testMap(t, flat(4, 5))

	// pixel (row 2, col 3)
	res, err := Resolve(r, LongLat([][2]float64{{3.5, 1.5}}), nil)
	require.NoError(t, err)
	require.Len(t, res.Coords, 1)

	gc := res.Coords[0]
	assert.Equal(t, 3, gc.Row())
	assert.Equal(t, 4, gc.Col())
	assert.False(t, gc.IsWater)
	assert.False(t, gc.IsMulti)

	assert.Equal(t, []string{"longitude", "latitude", "row", "col", "water", "multi"}, res.Set.Columns)
	assert.Equal(t, []string{"3.5", "1.5", "3", "4", "0", "0"}, res.Set.Rows[0].Values)
	assert.Empty(t, res.Warnings)
}

func TestResolveSkipsOutside(t *testing.T) {
	r := testMap(t, flat(4, 5))

	res, err := Resolve(r, LongLat([][2]float64{{0.5, 3.5}, {10, 10}, {1.5, 0.5}}), nil)
	require.NoError(t, err)

	require.Len(t, res.Coords, 2)
	assert.Equal(t, 0, res.Coords[0].Index)
	assert.Equal(t, 2, res.Coords[1].Index)
	assert.Equal(t, 2, res.Set.Len())

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 1, res.Warnings[0].Index)
	assert.Contains(t, res.Warnings[0].Reason, ErrNoIntersection.Error())
}

func TestResolveWater(t *testing.T) {
	rows := flat(4, 5)
	rows[0][0] = 0
	r := testMap(t, rows)

	res, err := Resolve(r, LongLat([][2]float64{{0.5, 3.5}, {3.5, 0.5}}), nil)
	require.NoError(t, err)
	require.Len(t, res.Coords, 2)

	assert.True(t, res.Coords[0].IsWater)
	assert.False(t, res.Coords[1].IsWater)
	assert.Equal(t, "1", res.Set.Rows[0].Values[res.Set.Index(res.Columns.Water)])
}

func TestResolveMultiCell(t *testing.T) {
	r := testMap(t, flat(4, 5))

	line := feature.NewSet("name")
	line.Add([]string{"road"}, geom.LineString{{X: 0.5, Y: 3.5}, {X: 2.5, Y: 3.5}})
	line.Add([]string{"edge"}, geom.Point{X: 2, Y: 2.5})

	res, err := Resolve(r, Features(line, ""), nil)
	require.NoError(t, err)
	require.Len(t, res.Coords, 2)

	road := res.Coords[0]
	assert.True(t, road.IsMulti)
	assert.Equal(t, []int{1, 1, 1}, road.Rows)
	assert.Equal(t, []int{1, 2, 3}, road.Cols)

	vals := res.Set.Rows[0].Values
	assert.Equal(t, "[1, 1, 1]", vals[res.Set.Index(res.Columns.Row)])
	assert.Equal(t, "[1, 2, 3]", vals[res.Set.Index(res.Columns.Col)])
	assert.Equal(t, "1", vals[res.Set.Index(res.Columns.Multi)])

	edge := res.Coords[1]
	assert.True(t, edge.IsMulti)
	assert.Equal(t, []int{2, 2}, edge.Rows)
	assert.Equal(t, []int{2, 3}, edge.Cols)
}

func TestResolveColumnCollision(t *testing.T) {
	r := testMap(t, flat(4, 5))

	s := feature.NewSet("lat", "lon", "row", "row.1", "water")
	s.Add([]string{"1.5", "3.5", "a", "b", "c"}, nil)

	res, err := Resolve(r, Table(s, feature.ByName("lat"), feature.ByName("lon")), nil)
	require.NoError(t, err)

	assert.Equal(t, ResultColumns{Row: "row.2", Col: "col", Water: "water.1", Multi: "multi"}, res.Columns)
	vals := res.Set.Rows[0].Values
	assert.Equal(t, []string{"1.5", "3.5", "a", "b", "c", "3", "4", "0", "0"}, vals)

	// input untouched
	assert.Len(t, s.Columns, 5)
}

func TestResolveTable(t *testing.T) {
	r := testMap(t, flat(4, 5))

	s := feature.NewSet("name", "y", "x", "kind")
	s.Add([]string{"a", "3.5", "0.5", "town"}, nil)
	s.Add([]string{"b", "north", "0.5", "town"}, nil)
	s.Add([]string{"c", "0.5", "3.5", "farm"}, nil)

	tests := []struct {
		name    string
		src     Source
		cfg     *ResolveConfig
		names   []string
		warned  []int
		wantCfg bool
	}{
		{
			"by-name",
			Table(s, feature.ByName("y"), feature.ByName("x")),
			nil,
			[]string{"a", "c"},
			[]int{1},
			false,
		},
		{
			"by-index",
			Table(s, feature.ByIndex(1), feature.ByIndex(2)),
			nil,
			[]string{"a", "c"},
			[]int{1},
			false,
		},
		{
			"filtered",
			Table(s, feature.ByName("y"), feature.ByName("x")),
			&ResolveConfig{Filter: &Filter{Column: "kind", Value: " farm "}},
			[]string{"c"},
			nil,
			false,
		},
		{
			"unknown-filter-column",
			Table(s, feature.ByName("y"), feature.ByName("x")),
			&ResolveConfig{Filter: &Filter{Column: "type", Value: "farm"}},
			nil,
			nil,
			true,
		},
		{
			"unknown-coordinate-column",
			Table(s, feature.ByName("lat"), feature.ByName("x")),
			nil,
			nil,
			nil,
			true,
		},
		{
			"index-out-of-range",
			Table(s, feature.ByIndex(1), feature.ByIndex(7)),
			nil,
			nil,
			nil,
			true,
		},
		{
			"missing-coordinate-column",
			Table(s, feature.ColumnRef{}, feature.ByName("x")),
			nil,
			nil,
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(r, tt.src, tt.cfg)
			if tt.wantCfg {
				assert.True(t, IsConfigError(err), "got %v", err)
				return
			}
			require.NoError(t, err)

			names := []string{}
			for _, row := range res.Set.Rows {
				names = append(names, row.Values[0])
			}
			assert.Equal(t, tt.names, names)

			warned := []int{}
			for _, w := range res.Warnings {
				warned = append(warned, w.Index)
			}
			if tt.warned == nil {
				assert.Empty(t, warned)
			} else {
				assert.Equal(t, tt.warned, warned)
			}
		})
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.asc")
	inPath := filepath.Join(dir, "towns.csv")
	outPath := filepath.Join(dir, "out.csv")

	rows := flat(4, 5)
	rows[3][0] = 0
	require.NoError(t, raster.Write(mapPath, testMap(t, rows)))
	require.NoError(t, os.WriteFile(inPath, []byte("name,lat,long\nLeeds,3.5,1.5\nHull,0.5,0.5\nFar,40,40\n"), 0644))

	res, err := ResolveFile(mapPath, File(inPath, feature.ByName("lat"), feature.ByName("long")), outPath, nil)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)

	got, err := tabular.Read(outPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "lat", "long", "row", "col", "water", "multi"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"Leeds", "3.5", "1.5", "1", "2", "0", "0"}, got.Rows[0].Values)
	assert.Equal(t, []string{"Hull", "0.5", "0.5", "4", "1", "1", "0"}, got.Rows[1].Values)
}

func TestResolveFileConfigErrors(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "towns.csv")
	require.NoError(t, os.WriteFile(inPath, []byte("name,lat,long\nLeeds,3.5,1.5\n"), 0644))

	// the raster doesn't exist: config problems must be found first
	mapPath := filepath.Join(dir, "missing.asc")

	tests := []struct {
		name string
		src  Source
		out  string
	}{
		{"bad-output-extension", File(inPath, feature.ByName("lat"), feature.ByName("long")), filepath.Join(dir, "out.doc")},
		{"bad-input-extension", File(filepath.Join(dir, "towns.doc"), feature.ByName("lat"), feature.ByName("long")), ""},
		{"bad-column", File(inPath, feature.ByName("y"), feature.ByName("long")), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveFile(mapPath, tt.src, tt.out, nil)
			assert.True(t, IsConfigError(err), "got %v", err)
		})
	}

	_, err := ResolveFile(mapPath, File(inPath, feature.ByName("lat"), feature.ByName("long")), filepath.Join(dir, "nope", "out.csv"), nil)
	assert.ErrorIs(t, err, ErrNoDirectory)
}
