package affine

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	transforms := []Affine{
		NorthUp(-124.8, 49.0, 0.01, 0.01),
		NorthUp(0, 4, 1, 1),
		NorthUp(500000, 4200000, 30, 15),
		{A: 2, B: 0.5, C: 10, D: -0.25, E: -3, F: 100},
	}

	for i, tr := range transforms {
		t.Run(fmt.Sprintf("transform-%d", i), func(t *testing.T) {
			bnds := tr.Bounds(64, 32)
			for _, f := range [][2]float64{{0.1, 0.1}, {0.5, 0.5}, {0.33, 0.9}, {0.99, 0.01}} {
				x := bnds.X.Lo + f[0]*bnds.X.Length()
				y := bnds.Y.Lo + f[1]*bnds.Y.Length()

				row, col := tr.GeoToPixel(x, y)
				gx, gy := tr.PixelToGeo(row, col)

				assert.InDelta(t, x, gx, 1e-9*math.Max(1, math.Abs(x)))
				assert.InDelta(t, y, gy, 1e-9*math.Max(1, math.Abs(y)))
			}
		})
	}
}

func TestCell(t *testing.T) {
	tr := NorthUp(0, 4, 1, 1)

	tests := []struct {
		x, y     float64
		row, col int
	}{
		{0.5, 3.5, 0, 0},
		{3.5, 1.5, 2, 3},
		{3.99, 0.01, 3, 3},
		{-0.5, 3.5, 0, -1},
		{0.5, 4.5, -1, 0},
	}

	for _, tt := range tests {
		row, col := tr.Cell(tt.x, tt.y)
		assert.Equal(t, tt.row, row, "row for (%v,%v)", tt.x, tt.y)
		assert.Equal(t, tt.col, col, "col for (%v,%v)", tt.x, tt.y)
	}
}

func TestCellCentre(t *testing.T) {
	tr := NorthUp(10, 20, 2, 2)

	x, y := tr.CellCentre(0, 0)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 19.0, y)

	x, y = tr.CellCentre(2, 3)
	assert.Equal(t, 17.0, x)
	assert.Equal(t, 15.0, y)
}

func TestInverseSingular(t *testing.T) {
	_, err := Affine{A: 1, B: 2, D: 2, E: 4}.Inverse()
	assert.ErrorIs(t, err, ErrSingular)

	row, col := Affine{}.GeoToPixel(1, 1)
	assert.True(t, math.IsNaN(row))
	assert.True(t, math.IsNaN(col))
}

func TestPixelSize(t *testing.T) {
	w, h := NorthUp(0, 0, 30, 15).PixelSize()
	assert.Equal(t, 30.0, w)
	assert.Equal(t, 15.0, h)

	assert.True(t, NorthUp(0, 0, 1, 1).IsSquare(1e-9))
	assert.False(t, NorthUp(0, 0, 30, 15).IsSquare(1e-9))
}

func TestBounds(t *testing.T) {
	bnds := NorthUp(-10, 50, 0.5, 0.25).Bounds(40, 80)
	assert.Equal(t, -10.0, bnds.X.Lo)
	assert.Equal(t, 10.0, bnds.X.Hi)
	assert.Equal(t, 30.0, bnds.Y.Lo)
	assert.Equal(t, 50.0, bnds.Y.Hi)
}

func TestFromCorners(t *testing.T) {
	bounds := Rect(-124.8155, 29.0001, -114.8155, 49.0001)

	tr, err := FromCorners(bounds, 2048, 4096)
	require.NoError(t, err)

	want := NorthUp(-124.8155, 49.0001, 10.0/2048, 20.0/4096)
	assert.True(t, tr.AlmostEqual(want, 1e-9), "got %v want %v", tr, want)

	// corners map back onto the bounds
	x, y := tr.PixelToGeo(4096, 2048)
	assert.InDelta(t, -114.8155, x, 1e-9)
	assert.InDelta(t, 29.0001, y, 1e-9)

	// centre of the top left pixel of the image
	x, y = tr.CellCentre(0, 0)
	assert.InDelta(t, -124.8155+0.5*10.0/2048, x, 1e-9)
	assert.InDelta(t, 49.0001-0.5*20.0/4096, y, 1e-9)
}

func TestFromGCPsErrors(t *testing.T) {
	_, err := FromGCPs([]GCP{{Row: 0, Col: 0}, {Row: 1, Col: 1}})
	assert.Error(t, err)

	_, err = FromCorners(Rect(0, 0, 1, 1), 0, 10)
	assert.Error(t, err)
}

func TestWorldFile(t *testing.T) {
	tr := NorthUp(-124.8155, 49.0001, 0.005, 0.0025)

	buf := new(bytes.Buffer)
	require.NoError(t, tr.WriteWorldFile(buf))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 6)
	assert.Equal(t, "0.005", string(lines[0]))
	assert.Equal(t, "-0.0025", string(lines[3]))

	got, err := ReadWorldFile(buf)
	require.NoError(t, err)
	assert.True(t, tr.AlmostEqual(got, 1e-12), "got %v want %v", got, tr)
}

func TestWorldFileInvalid(t *testing.T) {
	_, err := ReadWorldFile(bytes.NewBufferString("1\n0\n0\n-1\n"))
	assert.Error(t, err)

	_, err = ReadWorldFile(bytes.NewBufferString("1\n0\n0\n-1\nabc\n3\n"))
	assert.Error(t, err)
}
