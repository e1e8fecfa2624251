package raster

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/voidshard/otter/internal/affine"
)

func testRaster(t *testing.T, dtype DType) *Raster {
	r, err := FromRows([][]float64{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
		{2, 2, 3, 3},
		{2, 2, 3, 3},
	}, affine.NorthUp(-120, 40, 0.25, 0.25), dtype)
	require.NoError(t, err)
	return r
}

func TestFromRows(t *testing.T) {
	r := testRaster(t, Uint8)
	assert.Equal(t, 4, r.Width)
	assert.Equal(t, 4, r.Height)
	assert.Equal(t, 3.0, r.At(2, 3))
	assert.Equal(t, 1.0, r.At(0, 2))

	_, err := FromRows([][]float64{{1, 2}, {1}}, affine.NorthUp(0, 0, 1, 1), Uint8)
	assert.Error(t, err)

	_, err = FromRows(nil, affine.NorthUp(0, 0, 1, 1), Uint8)
	assert.Error(t, err)
}

func TestClone(t *testing.T) {
	nd := -9999.0
	r := testRaster(t, Int16)
	r.NoData = &nd

	c := r.Clone()
	c.Set(0, 0, 42)
	*c.NoData = 1

	assert.Equal(t, 0.0, r.At(0, 0))
	assert.Equal(t, -9999.0, *r.NoData)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 255.0, Uint8.Clamp(300))
	assert.Equal(t, 0.0, Uint16.Clamp(-3))
	assert.Equal(t, 4.0, Int16.Clamp(3.6))
	assert.Equal(t, 3.6, Float32.Clamp(3.6))
}

func TestASCRoundTrip(t *testing.T) {
	nd := -9999.0
	r := testRaster(t, Int32)
	r.NoData = &nd
	r.Set(3, 3, nd)

	buf := new(bytes.Buffer)
	require.NoError(t, WriteASC(buf, r))
	assert.True(t, strings.HasPrefix(buf.String(), "ncols 4\nnrows 4\nxllcorner -120\nyllcorner 39\ncellsize 0.25\nNODATA_value -9999\n"))

	got, err := ReadASC(buf)
	require.NoError(t, err)
	assert.Equal(t, r.Rows(), got.Rows())
	assert.True(t, r.Transform.AlmostEqual(got.Transform, 1e-12))
	require.NotNil(t, got.NoData)
	assert.Equal(t, nd, *got.NoData)
	assert.Equal(t, Int32, got.DType)
	assert.True(t, got.IsNoData(got.At(3, 3)))
}

func TestReadASCCentre(t *testing.T) {
	in := "ncols 2\nnrows 2\nxllcenter 0.5\nyllcenter 0.5\ncellsize 1\n1.5 2\n3 4\n"

	r, err := ReadASC(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, affine.NorthUp(0, 2, 1, 1).AlmostEqual(r.Transform, 1e-12))
	assert.Equal(t, Float32, r.DType)
	assert.Equal(t, [][]float64{{1.5, 2}, {3, 4}}, r.Rows())
}

func TestReadASCInvalid(t *testing.T) {
	tests := []string{
		"nrows 1\ncellsize 1\n1\n",
		"ncols 2\nnrows 1\ncellsize 1\n1\n",
		"ncols 1\nnrows 1\ncellsize 1\n1 2\n",
		"ncols 1\nnrows 1\n1\n",
		"ncols 1\nnrows 1\ncellsize 1\nx\n",
	}
	for _, in := range tests {
		_, err := ReadASC(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestWriteReadASCFile(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "map.asc")

	r := testRaster(t, Uint16)
	r.CRS = "EPSG:4326"
	require.NoError(t, Write(fpath, r))

	got, err := Read(fpath)
	require.NoError(t, err)
	assert.Equal(t, r.Rows(), got.Rows())
	assert.Equal(t, "EPSG:4326", got.CRS)
	assert.Equal(t, Uint16, got.DType)
	assert.Nil(t, got.NoData)
	assert.Equal(t, r.Width, got.Width)
	assert.Equal(t, r.Height, got.Height)
	assert.True(t, r.Transform.AlmostEqual(got.Transform, 1e-12))
}

func TestWriteReadPNGFile(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "map.png")

	nd := 0.0
	r := testRaster(t, Uint16)
	r.Set(0, 0, 4000)
	r.CRS = "EPSG:4326"
	r.NoData = &nd
	require.NoError(t, Write(fpath, r))

	assert.FileExists(t, filepath.Join(dir, "map.pgw"))
	assert.FileExists(t, filepath.Join(dir, "map.png.aux.json"))

	got, err := Read(fpath)
	require.NoError(t, err)
	assert.Equal(t, r.Rows(), got.Rows())
	assert.Equal(t, Uint16, got.DType)
	assert.Equal(t, "EPSG:4326", got.CRS)
	require.NotNil(t, got.NoData)
	assert.Equal(t, 0.0, *got.NoData)
	assert.True(t, r.Transform.AlmostEqual(got.Transform, 1e-12))
}

func TestWritePNGRefusesFloat(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "map.png")

	err := Write(fpath, testRaster(t, Float32))
	assert.Error(t, err)

	_, statErr := os.Stat(fpath)
	assert.True(t, os.IsNotExist(statErr), "no partial output expected")
}

func TestWriteMissingDirectory(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "nope", "map.asc")
	err := Write(fpath, testRaster(t, Uint8))
	assert.ErrorIs(t, err, ErrNoDirectory)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Read("map.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.ErrorIs(t, CheckWritable(filepath.Join(t.TempDir(), "map.bmp")), ErrUnsupportedFormat)
}

func TestWorldFilePath(t *testing.T) {
	assert.Equal(t, "a/map.pgw", worldFilePath("a/map.png"))
	assert.Equal(t, "map.tfw", worldFilePath("map.tiff"))
	assert.Equal(t, "map.tfw", worldFilePath("map.tif"))
	assert.Equal(t, "map.bpw", worldFilePath("map.bmp"))
}

func TestImageDecoders(t *testing.T) {
	im := image.NewRGBA(image.Rect(0, 0, 3, 2))
	im.Set(0, 0, color.White)
	im.Set(2, 1, color.Gray{Y: 100})

	tbuf := new(bytes.Buffer)
	require.NoError(t, tiff.Encode(tbuf, im, nil))
	r, err := DecodeTIFF(tbuf)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Width)
	assert.Equal(t, 2, r.Height)
	assert.Equal(t, 255.0, r.At(0, 0))
	assert.Equal(t, 100.0, r.At(1, 2))
	assert.Equal(t, Uint8, r.DType)

	bbuf := new(bytes.Buffer)
	require.NoError(t, bmp.Encode(bbuf, im))
	r, err = DecodeBMP(bbuf)
	require.NoError(t, err)
	assert.Equal(t, 255.0, r.At(0, 0))
	assert.Equal(t, 0.0, r.At(1, 0))
}

func TestMinMax(t *testing.T) {
	nd := 3.0
	r := testRaster(t, Uint8)
	r.NoData = &nd

	lo, hi := r.MinMax()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)
}
