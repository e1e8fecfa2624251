package otter

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestPreviewImage(t *testing.T) {
	rows := flat(4, 10)
	rows[0][0] = 0
	rows[3][3] = 20
	r := testMap(t, rows)

	coords := []*GridCoordinate{
		{Rows: []int{3}, Cols: []int{2}},
		{Rows: []int{1, 1}, Cols: []int{3, 4}, IsMulti: true},
	}
	im := PreviewImage(r, coords, nil, 8)
	assert.Equal(t, 32, im.Bounds().Dx())
	assert.Equal(t, 32, im.Bounds().Dy())

	assert.Equal(t, rgba(colornames.Steelblue), rgba(im.At(4, 4)))
	assert.Equal(t, rgba(colornames.Whitesmoke), rgba(im.At(28, 28)))

	// tile (3, 2) is cell row 2 col 1, centred on pixel (12, 20)
	assert.Equal(t, rgba(colornames.Crimson), rgba(im.At(12, 20)))
	assert.NotEqual(t, rgba(colornames.Crimson), rgba(im.At(28, 4)))
}

func TestLerp(t *testing.T) {
	a := color.RGBA{0, 0, 0, 255}
	b := color.RGBA{200, 100, 50, 255}
	assert.Equal(t, a, lerp(a, b, 0))
	assert.Equal(t, b, lerp(a, b, 1))
	assert.Equal(t, color.RGBA{100, 50, 25, 255}, lerp(a, b, 0.5))
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	r := testMap(t, flat(3, 1))

	fpath := filepath.Join(dir, "preview.png")
	require.NoError(t, Preview(r, nil, DefaultScheme(), 2, fpath))

	f, err := os.Open(fpath)
	require.NoError(t, err)
	defer f.Close()
	im, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 6, im.Bounds().Dx())

	assert.True(t, IsConfigError(Preview(r, nil, nil, 1, filepath.Join(dir, "preview.jpg"))))
	assert.ErrorIs(t, Preview(r, nil, nil, 1, filepath.Join(dir, "nope", "preview.png")), ErrNoDirectory)
}
