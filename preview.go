package otter

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/voidshard/otter/internal/mask"
	"github.com/voidshard/otter/internal/raster"
)

// ColourScheme defines how a preview is coloured.
type ColourScheme struct {
	// Land is shaded from Low (lowest cell) to High (highest cell)
	Low  color.Color
	High color.Color

	Water  color.Color // cells at sea level
	NoData color.Color

	// Markers for resolved features; multi cell features are outlined
	Feature      color.Color
	MultiFeature color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Low:          colornames.Darkgreen,
		High:         colornames.Whitesmoke,
		Water:        colornames.Steelblue,
		NoData:       colornames.Black,
		Feature:      colornames.Crimson,
		MultiFeature: colornames.Gold,
	}
}

// PreviewImage draws r with each cell scale x scale pixels & marks every
// resolved feature.
func PreviewImage(r *raster.Raster, coords []*GridCoordinate, scheme *ColourScheme, scale int) image.Image {
	if scheme == nil {
		scheme = DefaultScheme()
	}
	scale = maxint(scale, 1)

	im := image.NewRGBA(image.Rect(0, 0, r.Width*scale, r.Height*scale))
	lo, hi := r.MinMax()
	for row := 0; row < r.Height; row++ {
		for col := 0; col < r.Width; col++ {
			c := cellColour(r, row, col, lo, hi, scheme)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					im.Set(col*scale+dx, row*scale+dy, c)
				}
			}
		}
	}

	ctx := gg.NewContextForRGBA(im)
	s := float64(scale)
	for _, gc := range coords {
		if gc.IsMulti {
			ctx.SetColor(scheme.MultiFeature)
			for i := range gc.Rows {
				ctx.DrawRectangle(float64(gc.Cols[i]-1)*s, float64(gc.Rows[i]-1)*s, s, s)
			}
			ctx.SetLineWidth(1)
			ctx.Stroke()
			continue
		}
		ctx.SetColor(scheme.Feature)
		ctx.DrawCircle((float64(gc.Col()-1)+0.5)*s, (float64(gc.Row()-1)+0.5)*s, s)
		ctx.Fill()
	}
	return ctx.Image()
}

// cellColour picks the colour for one cell
func cellColour(r *raster.Raster, row, col int, lo, hi float64, scheme *ColourScheme) color.Color {
	v := r.At(row, col)
	switch {
	case r.IsNoData(v):
		return scheme.NoData
	case v == mask.SeaLevel:
		return scheme.Water
	}
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	return lerp(scheme.Low, scheme.High, t)
}

// lerp blends a towards b by t (0..1)
func lerp(a, b color.Color, t float64) color.Color {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	mix := func(x, y uint32) uint8 {
		return uint8((float64(x) + (float64(y)-float64(x))*t) / 257)
	}
	return color.RGBA{mix(ar, br), mix(ag, bg), mix(ab, bb), mix(aa, ba)}
}

// Preview renders r & coords to a png at fpath
func Preview(r *raster.Raster, coords []*GridCoordinate, scheme *ColourScheme, scale int, fpath string) error {
	if extension(fpath) != ".png" {
		return configError("output", "%s must be a .png file", fpath)
	}
	if err := checkDirectory(dirOf(fpath)); err != nil {
		return err
	}
	return savePNG(fpath, PreviewImage(r, coords, scheme, scale))
}
