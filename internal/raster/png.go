package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/voidshard/otter/internal/affine"
)

// EncodePNG writes r as a grayscale PNG. Only uint8 & uint16 rasters can
// be stored losslessly, anything else is refused.
func EncodePNG(out io.Writer, r *Raster) error {
	im, err := grayImage(r)
	if err != nil {
		return err
	}
	return png.Encode(out, im)
}

// grayImage converts uint8 & uint16 rasters to the matching gray image
func grayImage(r *Raster) (image.Image, error) {
	switch r.DType {
	case Uint8:
		gray := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
		for row := 0; row < r.Height; row++ {
			for col := 0; col < r.Width; col++ {
				gray.SetGray(col, row, color.Gray{Y: uint8(Uint8.Clamp(r.At(row, col)))})
			}
		}
		return gray, nil
	case Uint16:
		gray := image.NewGray16(image.Rect(0, 0, r.Width, r.Height))
		for row := 0; row < r.Height; row++ {
			for col := 0; col < r.Width; col++ {
				gray.SetGray16(col, row, color.Gray16{Y: uint16(Uint16.Clamp(r.At(row, col)))})
			}
		}
		return gray, nil
	}
	return nil, fmt.Errorf("%s rasters cannot be stored as an image", r.DType)
}

// DecodePNG reads a PNG heightmap.
func DecodePNG(in io.Reader) (*Raster, error) {
	im, err := png.Decode(in)
	if err != nil {
		return nil, err
	}
	return FromImage(im), nil
}

// DecodeTIFF reads the pixels of a TIFF image, see DecodeGeoTIFF for its
// georeferencing.
func DecodeTIFF(in io.Reader) (*Raster, error) {
	im, err := tiff.Decode(in)
	if err != nil {
		return nil, err
	}
	return FromImage(im), nil
}

// DecodeBMP reads a BMP image.
func DecodeBMP(in io.Reader) (*Raster, error) {
	im, err := bmp.Decode(in)
	if err != nil {
		return nil, err
	}
	return FromImage(im), nil
}

// FromImage turns an image into a raster. 16 bit grayscale keeps its full
// range, every other colour model is reduced to 8 bit luminance.
// The transform places cell (r, c) at x = c, y = -r until the caller
// georeferences it.
func FromImage(im image.Image) *Raster {
	bnds := im.Bounds()
	w, h := bnds.Dx(), bnds.Dy()

	dtype := Uint8
	if _, ok := im.(*image.Gray16); ok {
		dtype = Uint16
	}

	r := New(w, h, affine.NorthUp(0, 0, 1, 1), dtype)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			c := im.At(bnds.Min.X+col, bnds.Min.Y+row)
			if dtype == Uint16 {
				r.Set(row, col, float64(color.Gray16Model.Convert(c).(color.Gray16).Y))
			} else {
				r.Set(row, col, float64(color.GrayModel.Convert(c).(color.Gray).Y))
			}
		}
	}
	return r
}
