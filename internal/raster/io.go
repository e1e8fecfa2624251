package raster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/affine"
)

var (
	// ErrUnsupportedFormat is returned for file extensions we cannot handle
	ErrUnsupportedFormat = fmt.Errorf("unsupported raster format")

	// ErrNoDirectory is returned when writing into a directory that does not exist
	ErrNoDirectory = fmt.Errorf("destination directory does not exist")
)

// sidecar carries the metadata image formats have no room for
type sidecar struct {
	CRS    string   `json:"crs,omitempty"`
	NoData *float64 `json:"nodata,omitempty"`
	DType  DType    `json:"dtype,omitempty"`
}

// Read loads a georeferenced raster from disk, choosing the decoder by
// extension.
//
// A .tif/.tiff is placed by its GeoTIFF tags, any image without them
// (.png .tif .tiff .bmp) by a world file next to it (eg. map.pgw for
// map.png). An image with neither is ErrNotGeoreferenced. Any format may
// have a "<file>.aux.json" sidecar holding crs, nodata & dtype.
func Read(fpath string) (*Raster, error) {
	ext := strings.ToLower(filepath.Ext(fpath))

	var r *Raster
	var err error
	switch ext {
	case ".asc":
		r, err = decodeFile(fpath, ReadASC)
	case ".tif", ".tiff":
		tagged := false
		r, err = decodeFile(fpath, func(in io.Reader) (*Raster, error) {
			out, ok, err := DecodeGeoTIFF(in)
			tagged = ok
			return out, err
		})
		if err == nil && !tagged {
			err = placeByWorldFile(fpath, r)
		}
	default:
		r, err = ReadImage(fpath)
		if err == nil {
			err = placeByWorldFile(fpath, r)
		}
	}
	if err != nil {
		return nil, err
	}

	meta, ok, err := readSidecar(fpath)
	if err != nil {
		return nil, err
	}
	if ok {
		if meta.CRS != "" {
			r.CRS = meta.CRS
		}
		if meta.NoData != nil {
			r.NoData = meta.NoData
		}
		if meta.DType.Valid() {
			r.DType = meta.DType
		}
	}

	return r, nil
}

// ReadImage loads only the pixels of a .png, .tif, .tiff or .bmp. The
// transform places cell (r, c) at x = c, y = -r whatever the file says.
func ReadImage(fpath string) (*Raster, error) {
	var decode func(io.Reader) (*Raster, error)
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".png":
		decode = DecodePNG
	case ".tif", ".tiff":
		decode = DecodeTIFF
	case ".bmp":
		decode = DecodeBMP
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "read %s", fpath)
	}
	return decodeFile(fpath, decode)
}

// placeByWorldFile sets the transform of an image from its world file
func placeByWorldFile(fpath string, r *Raster) error {
	tr, ok, err := readWorldFile(worldFilePath(fpath))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNotGeoreferenced, "%s has no geotiff tags or world file %s", fpath, worldFilePath(fpath))
	}
	r.Transform = tr
	return nil
}

// Write saves r to disk choosing the encoder by extension (.asc, .png or
// .tif/.tiff as a GeoTIFF). Nothing is written unless every file can be
// encoded.
func Write(fpath string, r *Raster) error {
	if err := CheckWritable(fpath); err != nil {
		return err
	}

	data := new(bytes.Buffer)
	extra := map[string][]byte{}

	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".asc":
		if err := WriteASC(data, r); err != nil {
			return errors.Wrapf(err, "encode %s", fpath)
		}
	case ".png":
		if err := EncodePNG(data, r); err != nil {
			return errors.Wrapf(err, "encode %s", fpath)
		}
		world := new(bytes.Buffer)
		if err := r.Transform.WriteWorldFile(world); err != nil {
			return err
		}
		extra[worldFilePath(fpath)] = world.Bytes()
	case ".tif", ".tiff":
		if err := EncodeGeoTIFF(data, r); err != nil {
			return errors.Wrapf(err, "encode %s", fpath)
		}
	}

	meta, err := json.MarshalIndent(&sidecar{CRS: r.CRS, NoData: r.NoData, DType: r.DType}, "", "  ")
	if err != nil {
		return err
	}
	extra[sidecarPath(fpath)] = meta

	if err := os.WriteFile(fpath, data.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write %s", fpath)
	}
	for p, b := range extra {
		if err := os.WriteFile(p, b, 0644); err != nil {
			return errors.Wrapf(err, "write %s", p)
		}
	}
	return nil
}

// CheckWritable returns an error if Write could not save to fpath, without
// touching the disk.
func CheckWritable(fpath string) error {
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".asc", ".png", ".tif", ".tiff":
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "write %s", fpath)
	}
	return CheckDir(fpath)
}

// CheckDir returns ErrNoDirectory if the parent directory of fpath is missing.
func CheckDir(fpath string) error {
	dir := filepath.Dir(fpath)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Wrapf(ErrNoDirectory, "%s", dir)
	}
	return nil
}

// worldFilePath returns eg. "map.pgw" for "map.png" & "map.tfw" for "map.tiff"
func worldFilePath(fpath string) string {
	ext := filepath.Ext(fpath)
	if len(ext) < 3 {
		return fpath + "w"
	}
	return strings.TrimSuffix(fpath, ext) + ext[:2] + ext[len(ext)-1:] + "w"
}

func sidecarPath(fpath string) string {
	return fpath + ".aux.json"
}

func decodeFile(fpath string, decode func(io.Reader) (*Raster, error)) (*Raster, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "open raster %s", fpath)
	}
	defer f.Close()

	r, err := decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode raster %s", fpath)
	}
	return r, nil
}

func readWorldFile(fpath string) (affine.Affine, bool, error) {
	f, err := os.Open(fpath)
	if os.IsNotExist(err) {
		return affine.Affine{}, false, nil
	} else if err != nil {
		return affine.Affine{}, false, errors.Wrapf(err, "open world file %s", fpath)
	}
	defer f.Close()

	tr, err := affine.ReadWorldFile(f)
	if err != nil {
		return affine.Affine{}, false, errors.Wrapf(err, "read world file %s", fpath)
	}
	return tr, true, nil
}

func readSidecar(fpath string) (*sidecar, bool, error) {
	data, err := os.ReadFile(sidecarPath(fpath))
	if os.IsNotExist(err) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", sidecarPath(fpath))
	}
	meta := &sidecar{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, false, errors.Wrapf(err, "parse %s", sidecarPath(fpath))
	}
	return meta, true, nil
}
