package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/voidshard/otter/internal/affine"
)

// GeoTIFF pixels go through golang.org/x/image/tiff; the georeferencing
// tags it ignores are read from (and added to) the first IFD here.

const (
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
	tagGeoKeyDirectory     = 34735
	tagGDALNoData          = 42113

	keyModelType      = 1024
	keyRasterType     = 1025
	keyGeographicType = 2048
	keyProjectedType  = 3072

	modelProjected     = 1
	modelGeographic    = 2
	rasterPixelIsArea  = 1
	rasterPixelIsPoint = 2
	userDefined        = 32767

	typeASCII  = 2
	typeShort  = 3
	typeLong   = 4
	typeDouble = 12
)

var (
	// ErrNotGeoreferenced is returned by Read for an image with no
	// GeoTIFF tags & no world file
	ErrNotGeoreferenced = fmt.Errorf("raster is not georeferenced")
)

var typeSize = map[uint16]uint32{
	1: 1, typeASCII: 1, typeShort: 2, typeLong: 4, 5: 8,
	6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, typeDouble: 8,
}

// ifdEntry is one 12 byte directory entry; value holds the data itself
// if it fits in 4 bytes, otherwise its offset
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value [4]byte
}

// tiffFile is the first image directory of a classic (not Big) TIFF
type tiffFile struct {
	data    []byte
	order   binary.ByteOrder
	entries []ifdEntry
}

// geoTags is what the GeoTIFF tags say about a raster
type geoTags struct {
	transform affine.Affine
	crs       string
	nodata    *float64
}

func parseTIFF(data []byte) (*tiffFile, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("tiff header too short")
	}
	f := &tiffFile{data: data}
	switch string(data[:2]) {
	case "II":
		f.order = binary.LittleEndian
	case "MM":
		f.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("bad tiff byte order %q", data[:2])
	}
	if magic := f.order.Uint16(data[2:4]); magic != 42 {
		return nil, fmt.Errorf("unsupported tiff version %d", magic)
	}

	off := int64(f.order.Uint32(data[4:8]))
	if off+2 > int64(len(data)) {
		return nil, fmt.Errorf("tiff directory offset %d out of range", off)
	}
	n := int64(f.order.Uint16(data[off : off+2]))
	if off+2+n*12 > int64(len(data)) {
		return nil, fmt.Errorf("tiff directory truncated")
	}
	for i := int64(0); i < n; i++ {
		b := data[off+2+i*12:]
		e := ifdEntry{tag: f.order.Uint16(b[0:2]), typ: f.order.Uint16(b[2:4]), count: f.order.Uint32(b[4:8])}
		copy(e.value[:], b[8:12])
		f.entries = append(f.entries, e)
	}
	return f, nil
}

func (f *tiffFile) lookup(tag uint16) (ifdEntry, bool) {
	for _, e := range f.entries {
		if e.tag == tag {
			return e, true
		}
	}
	return ifdEntry{}, false
}

// payload returns the raw bytes of e's value
func (f *tiffFile) payload(e ifdEntry) ([]byte, error) {
	size, ok := typeSize[e.typ]
	if !ok {
		return nil, fmt.Errorf("tag %d: unknown field type %d", e.tag, e.typ)
	}
	n := int64(size) * int64(e.count)
	if n <= 4 {
		return e.value[:n], nil
	}
	off := int64(f.order.Uint32(e.value[:]))
	if off+n > int64(len(f.data)) {
		return nil, fmt.Errorf("tag %d: value out of range", e.tag)
	}
	return f.data[off : off+n], nil
}

func (f *tiffFile) doubles(tag uint16) ([]float64, error) {
	e, ok := f.lookup(tag)
	if !ok {
		return nil, nil
	}
	if e.typ != typeDouble {
		return nil, fmt.Errorf("tag %d: expected doubles, got type %d", tag, e.typ)
	}
	b, err := f.payload(e)
	if err != nil {
		return nil, err
	}
	out := make([]float64, e.count)
	for i := range out {
		out[i] = math.Float64frombits(f.order.Uint64(b[i*8:]))
	}
	return out, nil
}

func (f *tiffFile) shorts(tag uint16) ([]uint16, error) {
	e, ok := f.lookup(tag)
	if !ok {
		return nil, nil
	}
	if e.typ != typeShort {
		return nil, fmt.Errorf("tag %d: expected shorts, got type %d", tag, e.typ)
	}
	b, err := f.payload(e)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, e.count)
	for i := range out {
		out[i] = f.order.Uint16(b[i*2:])
	}
	return out, nil
}

func (f *tiffFile) ascii(tag uint16) (string, error) {
	e, ok := f.lookup(tag)
	if !ok || e.typ != typeASCII {
		return "", nil
	}
	b, err := f.payload(e)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimRight(string(b), "\x00")), nil
}

// geoKeys decodes the GeoKeyDirectory into key -> short value. Keys stored
// in other tags (doubles, ascii) are not needed & skipped.
func (f *tiffFile) geoKeys() (map[uint16]uint16, error) {
	dir, err := f.shorts(tagGeoKeyDirectory)
	if err != nil || len(dir) < 4 {
		return map[uint16]uint16{}, err
	}
	keys := map[uint16]uint16{}
	n := int(dir[3])
	for i := 0; i < n && 4+i*4+3 < len(dir); i++ {
		k := dir[4+i*4:]
		if k[1] == 0 {
			keys[k[0]] = k[3]
		}
	}
	return keys, nil
}

// readGeoTags returns the georeferencing of a TIFF, ok is false if it
// carries no model transform.
func readGeoTags(data []byte) (*geoTags, bool, error) {
	f, err := parseTIFF(data)
	if err != nil {
		return nil, false, err
	}

	var tr affine.Affine
	matrix, err := f.doubles(tagModelTransformation)
	if err != nil {
		return nil, false, err
	}
	scale, err := f.doubles(tagModelPixelScale)
	if err != nil {
		return nil, false, err
	}
	tie, err := f.doubles(tagModelTiepoint)
	if err != nil {
		return nil, false, err
	}

	switch {
	case len(matrix) == 16:
		tr = affine.Affine{A: matrix[0], B: matrix[1], C: matrix[3], D: matrix[4], E: matrix[5], F: matrix[7]}
	case len(scale) >= 2 && len(tie) >= 6:
		// raster (I, J) sits at model (X, Y)
		tr = affine.NorthUp(tie[3]-tie[0]*scale[0], tie[4]+tie[1]*scale[1], scale[0], scale[1])
	default:
		return nil, false, nil
	}

	keys, err := f.geoKeys()
	if err != nil {
		return nil, false, err
	}
	if keys[keyRasterType] == rasterPixelIsPoint {
		// tie points name cell centres
		tr.C -= 0.5*tr.A + 0.5*tr.B
		tr.F -= 0.5*tr.D + 0.5*tr.E
	}

	out := &geoTags{transform: tr}
	for _, k := range []uint16{keyProjectedType, keyGeographicType} {
		if code, ok := keys[k]; ok && code != 0 && code != userDefined {
			out.crs = fmt.Sprintf("EPSG:%d", code)
			break
		}
	}

	nd, err := f.ascii(tagGDALNoData)
	if err != nil {
		return nil, false, err
	}
	if nd != "" {
		v, err := strconv.ParseFloat(nd, 64)
		if err != nil {
			return nil, false, fmt.Errorf("bad nodata value %q", nd)
		}
		out.nodata = &v
	}
	return out, true, nil
}

// EncodeGeoTIFF writes r as an uncompressed grayscale TIFF carrying the
// transform, EPSG code (if CRS is "EPSG:n") & nodata as GeoTIFF tags.
// Like png only uint8 & uint16 rasters are accepted.
func EncodeGeoTIFF(out io.Writer, r *Raster) error {
	im, err := grayImage(r)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := tiff.Encode(buf, im, nil); err != nil {
		return err
	}
	data, err := addGeoTags(buf.Bytes(), r)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// DecodeGeoTIFF reads a TIFF, taking the transform, CRS & nodata from its
// GeoTIFF tags. ok is false if there are none.
func DecodeGeoTIFF(in io.Reader) (*Raster, bool, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, false, err
	}
	r, err := DecodeTIFF(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	tags, ok, err := readGeoTags(data)
	if err != nil || !ok {
		return r, false, err
	}
	r.Transform = tags.transform
	r.CRS = tags.crs
	r.NoData = tags.nodata
	return r, true, nil
}

// newEntry is a directory entry with its encoded value
type newEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func doublesEntry(order binary.ByteOrder, tag uint16, vals ...float64) newEntry {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		order.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return newEntry{tag: tag, typ: typeDouble, count: uint32(len(vals)), data: b}
}

func shortsEntry(order binary.ByteOrder, tag uint16, vals ...uint16) newEntry {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		order.PutUint16(b[i*2:], v)
	}
	return newEntry{tag: tag, typ: typeShort, count: uint32(len(vals)), data: b}
}

func asciiEntry(tag uint16, s string) newEntry {
	b := append([]byte(s), 0)
	return newEntry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

// epsgCode returns n for "EPSG:n"
func epsgCode(crs string) (uint16, bool) {
	s := strings.ToUpper(strings.TrimSpace(crs))
	if !strings.HasPrefix(s, "EPSG:") {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "EPSG:"), 10, 16)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint16(n), true
}

// addGeoTags appends a new first directory to a TIFF holding its old
// entries plus the georeferencing of r.
func addGeoTags(data []byte, r *Raster) ([]byte, error) {
	f, err := parseTIFF(data)
	if err != nil {
		return nil, err
	}
	o := f.order

	add := []newEntry{}
	t := r.Transform
	if t.B == 0 && t.D == 0 && t.A > 0 && t.E < 0 {
		add = append(add,
			doublesEntry(o, tagModelPixelScale, t.A, -t.E, 0),
			doublesEntry(o, tagModelTiepoint, 0, 0, 0, t.C, t.F, 0),
		)
	} else {
		add = append(add, doublesEntry(o, tagModelTransformation,
			t.A, t.B, 0, t.C,
			t.D, t.E, 0, t.F,
			0, 0, 0, 0,
			0, 0, 0, 1,
		))
	}

	keys := []uint16{
		keyRasterType, 0, 1, rasterPixelIsArea,
	}
	if code, ok := epsgCode(r.CRS); ok {
		// EPSG 4000-4999 are geographic systems
		model, key := uint16(modelProjected), uint16(keyProjectedType)
		if code >= 4000 && code < 5000 {
			model, key = modelGeographic, keyGeographicType
		}
		keys = append([]uint16{keyModelType, 0, 1, model}, keys...)
		keys = append(keys, key, 0, 1, code)
	}
	add = append(add, shortsEntry(o, tagGeoKeyDirectory, append([]uint16{1, 1, 0, uint16(len(keys) / 4)}, keys...)...))

	if r.NoData != nil {
		add = append(add, asciiEntry(tagGDALNoData, strconv.FormatFloat(*r.NoData, 'f', -1, 64)))
	}
	return f.withEntries(add), nil
}

// withEntries returns the file with a new first directory holding the old
// entries, less any replaced by add, plus add. The old directory's values
// stay where they are, so its entries are copied as is.
func (f *tiffFile) withEntries(add []newEntry) []byte {
	o := f.order
	replaced := map[uint16]bool{}
	for _, e := range add {
		replaced[e.tag] = true
	}

	out := append([]byte{}, f.data...)
	pad := func() {
		if len(out)%2 == 1 {
			out = append(out, 0)
		}
	}

	entries := []ifdEntry{}
	for _, e := range f.entries {
		if !replaced[e.tag] {
			entries = append(entries, e)
		}
	}
	for _, e := range add {
		ie := ifdEntry{tag: e.tag, typ: e.typ, count: e.count}
		if len(e.data) <= 4 {
			copy(ie.value[:], e.data)
		} else {
			pad()
			o.PutUint32(ie.value[:], uint32(len(out)))
			out = append(out, e.data...)
		}
		entries = append(entries, ie)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	pad()
	ifd := uint32(len(out))
	b := make([]byte, 2+12*len(entries)+4)
	o.PutUint16(b, uint16(len(entries)))
	for i, e := range entries {
		p := b[2+i*12:]
		o.PutUint16(p[0:2], e.tag)
		o.PutUint16(p[2:4], e.typ)
		o.PutUint32(p[4:8], e.count)
		copy(p[8:12], e.value[:])
	}
	out = append(out, b...)
	o.PutUint32(out[4:8], ifd)
	return out
}
