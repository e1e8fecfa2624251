package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/voidshard/otter/internal/affine"
)

// ascHeader is the key / value header of an ESRI ASCII grid
type ascHeader struct {
	ncols, nrows int
	x, y         float64
	centre       bool // x,y are xllcenter / yllcenter rather than corners
	dx, dy       float64
	nodata       float64
	hasNoData    bool
	seen         map[string]bool
}

// ReadASC reads an ESRI ASCII grid.
func ReadASC(in io.Reader) (*Raster, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	scanner.Split(bufio.ScanWords)

	hdr := &ascHeader{seen: map[string]bool{}}
	var pending string
	for scanner.Scan() {
		key := strings.ToLower(scanner.Text())
		if !isASCKey(key) {
			pending = scanner.Text()
			break
		}
		if !scanner.Scan() {
			return nil, fmt.Errorf("asc header %s has no value", key)
		}
		if err := hdr.set(key, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := hdr.validate(); err != nil {
		return nil, err
	}

	dtype := Int32
	r := New(hdr.ncols, hdr.nrows, hdr.transform(), dtype)
	if hdr.hasNoData {
		nd := hdr.nodata
		r.NoData = &nd
	}

	i := 0
	parse := func(tok string) error {
		if i >= len(r.Band) {
			return fmt.Errorf("asc grid has more than %d values", len(r.Band))
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("asc value %d: %w", i, err)
		}
		if v != math.Trunc(v) || strings.ContainsAny(tok, ".eE") {
			r.DType = Float32
		}
		r.Band[i] = v
		i++
		return nil
	}

	if pending != "" {
		if err := parse(pending); err != nil {
			return nil, err
		}
	}
	for scanner.Scan() {
		if err := parse(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if i != len(r.Band) {
		return nil, fmt.Errorf("asc grid has %d values, expected %d", i, len(r.Band))
	}
	return r, nil
}

// WriteASC writes r as an ESRI ASCII grid.
// ASCII grids can only describe north up rasters with no rotation.
func WriteASC(out io.Writer, r *Raster) error {
	t := r.Transform
	if t.B != 0 || t.D != 0 {
		return fmt.Errorf("asc grids cannot hold a rotated transform")
	}
	dx, dy := t.A, -t.E
	if dx <= 0 || dy <= 0 {
		return fmt.Errorf("asc grids must be north up with positive cell size")
	}

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "ncols %d\n", r.Width)
	fmt.Fprintf(w, "nrows %d\n", r.Height)
	fmt.Fprintf(w, "xllcorner %s\n", fmtFloat(t.C))
	fmt.Fprintf(w, "yllcorner %s\n", fmtFloat(t.F-dy*float64(r.Height)))
	if dx == dy {
		fmt.Fprintf(w, "cellsize %s\n", fmtFloat(dx))
	} else {
		fmt.Fprintf(w, "dx %s\n", fmtFloat(dx))
		fmt.Fprintf(w, "dy %s\n", fmtFloat(dy))
	}
	if r.NoData != nil {
		fmt.Fprintf(w, "NODATA_value %s\n", fmtFloat(*r.NoData))
	}

	for row := 0; row < r.Height; row++ {
		for col := 0; col < r.Width; col++ {
			if col > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(fmtFloat(r.DType.Clamp(r.At(row, col))))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

func isASCKey(k string) bool {
	switch k {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "dx", "dy", "nodata_value":
		return true
	}
	return false
}

func (h *ascHeader) set(key, value string) error {
	h.seen[key] = true
	if key == "ncols" || key == "nrows" {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("asc header %s: invalid size %q", key, value)
		}
		if key == "ncols" {
			h.ncols = n
		} else {
			h.nrows = n
		}
		return nil
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("asc header %s: %w", key, err)
	}
	switch key {
	case "xllcorner", "xllcenter":
		h.x = v
		h.centre = h.centre || key == "xllcenter"
	case "yllcorner", "yllcenter":
		h.y = v
	case "cellsize":
		h.dx, h.dy = v, v
	case "dx":
		h.dx = v
	case "dy":
		h.dy = v
	case "nodata_value":
		h.nodata = v
		h.hasNoData = true
	}
	return nil
}

func (h *ascHeader) validate() error {
	for _, k := range []string{"ncols", "nrows"} {
		if !h.seen[k] {
			return fmt.Errorf("asc header missing %s", k)
		}
	}
	if h.dx <= 0 || h.dy <= 0 {
		return fmt.Errorf("asc header missing a positive cellsize")
	}
	if h.seen["xllcenter"] != h.seen["yllcenter"] {
		return fmt.Errorf("asc header mixes corner & centre references")
	}
	return nil
}

// transform built from the lower left reference
func (h *ascHeader) transform() affine.Affine {
	left, bottom := h.x, h.y
	if h.centre {
		left -= h.dx / 2
		bottom -= h.dy / 2
	}
	return affine.NorthUp(left, bottom+h.dy*float64(h.nrows), h.dx, h.dy)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
