package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/feature"
)

// parseFilter reads "column=value"
func parseFilter(s string) (*otter.Filter, error) {
	if s == "" {
		return nil, nil
	}
	col, val, ok := strings.Cut(s, "=")
	if !ok {
		return nil, &otter.ConfigError{Field: "filter", Msg: fmt.Sprintf("%q is not column=value", s)}
	}
	return &otter.Filter{Column: strings.TrimSpace(col), Value: val}, nil
}

// parseParam reads a setting given as "v" (every zone), "zone=v,zone=v"
// or a mix of both.
func parseParam[T any](name, s string, parse func(string) (T, error)) (otter.Param[T], error) {
	p := otter.Param[T]{}
	if strings.TrimSpace(s) == "" {
		return p, nil
	}
	for _, part := range strings.Split(s, ",") {
		zone, raw, zoned := strings.Cut(part, "=")
		if !zoned {
			raw = zone
		}
		v, err := parse(strings.TrimSpace(raw))
		if err != nil {
			return p, &otter.ConfigError{Field: name, Msg: err.Error()}
		}
		if zoned {
			p = p.With(strings.TrimSpace(zone), v)
		} else {
			p.Value = &v
		}
	}
	return p, nil
}

// parseFloats reads n floats separated by ':'
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != n {
		return nil, fmt.Errorf("%q needs %d values separated by ':'", s, n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := feature.ParseFloat(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parsePoint(s string) ([2]float64, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{v[0], v[1]}, nil
}

func parseCov(s string) ([2][2]float64, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return [2][2]float64{}, err
	}
	return [2][2]float64{{v[0], v[1]}, {v[2], v[3]}}, nil
}

func parseMethod(s string) (otter.SampleMethod, error) {
	return otter.ParseSampleMethod(s)
}

// headers reads a comma separated list of column names or positions
func headers(s string) []feature.ColumnRef {
	out := []feature.ColumnRef{}
	if s == "" {
		return out
	}
	for _, h := range strings.Split(s, ",") {
		out = append(out, feature.ParseColumnRef(strings.TrimSpace(h)))
	}
	return out
}

// header returns the i'th ref, or def if there are too few
func header(refs []feature.ColumnRef, i int, def feature.ColumnRef) feature.ColumnRef {
	if i < len(refs) {
		return refs[i]
	}
	return def
}

// parseLonLat reads "lon,lat" pairs given as repeated flags
func parseLonLat(vals []string) ([][2]float64, error) {
	out := [][2]float64{}
	for _, v := range vals {
		lon, lat, ok := strings.Cut(v, ",")
		if !ok {
			return nil, &otter.ConfigError{Field: "point", Msg: fmt.Sprintf("%q is not lon,lat", v)}
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if err != nil {
			return nil, &otter.ConfigError{Field: "point", Msg: err.Error()}
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return nil, &otter.ConfigError{Field: "point", Msg: err.Error()}
		}
		out = append(out, [2]float64{x, y})
	}
	return out, nil
}
