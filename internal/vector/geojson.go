package vector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/feature"
)

// featureCollection is a GeoJSON FeatureCollection
type featureCollection struct {
	Type     string        `json:"type"`
	Features []*geoFeature `json:"features"`
}

// geoFeature is a single GeoJSON Feature
type geoFeature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *geometry              `json:"geometry"`
}

// geometry is geojson.Geometry plus the member of a GeometryCollection
type geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates,omitempty"`
	Geometries  []*geometry `json:"geometries,omitempty"`
}

// ReadGeoJSONFile loads a .geojson / .json file
func ReadGeoJSONFile(fpath string) (*feature.Set, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fpath)
	}
	defer f.Close()
	s, err := ReadGeoJSON(f)
	return s, errors.Wrapf(err, "read %s", fpath)
}

// ReadGeoJSON decodes a FeatureCollection, a single Feature or a bare
// geometry. Columns are the union of every feature's property names,
// sorted.
func ReadGeoJSON(in io.Reader) (*feature.Set, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	feats := []*geoFeature{}
	switch strings.ToLower(head.Type) {
	case "featurecollection":
		fc := &featureCollection{}
		if err := json.Unmarshal(data, fc); err != nil {
			return nil, err
		}
		feats = fc.Features
	case "feature":
		f := &geoFeature{}
		if err := json.Unmarshal(data, f); err != nil {
			return nil, err
		}
		feats = append(feats, f)
	default:
		g := &geometry{}
		if err := json.Unmarshal(data, g); err != nil {
			return nil, err
		}
		feats = append(feats, &geoFeature{Type: "Feature", Geometry: g})
	}

	keys := map[string]bool{}
	for _, f := range feats {
		for k := range f.Properties {
			keys[k] = true
		}
	}
	cols := make([]string, 0, len(keys))
	for k := range keys {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	s := feature.NewSet(cols...)
	for i, f := range feats {
		var g geom.Geom
		if f.Geometry != nil {
			g, err = f.Geometry.decode()
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		}
		vals := make([]string, len(cols))
		for j, c := range cols {
			vals[j] = propertyString(f.Properties[c])
		}
		s.Add(vals, g)
	}
	return s, nil
}

// WriteGeoJSONFile writes the set as a FeatureCollection. Nothing is
// written if encoding fails.
func WriteGeoJSONFile(fpath string, s *feature.Set) error {
	buf := new(bytes.Buffer)
	if err := WriteGeoJSON(buf, s); err != nil {
		return errors.Wrapf(err, "encode %s", fpath)
	}
	return errors.Wrapf(os.WriteFile(fpath, buf.Bytes(), 0644), "write %s", fpath)
}

// WriteGeoJSON encodes the set as a FeatureCollection. Numeric looking
// values are written as numbers.
func WriteGeoJSON(out io.Writer, s *feature.Set) error {
	fc := &featureCollection{Type: "FeatureCollection", Features: []*geoFeature{}}
	for i, r := range s.Rows {
		props := map[string]interface{}{}
		for j, c := range s.Columns {
			props[c] = propertyValue(r.Values[j])
		}
		var g *geometry
		if r.Geom != nil {
			var err error
			g, err = encodeGeometry(r.Geom)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		fc.Features = append(fc.Features, &geoFeature{Type: "Feature", Properties: props, Geometry: g})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

func (g *geometry) decode() (geom.Geom, error) {
	if g.Type != "GeometryCollection" {
		return geojson.FromGeoJSON(&geojson.Geometry{Type: g.Type, Coordinates: flatten(g.Coordinates)})
	}
	out := geom.GeometryCollection{}
	for _, sub := range g.Geometries {
		sg, err := sub.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, nil
}

// flatten drops the altitude (& anything after it) from every position
func flatten(coords interface{}) interface{} {
	arr, ok := coords.([]interface{})
	if !ok || len(arr) == 0 {
		return coords
	}
	if _, isNum := arr[0].(float64); isNum {
		if len(arr) > 2 {
			return arr[:2]
		}
		return arr
	}
	out := make([]interface{}, len(arr))
	for i, c := range arr {
		out[i] = flatten(c)
	}
	return out
}

func encodeGeometry(g geom.Geom) (*geometry, error) {
	gc, ok := g.(geom.GeometryCollection)
	if !ok {
		enc, err := geojson.ToGeoJSON(g)
		if err != nil {
			return nil, err
		}
		return &geometry{Type: enc.Type, Coordinates: enc.Coordinates}, nil
	}
	out := &geometry{Type: "GeometryCollection", Geometries: []*geometry{}}
	for _, sub := range gc {
		sg, err := encodeGeometry(sub)
		if err != nil {
			return nil, err
		}
		out.Geometries = append(out.Geometries, sg)
	}
	return out, nil
}

func propertyString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func propertyValue(v string) interface{} {
	if v == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil && !strings.ContainsAny(v, "xXnN") {
		return n
	}
	return v
}
