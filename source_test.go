package otter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// esriWGS84 is the .prj most tools write next to an EPSG:4326 shapefile
const esriWGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

func TestSameCRS(t *testing.T) {
	gdalWGS84 := `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"unknown", "", "EPSG:3857", true},
		{"same-code", "EPSG:4326", " epsg:4326 ", true},
		{"esri-prj", esriWGS84, "EPSG:4326", true},
		{"gdal-prj", "EPSG:4326", gdalWGS84, true},
		{"wkt-both", esriWGS84, gdalWGS84, true},
		{"lowercase-code", "epsg:4326", esriWGS84, true},
		{"mercator", "EPSG:3857", "EPSG:4326", false},
		{"mercator-prj", "EPSG:3857", esriWGS84, false},
		{"nad83", "EPSG:4269", "EPSG:4326", false},
		{"unreadable", "garbage", "EPSG:4326", true},
		{"malformed-wkt", `GEOGCS["X"]`, "EPSG:4326", true},
		{"unknown-code", "EPSG:27700", "EPSG:4326", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameCRS(tt.a, tt.b))
			assert.Equal(t, tt.want, sameCRS(tt.b, tt.a))
		})
	}
}
