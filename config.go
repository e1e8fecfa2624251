package otter

import (
	"github.com/voidshard/otter/internal/feature"
)

// Filter keeps only rows where Column equals Value. Both sides are
// compared as trimmed strings, so "12" matches a spreadsheet's "12 ".
type Filter struct {
	Column string
	Value  string
}

// ResolveConfig tweaks how features are mapped to grid coordinates.
type ResolveConfig struct {
	// Filter is applied before any coordinates are read (optional)
	Filter *Filter

	// AllTouched makes polygons cover every cell their outline passes
	// through, as well as cells whose centre is inside.
	// Off by default; small polygons then only match if they contain
	// at least one cell centre.
	AllTouched bool
}

// EditConfig configures raster edits (AddWater, AddLand, SetToValue).
type EditConfig struct {
	// Filter selects which edit geometries to use (optional)
	Filter *Filter

	// Buffer grows every geometry by this many tiles before masking.
	// The distance in map units is Buffer * pixel size. Non square pixels
	// use the mean of the x & y sizes (a warning is recorded).
	// 0 or less means no buffer.
	Buffer float64

	// AllTouched see ResolveConfig
	AllTouched bool
}

// SampleConfig configures random point generation in zones.
// Every parameter may be given once for all zones, per zone, or both
// (the per zone value wins).
type SampleConfig struct {
	// Method of sampling. Zones with no method use Uniform (with a warning)
	Method Param[SampleMethod]

	// Size is the number of points; required for every zone
	Size Param[int]

	// Intensity is the expected number of points per square map unit.
	// When given for Poisson methods the point count is drawn from a
	// Poisson distribution with mean Intensity * zone area instead of
	// using Size directly.
	Intensity Param[float64]

	// Center of the Normal distribution in map units.
	// Defaults to the centre of the zone's bounding box.
	Center Param[[2]float64]

	// Cov is the 2x2 covariance of Normal & ClusterNormal points.
	// Defaults to a diagonal matrix with std dev of a quarter the zone's
	// extent (or the cluster radius for ClusterNormal).
	Cov Param[[2][2]float64]

	// NSeeds is the number of cluster centres (default 2)
	NSeeds Param[int]

	// ClusterRadius bounds how far ClusterPoisson points fall from their
	// seed. Defaults to a tenth of the zone's smallest extent.
	ClusterRadius Param[float64]

	// Seed for rng (random number chosen if not set)
	Seed int64

	// MaxAttempts caps rejection sampling per point (default 1000).
	// Zones that can't fill Size in time are warned about.
	MaxAttempts int
}

// TownHeaders locates town fields in a table.
// Use feature.ParseColumnRef to turn user given headers (which may be
// column positions) into ColumnRefs.
type TownHeaders struct {
	X, Y feature.ColumnRef
	Size feature.ColumnRef // small, medium or large
	City feature.ColumnRef // true or false
	Name feature.ColumnRef

	// Population target; optional, towns default to 0 (don't grow)
	Population feature.ColumnRef
}

// DefaultTownHeaders returns the usual town column names
func DefaultTownHeaders() *TownHeaders {
	return &TownHeaders{
		X:          feature.ByName("X"),
		Y:          feature.ByName("Y"),
		Size:       feature.ByName("Size"),
		City:       feature.ByName("City"),
		Name:       feature.ByName("Name"),
		Population: feature.ByName("Population"),
	}
}

// IndustryHeaders locates industry fields in a table.
type IndustryHeaders struct {
	X, Y feature.ColumnRef
	Name feature.ColumnRef
	Type feature.ColumnRef // numeric industry type id

	// Optional levelling fields. If TryLevel is set the game will flatten
	// a LevelX2 x LevelY2 area & retry should the first attempt fail.
	TryLevel feature.ColumnRef
	LevelX2  feature.ColumnRef
	LevelY2  feature.ColumnRef
}

// DefaultIndustryHeaders returns the usual industry column names
func DefaultIndustryHeaders() *IndustryHeaders {
	return &IndustryHeaders{
		X:    feature.ByName("X"),
		Y:    feature.ByName("Y"),
		Name: feature.ByName("Name"),
		Type: feature.ByName("Type"),
	}
}

// CanalHeaders locates canal tiles in a table. Cells may hold lists
// ("[1, 2, 3]") as written by the resolver for multi cell features.
type CanalHeaders struct {
	X, Y feature.ColumnRef
}

// DefaultCanalHeaders returns the usual canal column names
func DefaultCanalHeaders() *CanalHeaders {
	return &CanalHeaders{X: feature.ByName("X"), Y: feature.ByName("Y")}
}

// SignHeaders locates sign fields in a table.
type SignHeaders struct {
	X, Y feature.ColumnRef
	Text feature.ColumnRef
}

// DefaultSignHeaders returns the usual sign column names
func DefaultSignHeaders() *SignHeaders {
	return &SignHeaders{X: feature.ByName("X"), Y: feature.ByName("Y"), Text: feature.ByName("Label")}
}

// Info is the metadata written to info.nut
type Info struct {
	Author      string
	Name        string
	ShortName   string // exactly 4 letters
	Description string

	// Version is a squirrel expression; defaults to SELF_VERSION which
	// version.nut defines
	Version string

	Date       string
	APIVersion string // defaults to 1.11
	URL        string

	// Comment is placed in a block comment at the top of the file
	Comment string
}

// TownsJSONConfig configures the scenario editor town list.
type TownsJSONConfig struct {
	// Map size in tiles
	Width, Height int

	Name       feature.ColumnRef // default "name"
	Population feature.ColumnRef // default "population"
	City       feature.ColumnRef // default "city"
	Row        feature.ColumnRef // default "row"
	Col        feature.ColumnRef // default "col"

	Filter *Filter
}

// LatLongConfig configures grid to lon/lat lookups.
type LatLongConfig struct {
	// Row & Col columns, defaults "row" & "col"
	Row, Col feature.ColumnRef

	// ZeroBased means row/col values are raster indexes rather than game
	// tiles (which start at 1)
	ZeroBased bool

	Filter *Filter
}
