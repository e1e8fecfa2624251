package otter

import (
	"sort"
	"strings"
)

// SampleMethod is a spatial distribution for random points in a zone.
type SampleMethod string

const (
	Uniform        SampleMethod = "uniform"         // evenly across the zone
	Poisson        SampleMethod = "poisson"         // homogeneous poisson process
	Normal         SampleMethod = "normal"          // gaussian around a centre
	ClusterPoisson SampleMethod = "cluster_poisson" // evenly within discs around random seeds
	ClusterNormal  SampleMethod = "cluster_normal"  // gaussian around random seeds
)

var (
	methodIndex = map[SampleMethod]int{
		Uniform:        0,
		Poisson:        1,
		Normal:         2,
		ClusterPoisson: 3,
		ClusterNormal:  4,
	}
)

// Valid returns if m is a known method
func (m SampleMethod) Valid() bool {
	_, ok := methodIndex[m]
	return ok
}

// clustered returns if points are grouped around seeds
func (m SampleMethod) clustered() bool {
	return m == ClusterPoisson || m == ClusterNormal
}

// ParseSampleMethod reads a method name, case & whitespace insensitive.
func ParseSampleMethod(s string) (SampleMethod, error) {
	m := SampleMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", configError("method", "%q is not one of %v", s, AllSampleMethods())
	}
	return m, nil
}

// AllSampleMethods returns all known methods
func AllSampleMethods() []SampleMethod {
	out := make([]SampleMethod, 0, len(methodIndex))
	for m := range methodIndex {
		out = append(out, m)
	}
	sort.Slice(out, func(a, b int) bool {
		return methodIndex[out[a]] < methodIndex[out[b]]
	})
	return out
}

// TownSize is the game's starting size class for a town.
type TownSize string

const (
	TownSmall  TownSize = "SMALL"
	TownMedium TownSize = "MEDIUM"
	TownLarge  TownSize = "LARGE"
)

// ParseTownSize reads a size class in any case
func ParseTownSize(s string) (TownSize, bool) {
	t := TownSize(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TownSmall, TownMedium, TownLarge:
		return t, true
	}
	return "", false
}

// Script returns the squirrel constant for the size
func (t TownSize) Script() string {
	return "GSTown.TOWN_SIZE_" + string(t)
}
