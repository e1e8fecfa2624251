package otter

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParam(t *testing.T) {
	tests := []struct {
		name  string
		p     Param[int]
		zone  string
		want  int
		found bool
	}{
		{"unset", Param[int]{}, "a", 0, false},
		{"global", Global(5), "a", 5, true},
		{"zoned-hit", Zoned(map[string]int{"a": 2}), "a", 2, true},
		{"zoned-miss", Zoned(map[string]int{"a": 2}), "b", 0, false},
		{"zone-wins", Global(5).With("a", 1), "a", 1, true},
		{"global-fallback", Global(5).With("a", 1), "b", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.p.Resolve(tt.zone)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, v)
			if !tt.found {
				assert.Equal(t, 9, tt.p.Or(tt.zone, 9))
			}
		})
	}
}

func TestParamWithCopies(t *testing.T) {
	base := Zoned(map[string]float64{"a": 1})
	next := base.With("b", 2)

	_, ok := base.Resolve("b")
	assert.False(t, ok)
	assert.Equal(t, 2.0, next.Or("b", 0))
	assert.Equal(t, 1.0, next.Or("a", 0))
}

func TestParseSampleMethod(t *testing.T) {
	m, err := ParseSampleMethod(" Cluster_Normal ")
	require.NoError(t, err)
	assert.Equal(t, ClusterNormal, m)

	_, err = ParseSampleMethod("hexagonal")
	assert.True(t, IsConfigError(err))

	assert.Equal(t, []SampleMethod{Uniform, Poisson, Normal, ClusterPoisson, ClusterNormal}, AllSampleMethods())
	assert.True(t, ClusterPoisson.clustered())
	assert.False(t, Normal.clustered())
}

func TestParseTownSize(t *testing.T) {
	s, ok := ParseTownSize("medium ")
	assert.True(t, ok)
	assert.Equal(t, "GSTown.TOWN_SIZE_MEDIUM", s.Script())

	_, ok = ParseTownSize("metropolis")
	assert.False(t, ok)
}

func TestConfigError(t *testing.T) {
	err := configError("size", "required for zone %s", "a")
	assert.Equal(t, "invalid size: required for zone a", err.Error())
	assert.True(t, IsConfigError(errors.Wrap(err, "sample")))
	assert.False(t, IsConfigError(fmt.Errorf("other")))
}

func TestWarningString(t *testing.T) {
	tests := []struct {
		w    Warning
		want string
	}{
		{Warning{Index: 2, Subject: "Leeds", Reason: "bad"}, "row 2 (Leeds): bad"},
		{Warning{Index: 0, Reason: "bad"}, "row 0: bad"},
		{Warning{Index: -1, Subject: "zone a", Reason: "bad"}, "zone a: bad"},
		{Warning{Index: -1, Reason: "bad"}, "bad"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.w.String())
	}
}
