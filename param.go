package otter

// Param is a setting given once for every zone, per zone, or both.
// The zone's own value wins over the shared one.
type Param[T any] struct {
	// Value applies to zones without their own entry, if set
	Value *T

	// PerZone values keyed by zone id
	PerZone map[string]T
}

// Global returns a Param with one value for all zones
func Global[T any](v T) Param[T] {
	return Param[T]{Value: &v}
}

// Zoned returns a Param with only per zone values
func Zoned[T any](m map[string]T) Param[T] {
	return Param[T]{PerZone: m}
}

// With returns a copy of p with the value for zone set
func (p Param[T]) With(zone string, v T) Param[T] {
	m := make(map[string]T, len(p.PerZone)+1)
	for k, pv := range p.PerZone {
		m[k] = pv
	}
	m[zone] = v
	return Param[T]{Value: p.Value, PerZone: m}
}

// Resolve returns the value for zone & whether there was one
func (p Param[T]) Resolve(zone string) (T, bool) {
	if v, ok := p.PerZone[zone]; ok {
		return v, true
	}
	if p.Value != nil {
		return *p.Value, true
	}
	var zero T
	return zero, false
}

// Or resolves zone, falling back to def
func (p Param[T]) Or(zone string, def T) T {
	v, ok := p.Resolve(zone)
	if !ok {
		return def
	}
	return v
}
