package otter

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"gonum.org/v1/gonum/mat"

	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/logger"
	"github.com/voidshard/otter/internal/mask"
	"github.com/voidshard/otter/internal/raster"
	"github.com/voidshard/otter/internal/vector"
)

const (
	defaultMaxAttempts = 1000
	defaultSeeds       = 2
)

// zone is every geometry sharing one zone id
type zone struct {
	id    string
	row   int // first row with this id, whose attributes are copied out
	parts geom.GeometryCollection
	env   r2.Rect
	area  float64
}

func (z *zone) contains(x, y float64) bool {
	return mask.Contains(z.parts, geom.Point{X: x, Y: y})
}

// zonePlan is the fully resolved settings for one zone
type zonePlan struct {
	z      *zone
	method SampleMethod
	size   int

	// drawn means the point count comes from a poisson distribution with
	// mean lambda rather than size
	drawn  bool
	lambda float64

	gauss  *gaussian
	seeds  int
	radius float64
}

// SampleZones generates random points inside each zone of zones. Rows
// sharing a value in zoneColumn form one zone.
//
// The result has one point per row carrying the attributes of the zone it
// was generated in. Settings are checked for every zone before any points
// are made; a zone with no Size is a ConfigError naming it.
func SampleZones(zones *feature.Set, zoneColumn string, cfg *SampleConfig) (*feature.Set, []Warning, error) {
	if cfg == nil {
		cfg = &SampleConfig{}
	}
	warn := warnings{}

	all, err := groupZones(zones, zoneColumn, &warn)
	if err != nil {
		return nil, nil, err
	}

	plans := []*zonePlan{}
	for _, z := range all {
		p, err := planZone(z, cfg, &warn)
		if err != nil {
			return nil, nil, err
		}
		plans = append(plans, p)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	out := feature.NewSet(zones.Columns...)
	for _, p := range plans {
		target := p.count(rng)
		pts := p.sample(rng, target, attempts)
		if len(pts) < target {
			warn.add(-1, "zone "+p.z.id, "only placed %d of %d points", len(pts), target)
		}
		for _, pt := range pts {
			out.Add(zones.Rows[p.z.row].Values, pt)
		}
		logger.L().Debug("sampled zone", "zone", p.z.id, "method", p.method, "points", len(pts))
	}
	return out, warn, nil
}

// groupZones collects rows into zones, in order of first appearance
func groupZones(zones *feature.Set, zoneColumn string, warn *warnings) ([]*zone, error) {
	idx := zones.Index(zoneColumn)
	if idx < 0 {
		return nil, configError("zone column", "%q is not a column", zoneColumn)
	}

	byID := map[string]*zone{}
	order := []*zone{}
	for i, row := range zones.Rows {
		if err := mask.Validate(row.Geom); err != nil {
			warn.add(i, "", "zone geometry skipped: %v", err)
			continue
		}
		id := strings.TrimSpace(zones.Value(i, idx))
		z, ok := byID[id]
		if !ok {
			z = &zone{id: id, row: i}
			byID[id] = z
			order = append(order, z)
		}
		z.parts = append(z.parts, row.Geom)
	}

	for _, z := range order {
		z.env = mask.Envelope(z.parts)
		z.area = mask.Area(z.parts)
	}
	if len(order) == 0 {
		return nil, ErrNoFeatures
	}
	return order, nil
}

// planZone resolves every setting for z
func planZone(z *zone, cfg *SampleConfig, warn *warnings) (*zonePlan, error) {
	subject := "zone " + z.id
	p := &zonePlan{z: z}

	method, ok := cfg.Method.Resolve(z.id)
	if !ok || method == "" {
		warn.add(-1, subject, "no method given, using %s", Uniform)
		method = Uniform
	}
	if !method.Valid() {
		return nil, configError("method", "zone %s: %q is not one of %v", z.id, method, AllSampleMethods())
	}
	p.method = method

	size, ok := cfg.Size.Resolve(z.id)
	if !ok {
		return nil, configError("size", "required for zone %s (%s)", z.id, method)
	}
	if size < 0 {
		return nil, configError("size", "zone %s: must not be negative", z.id)
	}
	p.size = size

	if z.area <= 0 {
		if size > 0 {
			warn.add(-1, subject, "zone has no area, no points placed")
		}
		p.size = 0
		return p, nil
	}

	if intensity, ok := cfg.Intensity.Resolve(z.id); ok && (method == Poisson || method == ClusterPoisson) {
		if intensity < 0 {
			return nil, configError("intensity", "zone %s: must not be negative", z.id)
		}
		p.drawn = true
		p.lambda = intensity * z.area
	}

	if method.clustered() {
		p.seeds = cfg.NSeeds.Or(z.id, defaultSeeds)
		if p.seeds < 1 {
			return nil, configError("n_seeds", "zone %s: must be at least 1", z.id)
		}
		radius := cfg.ClusterRadius.Or(z.id, math.Min(z.env.X.Length(), z.env.Y.Length())/10)
		if radius <= 0 {
			return nil, configError("cluster_radius", "zone %s: must be positive", z.id)
		}
		p.radius = radius
	}

	if method == Normal || method == ClusterNormal {
		std := [2]float64{z.env.X.Length() / 4, z.env.Y.Length() / 4}
		if method == ClusterNormal {
			std = [2]float64{p.radius, p.radius}
		}
		cov := cfg.Cov.Or(z.id, [2][2]float64{{std[0] * std[0], 0}, {0, std[1] * std[1]}})
		centre := cfg.Center.Or(z.id, [2]float64{z.env.Center().X, z.env.Center().Y})
		g, err := newGaussian(centre, cov)
		if err != nil {
			return nil, configError("cov", "zone %s: %v", z.id, err)
		}
		p.gauss = g
	}
	return p, nil
}

// count returns how many points to place
func (p *zonePlan) count(rng *rand.Rand) int {
	if p.drawn {
		return poissonCount(rng, p.lambda)
	}
	return p.size
}

// sample places up to n points, giving up on a point after attempts
// misses.
func (p *zonePlan) sample(rng *rand.Rand, n, attempts int) []geom.Geom {
	out := []geom.Geom{}
	if n <= 0 {
		return out
	}

	var draw func() (float64, float64, bool)
	switch p.method {
	case Normal:
		draw = func() (float64, float64, bool) {
			x, y := p.gauss.sample(rng)
			return x, y, true
		}
	case ClusterPoisson:
		discs := p.discs(rng, attempts)
		if discs == nil {
			return out
		}
		lo, hi := discs.Min(), discs.Max()
		draw = func() (float64, float64, bool) {
			c := model2d.Coord{X: lo.X + rng.Float64()*(hi.X-lo.X), Y: lo.Y + rng.Float64()*(hi.Y-lo.Y)}
			return c.X, c.Y, discs.Contains(c)
		}
	case ClusterNormal:
		return p.sampleClusterNormal(rng, n, attempts)
	default:
		draw = func() (float64, float64, bool) {
			return p.uniform(rng)
		}
	}

	for len(out) < n {
		pt, ok := p.try(draw, attempts)
		if !ok {
			break
		}
		out = append(out, pt)
	}
	return out
}

// try calls draw until it yields a point inside the zone
func (p *zonePlan) try(draw func() (float64, float64, bool), attempts int) (geom.Point, bool) {
	for i := 0; i < attempts; i++ {
		x, y, ok := draw()
		if ok && p.z.contains(x, y) {
			return geom.Point{X: x, Y: y}, true
		}
	}
	return geom.Point{}, false
}

// uniform returns a point anywhere in the zone's bounding box
func (p *zonePlan) uniform(rng *rand.Rand) (float64, float64, bool) {
	env := p.z.env
	return env.X.Lo + rng.Float64()*env.X.Length(), env.Y.Lo + rng.Float64()*env.Y.Length(), true
}

// seedPoints places the cluster centres inside the zone
func (p *zonePlan) seedPoints(rng *rand.Rand, attempts int) []model2d.Coord {
	seeds := []model2d.Coord{}
	for len(seeds) < p.seeds {
		pt, ok := p.try(func() (float64, float64, bool) { return p.uniform(rng) }, attempts)
		if !ok {
			break
		}
		seeds = append(seeds, model2d.Coord{X: pt.X, Y: pt.Y})
	}
	return seeds
}

// discs returns a circle of the cluster radius around each seed
func (p *zonePlan) discs(rng *rand.Rand, attempts int) model2d.JoinedSolid {
	seeds := p.seedPoints(rng, attempts)
	if len(seeds) == 0 {
		return nil
	}
	out := model2d.JoinedSolid{}
	for _, s := range seeds {
		out = append(out, &model2d.Circle{Center: s, Radius: p.radius})
	}
	return out
}

// sampleClusterNormal scatters points around seeds chosen at random.
// Seeds that keep missing the zone are dropped.
func (p *zonePlan) sampleClusterNormal(rng *rand.Rand, n, attempts int) []geom.Geom {
	out := []geom.Geom{}
	seeds := p.seedPoints(rng, attempts)
	for len(out) < n && len(seeds) > 0 {
		i := rng.Intn(len(seeds))
		s := seeds[i]
		pt, ok := p.try(func() (float64, float64, bool) {
			x, y := p.gauss.around(rng, s.X, s.Y)
			return x, y, true
		}, attempts)
		if !ok {
			essentials.UnorderedDelete(&seeds, i)
			continue
		}
		out = append(out, pt)
	}
	return out
}

// gaussian is a 2D normal distribution
type gaussian struct {
	mean [2]float64
	l    mat.TriDense // lower cholesky factor of the covariance
}

func newGaussian(mean [2]float64, cov [2][2]float64) (*gaussian, error) {
	if cov[0][1] != cov[1][0] {
		return nil, ErrBadValue
	}
	sym := mat.NewSymDense(2, []float64{cov[0][0], cov[0][1], cov[1][0], cov[1][1]})
	var ch mat.Cholesky
	if ok := ch.Factorize(sym); !ok {
		return nil, mat.ErrNotPSD
	}
	g := &gaussian{mean: mean}
	ch.LTo(&g.l)
	return g, nil
}

// sample returns a point around the mean
func (g *gaussian) sample(rng *rand.Rand) (float64, float64) {
	return g.around(rng, g.mean[0], g.mean[1])
}

// around returns a point with the same spread centred on (mx, my)
func (g *gaussian) around(rng *rand.Rand, mx, my float64) (float64, float64) {
	z := mat.NewVecDense(2, []float64{rng.NormFloat64(), rng.NormFloat64()})
	var v mat.VecDense
	v.MulVec(&g.l, z)
	return mx + v.AtVec(0), my + v.AtVec(1)
}

// poissonCount draws from a poisson distribution with mean lambda.
// Large means use the normal approximation.
func poissonCount(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda > 500 {
		return int(math.Max(0, math.Round(lambda+math.Sqrt(lambda)*rng.NormFloat64())))
	}
	limit := math.Exp(-lambda)
	k := 0
	prod := rng.Float64()
	for prod > limit {
		k++
		prod *= rng.Float64()
	}
	return k
}

// CreateRandomPoints samples points in the zones of zonesPath & resolves
// them against the raster. Configuration is fully checked before the
// raster is read. The result is written to outPath if given.
func CreateRandomPoints(rasterPath, zonesPath, zoneColumn, outPath string, cfg *SampleConfig, rcfg *ResolveConfig) (*Resolution, error) {
	if rcfg == nil {
		rcfg = &ResolveConfig{}
	}
	if outPath != "" {
		if err := checkTableOutput(outPath); err != nil {
			return nil, err
		}
	}
	if !vector.Supported(zonesPath) {
		return nil, configError("zones", "%s must be a .shp, .geojson or .json file", zonesPath)
	}

	zones, crs, err := vector.Read(zonesPath)
	if err != nil {
		return nil, err
	}
	zones, err = applyFilter(zones, rcfg.Filter)
	if err != nil {
		return nil, err
	}

	points, warns, err := SampleZones(zones, zoneColumn, cfg)
	if err != nil {
		return nil, err
	}

	r, err := raster.Read(rasterPath)
	if err != nil {
		return nil, err
	}
	res, err := resolveSet(r, Features(points, crs), points, rcfg)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warns, res.Warnings...)

	if outPath == "" {
		return res, nil
	}
	return res, writeTable(outPath, res.Set)
}
