package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
)

var sampleOpts struct {
	zones   string
	column  string
	out     string
	filter  string
	seed    int64
	method  string
	size    string
	rate    string
	center  string
	cov     string
	nseeds  string
	radius  string
	retries int
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Scatter random points in zones & find their tiles",
	Long: `Scatter random points in the zones of --zones & find their tiles.

Settings apply to every zone ("50"), to named zones ("north=50,south=10")
or both ("10,north=50"). Points take "x:y", covariance "a:b:c:d".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		cfg, err := sampleConfig()
		if err != nil {
			return err
		}
		filter, err := parseFilter(sampleOpts.filter)
		if err != nil {
			return err
		}
		res, err := otter.CreateRandomPoints(rasterPath, sampleOpts.zones, sampleOpts.column, sampleOpts.out, cfg, &otter.ResolveConfig{Filter: filter})
		if err != nil {
			return err
		}
		cmd.Printf("%d points placed\n", len(res.Coords))
		logWarnings(res.Warnings)
		return nil
	},
}

func sampleConfig() (*otter.SampleConfig, error) {
	var err error
	cfg := &otter.SampleConfig{Seed: sampleOpts.seed, MaxAttempts: sampleOpts.retries}
	if cfg.Seed == 0 {
		cfg.Seed = envSeed()
	}
	if cfg.Method, err = parseParam("method", sampleOpts.method, parseMethod); err != nil {
		return nil, err
	}
	if cfg.Size, err = parseParam("size", sampleOpts.size, strconv.Atoi); err != nil {
		return nil, err
	}
	parseFloat := func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	if cfg.Intensity, err = parseParam("intensity", sampleOpts.rate, parseFloat); err != nil {
		return nil, err
	}
	if cfg.Center, err = parseParam("center", sampleOpts.center, parsePoint); err != nil {
		return nil, err
	}
	if cfg.Cov, err = parseParam("cov", sampleOpts.cov, parseCov); err != nil {
		return nil, err
	}
	if cfg.NSeeds, err = parseParam("n_seeds", sampleOpts.nseeds, strconv.Atoi); err != nil {
		return nil, err
	}
	if cfg.ClusterRadius, err = parseParam("cluster_radius", sampleOpts.radius, parseFloat); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	f := sampleCmd.Flags()
	f.StringVarP(&sampleOpts.zones, "zones", "z", "", "zone polygons (.shp .geojson .json)")
	f.StringVarP(&sampleOpts.column, "zone-column", "c", "zone", "column naming each zone")
	f.StringVarP(&sampleOpts.out, "out", "o", "", "output table")
	f.StringVar(&sampleOpts.filter, "filter", "", "only zones where column=value")
	f.Int64Var(&sampleOpts.seed, "seed", 0, "random seed, default $OTTER_SEED or random")
	f.StringVarP(&sampleOpts.method, "method", "m", "", "uniform, poisson, normal, cluster_poisson or cluster_normal")
	f.StringVarP(&sampleOpts.size, "size", "n", "", "number of points (required)")
	f.StringVar(&sampleOpts.rate, "intensity", "", "points per square unit (poisson methods)")
	f.StringVar(&sampleOpts.center, "center", "", "centre of normal distributions x:y")
	f.StringVar(&sampleOpts.cov, "cov", "", "covariance of normal distributions a:b:c:d")
	f.StringVar(&sampleOpts.nseeds, "n-seeds", "", "number of cluster centres")
	f.StringVar(&sampleOpts.radius, "cluster-radius", "", "cluster radius in map units")
	f.IntVar(&sampleOpts.retries, "max-attempts", 0, "tries per point before giving up")
}
