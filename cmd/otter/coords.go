package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/raster"
)

var coordsOpts struct {
	in         string
	out        string
	lat, long  string
	points     []string
	filter     string
	allTouched bool
}

var coordsCmd = &cobra.Command{
	Use:   "coords",
	Short: "Find the map tiles of features",
	Long: `Find the 1 based map tiles each feature covers.

Features come from --in (.csv .txt .xlsx need --lat & --long columns;
.shp .geojson .json carry their own geometry) or from --point lon,lat.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		filter, err := parseFilter(coordsOpts.filter)
		if err != nil {
			return err
		}
		cfg := &otter.ResolveConfig{Filter: filter, AllTouched: coordsOpts.allTouched}

		var res *otter.Resolution
		if len(coordsOpts.points) > 0 {
			pairs, err := parseLonLat(coordsOpts.points)
			if err != nil {
				return err
			}
			r, err := raster.Read(rasterPath)
			if err != nil {
				return err
			}
			res, err = otter.Resolve(r, otter.LongLat(pairs), cfg)
			if err != nil {
				return err
			}
			for _, gc := range res.Coords {
				cmd.Printf("%v\t%v\twater=%t\n", gc.Rows, gc.Cols, gc.IsWater)
			}
		} else {
			src := otter.File(coordsOpts.in, feature.ParseColumnRef(coordsOpts.lat), feature.ParseColumnRef(coordsOpts.long))
			res, err = otter.ResolveFile(rasterPath, src, coordsOpts.out, cfg)
			if err != nil {
				return err
			}
		}
		logWarnings(res.Warnings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coordsCmd)

	coordsCmd.Flags().StringVarP(&coordsOpts.in, "in", "i", "", "input features")
	coordsCmd.Flags().StringVarP(&coordsOpts.out, "out", "o", "", "output table (.csv .txt .xlsx .geojson .json)")
	coordsCmd.Flags().StringVar(&coordsOpts.lat, "lat", "", "latitude column (name or position)")
	coordsCmd.Flags().StringVar(&coordsOpts.long, "long", "", "longitude column (name or position)")
	coordsCmd.Flags().StringArrayVarP(&coordsOpts.points, "point", "p", nil, "lon,lat (repeatable)")
	coordsCmd.Flags().StringVar(&coordsOpts.filter, "filter", "", "only rows where column=value")
	coordsCmd.Flags().BoolVar(&coordsOpts.allTouched, "all-touched", false, "polygons cover every cell their outline touches")
}
