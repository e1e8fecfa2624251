package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/raster"
)

var latLongOpts struct {
	in        string
	out       string
	row, col  string
	zeroBased bool
	filter    string
	tile      []int
}

var latLongCmd = &cobra.Command{
	Use:   "latlong",
	Short: "Find the map position of tiles",
	Long: `Find the map position (longitude, latitude) of the centre of tiles,
either one --tile row,col or every row of --in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		if len(latLongOpts.tile) == 2 {
			r, err := raster.Read(rasterPath)
			if err != nil {
				return err
			}
			found, warns := otter.LatLongFromGrid(r, [][2]int{{latLongOpts.tile[0], latLongOpts.tile[1]}}, latLongOpts.zeroBased)
			for _, ll := range found {
				cmd.Printf("%g\t%g\n", ll.Longitude, ll.Latitude)
			}
			logWarnings(warns)
			return nil
		}

		filter, err := parseFilter(latLongOpts.filter)
		if err != nil {
			return err
		}
		cfg := &otter.LatLongConfig{ZeroBased: latLongOpts.zeroBased, Filter: filter}
		if latLongOpts.row != "" {
			cfg.Row = feature.ParseColumnRef(latLongOpts.row)
		}
		if latLongOpts.col != "" {
			cfg.Col = feature.ParseColumnRef(latLongOpts.col)
		}
		_, warns, err := otter.LatLongFile(rasterPath, latLongOpts.in, latLongOpts.out, cfg)
		if err != nil {
			return err
		}
		logWarnings(warns)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(latLongCmd)

	latLongCmd.Flags().StringVarP(&latLongOpts.in, "in", "i", "", "table of tiles")
	latLongCmd.Flags().StringVarP(&latLongOpts.out, "out", "o", "", "output table")
	latLongCmd.Flags().StringVar(&latLongOpts.row, "row", "", "row column (default row)")
	latLongCmd.Flags().StringVar(&latLongOpts.col, "col", "", "col column (default col)")
	latLongCmd.Flags().BoolVar(&latLongOpts.zeroBased, "zero-based", false, "rows & cols are raster indexes, not game tiles")
	latLongCmd.Flags().StringVar(&latLongOpts.filter, "filter", "", "only rows where column=value")
	latLongCmd.Flags().IntSliceVarP(&latLongOpts.tile, "tile", "t", nil, "a single row,col")
}
