package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
)

var editOpts struct {
	vector     string
	out        string
	filter     string
	buffer     float64
	allTouched bool
	elevation  float64
}

func editConfig() (*otter.EditConfig, error) {
	filter, err := parseFilter(editOpts.filter)
	if err != nil {
		return nil, err
	}
	return &otter.EditConfig{Filter: filter, Buffer: editOpts.buffer, AllTouched: editOpts.allTouched}, nil
}

var addWaterCmd = &cobra.Command{
	Use:   "add-water",
	Short: "Lower the tiles under vector features to sea level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		cfg, err := editConfig()
		if err != nil {
			return err
		}
		report, err := otter.AddWater(rasterPath, editOpts.vector, editOpts.out, cfg)
		if err != nil {
			return err
		}
		cmd.Printf("%d tiles set to sea level\n", report.Cells)
		logWarnings(report.Warnings)
		return nil
	},
}

var addLandCmd = &cobra.Command{
	Use:   "add-land",
	Short: "Raise the tiles under vector features to an elevation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		cfg, err := editConfig()
		if err != nil {
			return err
		}
		report, err := otter.AddLand(rasterPath, editOpts.vector, editOpts.out, editOpts.elevation, cfg)
		if err != nil {
			return err
		}
		cmd.Printf("%d tiles set to %g\n", report.Cells, editOpts.elevation)
		logWarnings(report.Warnings)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{addWaterCmd, addLandCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&editOpts.vector, "vector", "v", "", "features to burn in (.shp .geojson .json)")
		c.Flags().StringVarP(&editOpts.out, "out", "o", "", "output raster (.asc .png .tif)")
		c.Flags().StringVar(&editOpts.filter, "filter", "", "only features where column=value")
		c.Flags().Float64VarP(&editOpts.buffer, "buffer", "b", 0, "grow features by this many tiles")
		c.Flags().BoolVar(&editOpts.allTouched, "all-touched", false, "polygons cover every cell their outline touches")
	}
	addLandCmd.Flags().Float64VarP(&editOpts.elevation, "elevation", "e", 1, "height to raise land to")
}
