package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/feature"
	"github.com/voidshard/otter/internal/raster"
)

var previewOpts struct {
	in, out   string
	lat, long string
	scale     int
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw the heightmap with features marked on it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		r, err := raster.Read(rasterPath)
		if err != nil {
			return err
		}

		coords := []*otter.GridCoordinate{}
		if previewOpts.in != "" {
			src := otter.File(previewOpts.in, feature.ParseColumnRef(previewOpts.lat), feature.ParseColumnRef(previewOpts.long))
			res, err := otter.Resolve(r, src, nil)
			if err != nil {
				return err
			}
			coords = res.Coords
			logWarnings(res.Warnings)
		}
		return otter.Preview(r, coords, otter.DefaultScheme(), previewOpts.scale, previewOpts.out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewOpts.in, "in", "i", "", "features to mark")
	previewCmd.Flags().StringVarP(&previewOpts.out, "out", "o", "preview.png", "output .png")
	previewCmd.Flags().StringVar(&previewOpts.lat, "lat", "", "latitude column")
	previewCmd.Flags().StringVar(&previewOpts.long, "long", "", "longitude column")
	previewCmd.Flags().IntVarP(&previewOpts.scale, "scale", "s", 1, "pixels per tile")
}
