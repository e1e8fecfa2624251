package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
)

var georefOpts struct {
	image string
	out   string
	crs   string
	scale string
}

var georefCmd = &cobra.Command{
	Use:   "georef",
	Short: "Stretch an image over the extent of --raster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRaster(); err != nil {
			return err
		}
		out, err := otter.Georeference(rasterPath, georefOpts.image, georefOpts.out, &otter.GeorefConfig{
			CRS:   georefOpts.crs,
			Scale: georefOpts.scale,
		})
		if err != nil {
			return err
		}
		cmd.Println(out.Transform.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(georefCmd)

	georefCmd.Flags().StringVarP(&georefOpts.image, "image", "i", "", "image to georeference (.png .tif .bmp)")
	georefCmd.Flags().StringVarP(&georefOpts.out, "out", "o", "", "output raster (.asc .png .tif)")
	georefCmd.Flags().StringVar(&georefOpts.crs, "crs", otter.DefaultCRS, "CRS recorded with the output")
	georefCmd.Flags().StringVar(&georefOpts.scale, "scale", "", "expected image size WIDTHxHEIGHT")
}
