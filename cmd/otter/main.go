// Command otter moves features between real world coordinates & OpenTTD
// heightmap tiles, edits heightmaps & writes game scripts.
package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "otter",
	Short:         "OpenTTD heightmap toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var rasterPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&rasterPath, "raster", "r", os.Getenv("OTTER_RASTER"), "heightmap raster (.asc .png .tif .bmp), default $OTTER_RASTER")
}

// envSeed returns OTTER_SEED or 0 (random)
func envSeed() int64 {
	v, err := strconv.ParseInt(os.Getenv("OTTER_SEED"), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// requireRaster fails if no raster was given by flag or env
func requireRaster() error {
	if rasterPath == "" {
		return &otter.ConfigError{Field: "raster", Msg: "set --raster or OTTER_RASTER"}
	}
	return nil
}

// logWarnings summarises skipped rows; each was logged as it happened
func logWarnings(ws []otter.Warning) {
	if len(ws) > 0 {
		logger.L().Warn("finished with warnings", "count", len(ws))
	}
}

func main() {
	_ = godotenv.Load(".env")
	log := logger.Setup()

	if err := rootCmd.Execute(); err != nil {
		log.Error("command_failed", "err", err, "config", otter.IsConfigError(err))
		os.Exit(1)
	}
}
