package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/feature"
)

var townsJSONOpts struct {
	in, out       string
	width, height int
	filter        string
	columns       string
}

var townsJSONCmd = &cobra.Command{
	Use:   "towns-json",
	Short: "Convert resolved towns into the scenario editor's town list",
	Long: `Convert resolved towns into the scenario editor's town list.

--columns lists name,population,city,row,col (names or positions).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := parseFilter(townsJSONOpts.filter)
		if err != nil {
			return err
		}
		refs := headers(townsJSONOpts.columns)
		cfg := &otter.TownsJSONConfig{
			Width:      townsJSONOpts.width,
			Height:     townsJSONOpts.height,
			Name:       header(refs, 0, feature.ColumnRef{}),
			Population: header(refs, 1, feature.ColumnRef{}),
			City:       header(refs, 2, feature.ColumnRef{}),
			Row:        header(refs, 3, feature.ColumnRef{}),
			Col:        header(refs, 4, feature.ColumnRef{}),
			Filter:     filter,
		}
		towns, warns, err := otter.WriteTownsJSON(townsJSONOpts.in, townsJSONOpts.out, cfg)
		if err != nil {
			return err
		}
		cmd.Printf("%d towns written to %s\n", len(towns), townsJSONOpts.out)
		logWarnings(warns)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(townsJSONCmd)

	townsJSONCmd.Flags().StringVarP(&townsJSONOpts.in, "in", "i", "", "resolved towns table")
	townsJSONCmd.Flags().StringVarP(&townsJSONOpts.out, "out", "o", "towns.json", "output .json")
	townsJSONCmd.Flags().IntVar(&townsJSONOpts.width, "width", 0, "map width in tiles")
	townsJSONCmd.Flags().IntVar(&townsJSONOpts.height, "height", 0, "map height in tiles")
	townsJSONCmd.Flags().StringVar(&townsJSONOpts.filter, "filter", "", "only rows where column=value")
	townsJSONCmd.Flags().StringVar(&townsJSONOpts.columns, "columns", "", "column names")
}
