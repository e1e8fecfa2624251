package main

import (
	"github.com/spf13/cobra"

	"github.com/voidshard/otter"
	"github.com/voidshard/otter/internal/feature"
)

var scriptOpts struct {
	dir     string
	version int

	towns, industries, canals, signs string

	townHeaders, industryHeaders, canalHeaders, signHeaders string

	info otter.Info
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Write a game script placing towns, industries, canals & signs",
	Long: `Write main.nut, info.nut & version.nut into --dir.

Header flags list columns (names or 0 based positions) in order:
  towns       X,Y,Size,City,Name[,Population]
  industries  X,Y,Name,Type[,TryLevel,LevelX2,LevelY2]
  canals      X,Y
  signs       X,Y,Label`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &otter.Script{}
		warns := []otter.Warning{}

		if scriptOpts.towns != "" {
			tbl, err := otter.ReadTable(scriptOpts.towns)
			if err != nil {
				return err
			}
			towns, w, err := otter.Towns(tbl, townHeaders(scriptOpts.townHeaders))
			if err != nil {
				return err
			}
			s.Towns = towns
			warns = append(warns, w...)
		}
		if scriptOpts.industries != "" {
			tbl, err := otter.ReadTable(scriptOpts.industries)
			if err != nil {
				return err
			}
			inds, w, err := otter.Industries(tbl, industryHeaders(scriptOpts.industryHeaders))
			if err != nil {
				return err
			}
			s.Industries = inds
			warns = append(warns, w...)
		}
		if scriptOpts.canals != "" {
			tbl, err := otter.ReadTable(scriptOpts.canals)
			if err != nil {
				return err
			}
			canals, w, err := otter.Canals(tbl, canalHeaders(scriptOpts.canalHeaders))
			if err != nil {
				return err
			}
			s.Canals = canals
			warns = append(warns, w...)
		}
		if scriptOpts.signs != "" {
			tbl, err := otter.ReadTable(scriptOpts.signs)
			if err != nil {
				return err
			}
			signs, w, err := otter.Signs(tbl, signHeaders(scriptOpts.signHeaders))
			if err != nil {
				return err
			}
			s.Signs = signs
			warns = append(warns, w...)
		}

		if err := otter.WriteGameScript(scriptOpts.dir, s, &scriptOpts.info, scriptOpts.version); err != nil {
			return err
		}
		cmd.Printf("%d placements written to %s\n", len(s.Records()), scriptOpts.dir)
		logWarnings(warns)
		return nil
	},
}

func townHeaders(s string) *otter.TownHeaders {
	h := otter.DefaultTownHeaders()
	refs := headers(s)
	if len(refs) == 5 {
		h.Population = feature.ColumnRef{}
	}
	h.X = header(refs, 0, h.X)
	h.Y = header(refs, 1, h.Y)
	h.Size = header(refs, 2, h.Size)
	h.City = header(refs, 3, h.City)
	h.Name = header(refs, 4, h.Name)
	h.Population = header(refs, 5, h.Population)
	return h
}

func industryHeaders(s string) *otter.IndustryHeaders {
	h := otter.DefaultIndustryHeaders()
	refs := headers(s)
	h.X = header(refs, 0, h.X)
	h.Y = header(refs, 1, h.Y)
	h.Name = header(refs, 2, h.Name)
	h.Type = header(refs, 3, h.Type)
	h.TryLevel = header(refs, 4, h.TryLevel)
	h.LevelX2 = header(refs, 5, h.LevelX2)
	h.LevelY2 = header(refs, 6, h.LevelY2)
	return h
}

func canalHeaders(s string) *otter.CanalHeaders {
	h := otter.DefaultCanalHeaders()
	refs := headers(s)
	h.X = header(refs, 0, h.X)
	h.Y = header(refs, 1, h.Y)
	return h
}

func signHeaders(s string) *otter.SignHeaders {
	h := otter.DefaultSignHeaders()
	refs := headers(s)
	h.X = header(refs, 0, h.X)
	h.Y = header(refs, 1, h.Y)
	h.Text = header(refs, 2, h.Text)
	return h
}

func init() {
	rootCmd.AddCommand(scriptCmd)

	f := scriptCmd.Flags()
	f.StringVarP(&scriptOpts.dir, "dir", "d", ".", "directory to write the script into")
	f.IntVar(&scriptOpts.version, "version", 1, "script version")

	f.StringVar(&scriptOpts.towns, "towns", "", "table of towns")
	f.StringVar(&scriptOpts.industries, "industries", "", "table of industries")
	f.StringVar(&scriptOpts.canals, "canals", "", "table of canal tiles")
	f.StringVar(&scriptOpts.signs, "signs", "", "table of signs")
	f.StringVar(&scriptOpts.townHeaders, "town-headers", "", "town columns")
	f.StringVar(&scriptOpts.industryHeaders, "industry-headers", "", "industry columns")
	f.StringVar(&scriptOpts.canalHeaders, "canal-headers", "", "canal columns")
	f.StringVar(&scriptOpts.signHeaders, "sign-headers", "", "sign columns")

	f.StringVar(&scriptOpts.info.Author, "author", "", "script author")
	f.StringVar(&scriptOpts.info.Name, "name", "", "script name")
	f.StringVar(&scriptOpts.info.ShortName, "short-name", "", "exactly 4 letters")
	f.StringVar(&scriptOpts.info.Description, "description", "", "script description")
	f.StringVar(&scriptOpts.info.Date, "date", "", "release date")
	f.StringVar(&scriptOpts.info.APIVersion, "api-version", otter.DefaultAPIVersion, "game script api version")
	f.StringVar(&scriptOpts.info.URL, "url", "", "script homepage")
	f.StringVar(&scriptOpts.info.Comment, "comment", "", "comment at the top of info.nut")
}
