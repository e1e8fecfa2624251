package otter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/raster"
)

// DefaultAPIVersion of the game script API we target
const DefaultAPIVersion = "1.11"

var (
	mainTmpl    = template.Must(template.New("main.nut").Parse(mainTemplate))
	infoTmpl    = template.Must(template.New("info.nut").Funcs(template.FuncMap{"quote": quote}).Parse(infoTemplate))
	versionTmpl = template.Must(template.New("version.nut").Parse(versionTemplate))
)

// Script is everything placed when the game starts. Each list is
// placed in order; empty lists are left out of the script entirely.
type Script struct {
	Towns      []*Town
	Industries []*Industry
	Canals     []*Canal
	Signs      []*Sign
}

// Records returns every placement in script order
func (s *Script) Records() []PlacementRecord {
	out := []PlacementRecord{}
	for _, t := range s.Towns {
		out = append(out, t)
	}
	for _, i := range s.Industries {
		out = append(out, i)
	}
	for _, c := range s.Canals {
		out = append(out, c)
	}
	for _, g := range s.Signs {
		out = append(out, g)
	}
	return out
}

// RenderMain writes main.nut for s
func RenderMain(w io.Writer, s *Script) error {
	if s == nil {
		s = &Script{}
	}
	return mainTmpl.Execute(w, s)
}

// RenderInfo writes info.nut. The short name must be exactly 4 letters.
func RenderInfo(w io.Writer, info *Info) error {
	if err := validateInfo(info); err != nil {
		return err
	}
	data := *info
	if data.Version == "" {
		data.Version = "SELF_VERSION"
	}
	if data.APIVersion == "" {
		data.APIVersion = DefaultAPIVersion
	}
	data.Comment = strings.ReplaceAll(data.Comment, "\n", "\n * ")
	return infoTmpl.Execute(w, &data)
}

// RenderVersion writes version.nut
func RenderVersion(w io.Writer, version int) error {
	return versionTmpl.Execute(w, version)
}

func validateInfo(info *Info) error {
	if info == nil {
		return configError("info", "required")
	}
	if utf8.RuneCountInString(info.ShortName) != 4 {
		return configError("short name", "%q must be exactly 4 letters", info.ShortName)
	}
	for _, r := range info.ShortName {
		if !unicode.IsLetter(r) {
			return configError("short name", "%q must be exactly 4 letters", info.ShortName)
		}
	}
	return nil
}

// WriteMainNut writes dir/main.nut; dir must exist
func WriteMainNut(dir string, s *Script) error {
	return writeScriptFile(dir, "main.nut", func(w io.Writer) error { return RenderMain(w, s) })
}

// WriteInfoNut writes dir/info.nut; dir must exist
func WriteInfoNut(dir string, info *Info) error {
	if err := validateInfo(info); err != nil {
		return err
	}
	return writeScriptFile(dir, "info.nut", func(w io.Writer) error { return RenderInfo(w, info) })
}

// WriteVersionNut writes dir/version.nut; dir must exist
func WriteVersionNut(dir string, version int) error {
	return writeScriptFile(dir, "version.nut", func(w io.Writer) error { return RenderVersion(w, version) })
}

// WriteGameScript writes all three script files. Everything is checked
// & rendered before the first file is written.
func WriteGameScript(dir string, s *Script, info *Info, version int) error {
	if err := validateInfo(info); err != nil {
		return err
	}
	if err := checkDirectory(dir); err != nil {
		return err
	}

	files := map[string]*bytes.Buffer{}
	for name, render := range map[string]func(io.Writer) error{
		"main.nut":    func(w io.Writer) error { return RenderMain(w, s) },
		"info.nut":    func(w io.Writer) error { return RenderInfo(w, info) },
		"version.nut": func(w io.Writer) error { return RenderVersion(w, version) },
	} {
		buf := new(bytes.Buffer)
		if err := render(buf); err != nil {
			return errors.Wrapf(err, "render %s", name)
		}
		files[name] = buf
	}

	for name, buf := range files {
		fpath := filepath.Join(dir, name)
		if err := os.WriteFile(fpath, buf.Bytes(), 0644); err != nil {
			return errors.Wrapf(err, "write %s", fpath)
		}
	}
	return nil
}

// writeScriptFile renders into memory then writes dir/name
func writeScriptFile(dir, name string, render func(io.Writer) error) error {
	if err := checkDirectory(dir); err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := render(buf); err != nil {
		return errors.Wrapf(err, "render %s", name)
	}
	fpath := filepath.Join(dir, name)
	return errors.Wrapf(os.WriteFile(fpath, buf.Bytes(), 0644), "write %s", fpath)
}

// checkDirectory returns ErrNoDirectory if dir is not an existing directory
func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Wrapf(raster.ErrNoDirectory, "%s", dir)
	}
	return nil
}
