package otter

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// savePNG to disk
func savePNG(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(fpath, buff.Bytes(), 0644), "write %s", fpath)
}

// extension returns the lower case extension of fpath
func extension(fpath string) string {
	return strings.ToLower(filepath.Ext(fpath))
}

// dirOf returns the directory fpath is in
func dirOf(fpath string) string {
	return filepath.Dir(fpath)
}

// maxint returns the highest of two ints
func maxint(a, b int) int {
	if a > b {
		return a
	}
	return b
}
