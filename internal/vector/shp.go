package vector

import (
	"os"
	"strings"

	"github.com/ctessum/geom/encoding/shp"
	"github.com/pkg/errors"

	"github.com/voidshard/otter/internal/feature"
)

// ReadShapefile loads every record of a shapefile with all its attribute
// columns. The CRS is the contents of the .prj next to it, if any.
func ReadShapefile(fpath string) (*feature.Set, string, error) {
	d, err := shp.NewDecoder(fpath)
	if err != nil {
		return nil, "", errors.Wrapf(err, "open shapefile %s", fpath)
	}
	defer d.Close()

	fields := d.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}

	s := feature.NewSet(names...)
	for {
		g, attrs, more := d.DecodeRowFields(names...)
		if !more {
			break
		}
		vals := make([]string, len(names))
		for i, n := range names {
			vals[i] = strings.TrimSpace(attrs[n])
		}
		s.Add(vals, g)
	}
	if err := d.Error(); err != nil {
		return nil, "", errors.Wrapf(err, "decode shapefile %s", fpath)
	}

	return s, readPrj(fpath), nil
}

func readPrj(fpath string) string {
	prj := strings.TrimSuffix(fpath, ".shp") + ".prj"
	data, err := os.ReadFile(prj)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
