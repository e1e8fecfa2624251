package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/voidshard/otter/internal/feature"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than .csv .txt & .xlsx
	ErrUnsupportedFormat = fmt.Errorf("unsupported table format")
)

// Supported returns if we can read & write fpath
func Supported(fpath string) bool {
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".csv", ".txt", ".xlsx":
		return true
	}
	return false
}

// Read loads a table from a CSV or XLSX file. The first row is the header.
func Read(fpath string) (*feature.Set, error) {
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".csv", ".txt":
		f, err := os.Open(fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "open table %s", fpath)
		}
		defer f.Close()
		s, err := ReadCSV(f)
		return s, errors.Wrapf(err, "read %s", fpath)
	case ".xlsx":
		return ReadXLSX(fpath)
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "read %s", fpath)
}

// Write saves a table as CSV or XLSX. Geometries are not written.
func Write(fpath string, s *feature.Set) error {
	buf := new(bytes.Buffer)
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".csv", ".txt":
		if err := WriteCSV(buf, s); err != nil {
			return errors.Wrapf(err, "encode %s", fpath)
		}
	case ".xlsx":
		data, err := encodeXLSX(s)
		if err != nil {
			return errors.Wrapf(err, "encode %s", fpath)
		}
		buf = data
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "write %s", fpath)
	}
	return errors.Wrapf(os.WriteFile(fpath, buf.Bytes(), 0644), "write %s", fpath)
}

// ReadCSV reads a CSV table. Ragged rows are padded / truncated to the
// header.
func ReadCSV(in io.Reader) (*feature.Set, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table is empty")
	} else if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	s := feature.NewSet(header...)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		s.Add(rec, nil)
	}
	return s, nil
}

// WriteCSV writes the table with a header row
func WriteCSV(out io.Writer, s *feature.Set) error {
	w := csv.NewWriter(out)
	if err := w.Write(s.Columns); err != nil {
		return err
	}
	for _, row := range s.Rows {
		if err := w.Write(row.Values); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(fpath string) (*feature.Set, error) {
	f, err := excelize.OpenFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", fpath)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", fpath)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s of %s", sheets[0], fpath)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s of %s is empty", sheets[0], fpath)
	}

	s := feature.NewSet(rows[0]...)
	for _, rec := range rows[1:] {
		s.Add(rec, nil)
	}
	return s, nil
}

// encodeXLSX renders the table as a single sheet workbook. Cells that look
// like numbers are stored as numbers.
func encodeXLSX(s *feature.Set) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range s.Rows {
		cells := make([]interface{}, len(row.Values))
		for j, v := range row.Values {
			cells[j] = xlsxValue(v)
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

func xlsxValue(v string) interface{} {
	if v == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil && !strings.ContainsAny(v, "xXnN") {
		return n
	}
	return v
}
