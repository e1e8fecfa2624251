package affine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteWorldFile writes t as a six line ESRI world file.
// World files reference the centre of the top left cell, not its corner.
func (t Affine) WriteWorldFile(w io.Writer) error {
	cx, cy := t.Forward(0.5, 0.5)
	for _, v := range []float64{t.A, t.D, t.B, t.E, cx, cy} {
		if _, err := fmt.Fprintln(w, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}

// ReadWorldFile parses a six line ESRI world file.
func ReadWorldFile(r io.Reader) (Affine, error) {
	vals := []float64{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return Affine{}, fmt.Errorf("world file line %d: %w", len(vals)+1, err)
		}
		vals = append(vals, v)
	}
	if err := scanner.Err(); err != nil {
		return Affine{}, err
	}
	if len(vals) != 6 {
		return Affine{}, fmt.Errorf("world file needs 6 values, got %d", len(vals))
	}

	t := Affine{A: vals[0], D: vals[1], B: vals[2], E: vals[3]}
	// shift from the centre of the top left cell back to its corner
	t.C = vals[4] - 0.5*t.A - 0.5*t.B
	t.F = vals[5] - 0.5*t.D - 0.5*t.E
	return t, nil
}
