package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses a numeric cell. Blank & NaN cells are errors.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// ParseInt parses a whole number cell. Spreadsheets happily hand us "12.0"
// so any fraction is truncated.
func ParseInt(s string) (int, error) {
	v, err := ParseFloat(s)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ParseInts parses a cell holding either one integer or a list of them
// written like "[1, 2, 3]". The bool reports if it was a list.
func ParseInts(s string) ([]int, bool, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		v, err := ParseInt(s)
		if err != nil {
			return nil, false, err
		}
		return []int{v}, false, nil
	}
	if !strings.HasSuffix(s, "]") {
		return nil, true, fmt.Errorf("%q is not a closed list", s)
	}

	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []int{}, true, nil
	}
	out := []int{}
	for _, part := range strings.Split(body, ",") {
		v, err := ParseInt(part)
		if err != nil {
			return nil, true, err
		}
		out = append(out, v)
	}
	return out, true, nil
}

// FormatInts writes a list cell, eg. "[1, 2, 3]"
func FormatInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseBool accepts "true" or "false" in any case
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not true or false", s)
}
