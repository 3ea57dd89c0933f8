package dataset

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Row maps a raw column name to its value. Values may be any numeric kind or
// numeric text.
type Row map[string]any

// Table is a rectangular set of rows with an ordered header.
type Table struct {
	Columns []string
	Rows    []Row
}

// NormalizeColumnName lower-cases s and drops every rune that is not a
// letter or digit.
func NormalizeColumnName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// columnIndex maps normalized names to the first raw column carrying them.
func columnIndex(columns []string) map[string]string {
	idx := make(map[string]string, len(columns))
	for _, c := range columns {
		n := NormalizeColumnName(c)
		if _, ok := idx[n]; !ok {
			idx[n] = c
		}
	}
	return idx
}

// toFloat coerces a cell to a finite float64.
func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
