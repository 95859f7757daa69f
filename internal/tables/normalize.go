// Package tables normalizes raw extracted tables and detects text-aligned
// grids on a page.
package tables

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a normalized table: rows of trimmed cell strings. Rows may have
// different lengths.
type Table [][]string

// NormalizeCell converts one raw cell to a trimmed string. Missing cells
// become the empty string.
func NormalizeCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	case []byte:
		return strings.TrimSpace(string(v))
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// formatFloat renders floats the way table extractors print them: integral
// values keep a trailing ".0" and very large or small magnitudes switch to
// exponent form.
func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, bitSize)
	}

	s := strconv.FormatFloat(v, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// NormalizeTable normalizes every cell of raw and reports whether the result
// holds at least one non-empty cell. Row and column structure is preserved.
func NormalizeTable(raw [][]any) (Table, bool) {
	table := make(Table, len(raw))
	hasContent := false
	for i, row := range raw {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = NormalizeCell(cell)
			if cells[j] != "" {
				hasContent = true
			}
		}
		table[i] = cells
	}
	return table, hasContent
}

// Normalize normalizes a page's raw tables and drops the ones with no
// non-empty cell. Input order is kept.
func Normalize(raw [][][]any) []Table {
	out := make([]Table, 0, len(raw))
	for _, rawTable := range raw {
		if table, ok := NormalizeTable(rawTable); ok {
			out = append(out, table)
		}
	}
	return out
}
