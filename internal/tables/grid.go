package tables

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Segment is a horizontally contiguous piece of text on a line, separated
// from its neighbours by a column-sized gap.
type Segment struct {
	X0, X1 float64
	Text   string
}

// Row is one text line of a page, top-left origin.
type Row struct {
	Top, Bottom float64
	Segments    []Segment
}

// GridConfig tunes grid detection.
type GridConfig struct {
	// MinColumns is the number of segments a line needs to be a table row.
	MinColumns int

	// MinRows is the number of consecutive table rows that form a table.
	MinRows int

	// ColumnTolerance is the distance in points within which segment left
	// edges share one column.
	ColumnTolerance float64

	// MaxRowGap is the allowed vertical gap between consecutive rows, as a
	// multiple of the previous row's height.
	MaxRowGap float64

	// MinConsistency is the share of rows that must have the most common
	// segment count.
	MinConsistency float64

	// MaxMeanCellRunes rejects candidates that look like prose columns.
	MaxMeanCellRunes int
}

// DefaultGridConfig returns the standard grid detection settings.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		MinColumns:       2,
		MinRows:          2,
		ColumnTolerance:  8.0,
		MaxRowGap:        2.0,
		MinConsistency:   0.5,
		MaxMeanCellRunes: 60,
	}
}

// GridExtractorName identifies the grid detector in table descriptions.
const GridExtractorName = "grid"

// GridDetector finds tables formed by text aligned in columns.
type GridDetector struct {
	config GridConfig
}

// NewGridDetector creates a detector with default settings.
func NewGridDetector() *GridDetector {
	return NewGridDetectorWithConfig(DefaultGridConfig())
}

// NewGridDetectorWithConfig creates a detector with custom settings.
func NewGridDetectorWithConfig(config GridConfig) *GridDetector {
	return &GridDetector{config: config}
}

// Detect returns the raw tables found in rows, which must be ordered top to
// bottom. Each table is a grid of cells; a cell is a string or nil when the
// row has no text in that column.
func (d *GridDetector) Detect(rows []Row) [][][]any {
	var (
		out [][][]any
		run []Row
	)

	flush := func() {
		if grid := d.buildGrid(run); grid != nil {
			out = append(out, grid)
		}
		run = nil
	}

	for _, row := range rows {
		if len(row.Segments) < d.config.MinColumns {
			flush()
			continue
		}
		if len(run) > 0 {
			prev := run[len(run)-1]
			gap := row.Top - prev.Bottom
			if gap > d.config.MaxRowGap*max(prev.Bottom-prev.Top, 1) {
				flush()
			}
		}
		run = append(run, row)
	}
	flush()

	return out
}

func (d *GridDetector) buildGrid(rows []Row) [][]any {
	if len(rows) < d.config.MinRows {
		return nil
	}
	if consistency(rows) < d.config.MinConsistency {
		return nil
	}
	if meanCellRunes(rows) > float64(d.config.MaxMeanCellRunes) {
		return nil
	}

	anchors := d.columnAnchors(rows)
	if len(anchors) < d.config.MinColumns {
		return nil
	}

	grid := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(anchors))
		for _, seg := range row.Segments {
			col := d.columnFor(anchors, seg.X0)
			if existing, ok := cells[col].(string); ok {
				cells[col] = existing + " " + seg.Text
			} else {
				cells[col] = seg.Text
			}
		}
		grid[i] = cells
	}

	return grid
}

// columnAnchors clusters segment left edges into column positions.
func (d *GridDetector) columnAnchors(rows []Row) []float64 {
	var xs []float64
	for _, row := range rows {
		for _, seg := range row.Segments {
			xs = append(xs, seg.X0)
		}
	}
	sort.Float64s(xs)

	var anchors []float64
	for _, x := range xs {
		if len(anchors) == 0 || x-anchors[len(anchors)-1] > d.config.ColumnTolerance {
			anchors = append(anchors, x)
		}
	}
	return anchors
}

// columnFor returns the rightmost anchor at or left of x, within tolerance.
func (d *GridDetector) columnFor(anchors []float64, x float64) int {
	col := 0
	for i, anchor := range anchors {
		if anchor <= x+d.config.ColumnTolerance {
			col = i
		}
	}
	return col
}

// consistency is the share of rows having the most common segment count.
func consistency(rows []Row) float64 {
	counts := make(map[int]int)
	best := 0
	for _, row := range rows {
		counts[len(row.Segments)]++
		best = max(best, counts[len(row.Segments)])
	}
	return float64(best) / float64(len(rows))
}

func meanCellRunes(rows []Row) float64 {
	var total, cells int
	for _, row := range rows {
		for _, seg := range row.Segments {
			total += utf8.RuneCountInString(strings.TrimSpace(seg.Text))
			cells++
		}
	}
	if cells == 0 {
		return 0
	}
	return float64(total) / float64(cells)
}
