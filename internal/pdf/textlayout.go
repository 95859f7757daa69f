package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/a3tai/pdfstruct/internal/layout"
	"github.com/a3tai/pdfstruct/internal/tables"
)

// defaultPageTop is used when a page has no usable MediaBox (US Letter).
const defaultPageTop = 792.0

// layoutConfig tunes how glyphs are assembled into spans, lines and blocks.
type layoutConfig struct {
	// RowTolerance is the baseline distance in points within which glyphs
	// share a line.
	RowTolerance float64

	// SpaceRatio is the horizontal gap, relative to font size, that
	// inserts a space between glyphs.
	SpaceRatio float64

	// ColumnRatio is the horizontal gap, relative to font size, that
	// starts a new segment on the line.
	ColumnRatio float64

	// BlockGapRatio is the vertical gap between lines, relative to font
	// size, that starts a new block.
	BlockGapRatio float64

	// SizeTolerance is the font size difference in points that starts a
	// new block.
	SizeTolerance float64
}

func defaultLayoutConfig() layoutConfig {
	return layoutConfig{
		RowTolerance:  2.0,
		SpaceRatio:    0.2,
		ColumnRatio:   1.5,
		BlockGapRatio: 0.8,
		SizeTolerance: 0.5,
	}
}

// glyph is one positioned text run as reported by the content stream
// decoder, in PDF user space (origin bottom-left, y is the baseline).
type glyph struct {
	text string
	x    float64
	y    float64
	w    float64
	size float64
	font string
}

type textLine struct {
	spans []layout.TextSpan
	// segmentStart[i] is true when spans[i] begins a new segment.
	segmentStart []bool
	bbox         layout.BBox
	size         float64
}

func (l textLine) text() string {
	parts := make([]string, len(l.spans))
	for i, span := range l.spans {
		parts[i] = span.Text
	}
	return strings.Join(parts, " ")
}

func (l textLine) segments() []tables.Segment {
	var out []tables.Segment
	for i, span := range l.spans {
		if i == 0 || l.segmentStart[i] {
			out = append(out, tables.Segment{X0: span.BBox[0], X1: span.BBox[2], Text: span.Text})
			continue
		}
		last := &out[len(out)-1]
		last.X1 = max(last.X1, span.BBox[2])
		last.Text += " " + span.Text
	}
	return out
}

// pageLayout is the assembled text of one page, lines ordered top to bottom.
type pageLayout struct {
	lines  []textLine
	config layoutConfig
}

// buildPageLayout groups glyphs into lines and spans. pageTop is the y
// coordinate of the top of the page, used to flip into top-left space.
func buildPageLayout(glyphs []glyph, pageTop float64, config layoutConfig) *pageLayout {
	pl := &pageLayout{config: config}
	for _, row := range groupRows(glyphs, config.RowTolerance) {
		if line, ok := assembleLine(row, pageTop, config); ok {
			pl.lines = append(pl.lines, line)
		}
	}
	return pl
}

// text returns the page text, one line per row.
func (pl *pageLayout) text() string {
	parts := make([]string, len(pl.lines))
	for i, line := range pl.lines {
		parts[i] = line.text()
	}
	return strings.Join(parts, "\n")
}

// blocks merges consecutive lines into blocks. A new block starts when the
// vertical gap grows beyond BlockGapRatio of the font size or the font size
// changes.
func (pl *pageLayout) blocks() []layout.TextBlock {
	var (
		out  []layout.TextBlock
		cur  *layout.TextBlock
		prev textLine
	)

	for _, line := range pl.lines {
		if cur != nil {
			gap := line.bbox[1] - prev.bbox[3]
			sizeChange := math.Abs(line.size - prev.size)
			if gap > pl.config.BlockGapRatio*max(prev.size, line.size) || sizeChange > pl.config.SizeTolerance {
				out = append(out, *cur)
				cur = nil
			}
		}

		if cur == nil {
			box := line.bbox
			cur = &layout.TextBlock{BBox: &box}
		} else {
			box := cur.BBox.Union(line.bbox)
			cur.BBox = &box
		}
		cur.Spans = append(cur.Spans, line.spans...)
		prev = line
	}
	if cur != nil {
		out = append(out, *cur)
	}

	return out
}

// rows returns the lines as table rows for grid detection.
func (pl *pageLayout) rows() []tables.Row {
	out := make([]tables.Row, len(pl.lines))
	for i, line := range pl.lines {
		out[i] = tables.Row{
			Top:      line.bbox[1],
			Bottom:   line.bbox[3],
			Segments: line.segments(),
		}
	}
	return out
}

// groupRows buckets glyphs by baseline, top row first, each row sorted by x.
func groupRows(glyphs []glyph, tolerance float64) [][]glyph {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := append([]glyph(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].y > sorted[j].y
	})

	var rows [][]glyph
	anchor := sorted[0].y
	current := []glyph{sorted[0]}
	for _, g := range sorted[1:] {
		if anchor-g.y > tolerance {
			rows = append(rows, current)
			current = nil
			anchor = g.y
		}
		current = append(current, g)
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].x < row[j].x
		})
	}
	return rows
}

type spanBuilder struct {
	text     strings.Builder
	x0, x1   float64
	y        float64
	size     float64
	font     string
	newSeg   bool
	hasSpace bool
}

// assembleLine merges the glyphs of one row into spans. A span ends when the
// font changes or a column-sized gap appears; the latter also starts a new
// segment.
func assembleLine(row []glyph, pageTop float64, config layoutConfig) (textLine, bool) {
	var (
		line      textLine
		cur       *spanBuilder
		carrySeg  bool
		lineBoxed bool
	)

	flush := func() {
		if cur == nil {
			return
		}
		text := strings.TrimSpace(cur.text.String())
		if text == "" {
			carrySeg = carrySeg || cur.newSeg
			cur = nil
			return
		}

		size := cur.size
		font := cur.font
		span := layout.TextSpan{
			Text: text,
			BBox: layout.BBox{cur.x0, pageTop - (cur.y + size), cur.x1, pageTop - cur.y},
			Size: &size,
		}
		if font != "" {
			flags := fontFlags(font)
			span.Font = &font
			span.Flags = &flags
		}

		line.spans = append(line.spans, span)
		line.segmentStart = append(line.segmentStart, cur.newSeg || carrySeg)
		line.size = max(line.size, size)
		if !lineBoxed {
			line.bbox = span.BBox
			lineBoxed = true
		} else {
			line.bbox = line.bbox.Union(span.BBox)
		}
		carrySeg = false
		cur = nil
	}

	for _, g := range row {
		if cur != nil {
			gap := g.x - cur.x1
			columnGap := gap > config.ColumnRatio*max(cur.size, g.size, 1)
			styleChange := g.font != cur.font || math.Abs(g.size-cur.size) > 0.01
			switch {
			case columnGap || styleChange:
				flush()
				if columnGap {
					carrySeg = true
				}
			case gap > config.SpaceRatio*cur.size && !cur.hasSpace && !strings.HasPrefix(g.text, " "):
				cur.text.WriteByte(' ')
			}
		}

		if cur == nil {
			cur = &spanBuilder{x0: g.x, x1: g.x, y: g.y, size: g.size, font: g.font, newSeg: carrySeg}
			carrySeg = false
		}
		cur.text.WriteString(g.text)
		cur.x1 = max(cur.x1, g.x+g.w)
		cur.hasSpace = strings.HasSuffix(g.text, " ")
	}
	flush()

	if len(line.spans) == 0 {
		return textLine{}, false
	}
	// the first span never starts a segment boundary
	line.segmentStart[0] = false
	return line, true
}

// fontFlags derives style flags from a font name such as
// "ABCDEF+Helvetica-BoldOblique".
func fontFlags(font string) int {
	name := strings.ToLower(font)
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}

	flags := 0
	if strings.Contains(name, "bold") || strings.Contains(name, "black") || strings.Contains(name, "heavy") {
		flags |= layout.FlagBold
	}
	if strings.Contains(name, "italic") || strings.Contains(name, "oblique") {
		flags |= layout.FlagItalic
	}
	if strings.Contains(name, "courier") || strings.Contains(name, "mono") {
		flags |= layout.FlagMonospace
	}
	if strings.Contains(name, "times") || (strings.Contains(name, "serif") && !strings.Contains(name, "sans")) {
		flags |= layout.FlagSerif
	}
	return flags
}
