// Package layout turns positioned text spans into classified blocks.
//
// It holds the text normalizer, the running header/footer detector and the
// font-size based heading classifier. None of the functions here touch a PDF
// file; callers supply the spans they decoded.
package layout

import (
	"strings"
)

// Font flag bits, compatible with the flag layout most PDF text extractors use.
const (
	FlagSuperscript = 1 << 0
	FlagItalic      = 1 << 1
	FlagSerif       = 1 << 2
	FlagMonospace   = 1 << 3
	FlagBold        = 1 << 4
)

// BBox is a rectangle in page space: x0, y0, x1, y1 with the origin at the
// top-left corner of the page.
type BBox [4]float64

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		min(b[0], o[0]),
		min(b[1], o[1]),
		max(b[2], o[2]),
		max(b[3], o[3]),
	}
}

// Width returns x1 - x0.
func (b BBox) Width() float64 { return b[2] - b[0] }

// Height returns y1 - y0.
func (b BBox) Height() float64 { return b[3] - b[1] }

// TextSpan is a run of text sharing one font.
type TextSpan struct {
	Text  string
	BBox  BBox
	Size  *float64
	Flags *int
	Font  *string
}

// TextBlock is a group of spans the decoder considers one visual unit.
type TextBlock struct {
	Spans []TextSpan
	BBox  *BBox
}

// Text joins the span texts with single spaces.
func (b TextBlock) Text() string {
	parts := make([]string, 0, len(b.Spans))
	for _, span := range b.Spans {
		parts = append(parts, span.Text)
	}
	return strings.Join(parts, " ")
}

// BlockType is the role assigned to a block by the classifier.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
)

// ClassifiedBlock is a block with its assigned role. Section is set only for
// headings and carries the label derived from the heading text.
type ClassifiedBlock struct {
	Type    BlockType
	Text    string
	Section *string
	BBox    *BBox
}

// Set is an unordered collection of strings.
type Set map[string]struct{}

// NewSet builds a set from the given items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Has reports whether item is in the set.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of items.
func (s Set) Len() int { return len(s) }

// Float64 returns a pointer to v. Handy for building spans.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
