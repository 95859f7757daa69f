package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(text string, sizes ...float64) TextBlock {
	b := TextBlock{}
	if len(sizes) == 0 {
		b.Spans = []TextSpan{{Text: text}}
		return b
	}
	for i, size := range sizes {
		span := TextSpan{Size: Float64(size)}
		if i == 0 {
			span.Text = text
		}
		b.Spans = append(b.Spans, span)
	}
	return b
}

func TestClassifyHeadingThreshold(t *testing.T) {
	tests := []struct {
		name string
		size float64
		want BlockType
	}{
		{name: "exactly 1.2 times median", size: 12, want: BlockHeading},
		{name: "just below 1.2 times median", size: 11.9, want: BlockParagraph},
		{name: "well above", size: 24, want: BlockHeading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := []TextBlock{
				block("Candidate", tt.size),
				block("body one", 10),
				block("body two", 10),
				block("body three", 10),
			}

			got := Classify(blocks, nil, nil)
			require.Len(t, got, 4)
			assert.Equal(t, tt.want, got[0].Type)
			for _, b := range got[1:] {
				assert.Equal(t, BlockParagraph, b.Type)
			}
		})
	}
}

func TestClassifySectionLabel(t *testing.T) {
	long := strings.Repeat("H", 300)
	blocks := []TextBlock{block("  "+long+"  ", 20), block("body", 10), block("more", 10)}

	got := Classify(blocks, nil, nil)
	require.Len(t, got, 3)
	require.NotNil(t, got[0].Section)
	assert.Equal(t, strings.Repeat("H", 240), *got[0].Section)
	assert.Equal(t, long, got[0].Text)
	assert.Nil(t, got[1].Section)
}

func TestClassifyDefaultMedian(t *testing.T) {
	// no usable sizes anywhere: median defaults to 10
	blocks := []TextBlock{
		block("no sizes"),
		{Spans: []TextSpan{{Text: "zero size", Size: Float64(0)}}},
	}

	got := Classify(blocks, nil, nil)
	require.Len(t, got, 2)
	assert.Equal(t, BlockParagraph, got[0].Type)
	assert.Equal(t, BlockParagraph, got[1].Type)

	// a single sized block is compared against itself
	got = Classify([]TextBlock{block("alone", 14)}, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, BlockParagraph, got[0].Type)
}

func TestClassifyMixedSizes(t *testing.T) {
	// median over spans is (10+10)/2 = 10, block average is (14+10)/2 = 12
	blocks := []TextBlock{
		{Spans: []TextSpan{
			{Text: "Mixed", Size: Float64(14)},
			{Text: "title", Size: Float64(10)},
			{Text: "nil", Size: nil},
		}},
		block("a", 10),
		block("b", 10),
	}

	got := Classify(blocks, nil, nil)
	require.Len(t, got, 3)
	assert.Equal(t, BlockHeading, got[0].Type)
	assert.Equal(t, "Mixed title nil", got[0].Text)
}

func TestClassifyExcludesHeadersAndFooters(t *testing.T) {
	headers := NewSet("ACME Corp")
	footers := NewSet("Page", "   ")

	blocks := []TextBlock{
		block("ACME Corp"),
		block("Welcome to ACME Corp and friends"),
		block("Pages of notes"),
		block("Regular paragraph"),
		block("   "),
	}

	got := Classify(blocks, headers, footers)
	require.Len(t, got, 1)
	assert.Equal(t, "Regular paragraph", got[0].Text)
}

func TestClassifyKeepsOrderAndBBox(t *testing.T) {
	box := BBox{1, 2, 3, 4}
	blocks := []TextBlock{
		{Spans: []TextSpan{{Text: "first", Size: Float64(10)}}, BBox: &box},
		{Spans: []TextSpan{{Text: "second", Size: Float64(10)}}},
	}

	got := Classify(blocks, NewSet(), NewSet())
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, &box, got[0].BBox)
	assert.Equal(t, "second", got[1].Text)
	assert.Nil(t, got[1].BBox)
}

func TestNewClassifierWithConfig(t *testing.T) {
	c := NewClassifierWithConfig(ClassifierConfig{HeadingRatio: 2, DefaultMedian: 10, SectionMaxRunes: 3})
	blocks := []TextBlock{block("Heading", 20), block("b", 10), block("c", 10)}

	got := c.Classify(blocks, nil, nil)
	require.Len(t, got, 3)
	assert.Equal(t, BlockHeading, got[0].Type)
	assert.Equal(t, "Hea", *got[0].Section)
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{10, 20, 30, 40}
	b := BBox{5, 25, 35, 38}
	assert.Equal(t, BBox{5, 20, 35, 40}, a.Union(b))
	assert.Equal(t, 30.0, a.Union(b).Width())
	assert.Equal(t, 20.0, a.Union(b).Height())
}
