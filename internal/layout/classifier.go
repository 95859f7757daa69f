package layout

import (
	"sort"
	"strings"
)

// ClassifierConfig tunes the heading classifier.
type ClassifierConfig struct {
	// HeadingRatio is the multiple of the page median a block's average span
	// size must reach to be a heading.
	HeadingRatio float64

	// DefaultMedian is used when the page has no non-zero span sizes.
	DefaultMedian float64

	// SectionMaxRunes bounds the section label derived from a heading.
	SectionMaxRunes int
}

// DefaultClassifierConfig returns the standard classifier settings.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		HeadingRatio:    1.2,
		DefaultMedian:   10.0,
		SectionMaxRunes: 240,
	}
}

// Classifier labels text blocks as headings or paragraphs.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with default settings.
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with custom settings.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// Classify is a convenience wrapper around NewClassifier().Classify.
func Classify(blocks []TextBlock, headers, footers Set) []ClassifiedBlock {
	return NewClassifier().Classify(blocks, headers, footers)
}

// Classify labels the blocks of one page.
//
// Blocks whose trimmed text is empty are dropped, as are blocks containing
// any known header or footer line as a substring. A block is a heading when
// the average of its non-zero span sizes is at least HeadingRatio times the
// median of all non-zero span sizes on the page. Output order follows input
// order.
func (c *Classifier) Classify(blocks []TextBlock, headers, footers Set) []ClassifiedBlock {
	median := c.pageMedian(blocks)

	out := make([]ClassifiedBlock, 0, len(blocks))
	for _, block := range blocks {
		text := strings.TrimSpace(block.Text())
		if text == "" {
			continue
		}
		if containsAny(text, headers) || containsAny(text, footers) {
			continue
		}

		classified := ClassifiedBlock{
			Type: BlockParagraph,
			Text: text,
			BBox: block.BBox,
		}

		if avg, ok := averageSize(block.Spans); ok && avg >= median*c.config.HeadingRatio {
			section := truncateRunes(text, c.config.SectionMaxRunes)
			classified.Type = BlockHeading
			classified.Section = &section
		}

		out = append(out, classified)
	}

	return out
}

func (c *Classifier) pageMedian(blocks []TextBlock) float64 {
	var sizes []float64
	for _, block := range blocks {
		for _, span := range block.Spans {
			if span.Size != nil && *span.Size != 0 {
				sizes = append(sizes, *span.Size)
			}
		}
	}
	if len(sizes) == 0 {
		return c.config.DefaultMedian
	}
	return median(sizes)
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func averageSize(spans []TextSpan) (float64, bool) {
	var sum float64
	var n int
	for _, span := range spans {
		if span.Size != nil && *span.Size != 0 {
			sum += *span.Size
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// containsAny reports whether text contains any non-blank item of set.
func containsAny(text string, set Set) bool {
	for item := range set {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" && strings.Contains(text, trimmed) {
			return true
		}
	}
	return false
}
