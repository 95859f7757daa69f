// Package pipeline turns the pages of a document into structured content.
//
// The parser drives three collaborators: a TextSource for plain text and
// positioned spans, an optional TableSource and an optional ImageSource.
// Failures of the optional sources and of single images are recoverable and
// reported as warnings.
package pipeline

import (
	"github.com/a3tai/pdfstruct/internal/images"
	"github.com/a3tai/pdfstruct/internal/layout"
)

// TextSource provides the text of a document. Page numbers are 1-based.
type TextSource interface {
	NumPages() int
	PageText(page int) (string, error)
	PageBlocks(page int) ([]layout.TextBlock, error)
}

// TableSource finds tables on a page. Name appears in table descriptions.
type TableSource interface {
	Name() string
	ExtractTables(page int) ([][][]any, error)
}

// ImageSource lists the images embedded in a page.
type ImageSource interface {
	ExtractImages(page int) ([]images.Candidate, error)
}
