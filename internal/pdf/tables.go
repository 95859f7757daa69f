package pdf

import (
	"github.com/a3tai/pdfstruct/internal/tables"
)

// GridTables finds text-aligned tables on the pages of a Reader.
type GridTables struct {
	reader   *Reader
	detector *tables.GridDetector
}

// NewGridTables creates a table source sharing the reader's page cache.
func NewGridTables(reader *Reader) *GridTables {
	return &GridTables{
		reader:   reader,
		detector: tables.NewGridDetector(),
	}
}

// Name identifies the extractor in table descriptions.
func (g *GridTables) Name() string {
	return tables.GridExtractorName
}

// ExtractTables returns the raw grids detected on a page.
func (g *GridTables) ExtractTables(page int) (raw [][][]any, err error) {
	rows, err := g.reader.PageRows(page)
	if err != nil {
		return nil, err
	}

	defer recoverPanic(LibraryGrid, "tables", page, &err)
	return g.detector.Detect(rows), nil
}
