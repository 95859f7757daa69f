package pdf

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/pdfstruct/internal/layout"
	"github.com/a3tai/pdfstruct/internal/tables"
)

// maxInheritDepth bounds the walk up the page tree for inherited attributes.
const maxInheritDepth = 32

// Reader decodes page text and positioned spans with ledongthuc/pdf.
// The most recently decoded page is cached, so asking for the text, blocks
// and rows of the same page decodes it once. Reader is not safe for
// concurrent use.
type Reader struct {
	file   *os.File
	pdf    *pdf.Reader
	config layoutConfig

	cachedPage   int
	cachedLayout *pageLayout
	cachedErr    error
}

// OpenReader opens a PDF file for text extraction. Close it when done.
func OpenReader(path string) (r *Reader, err error) {
	defer recoverPanic(LibraryLedongthuc, "open", 0, &err)

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Library: LibraryLedongthuc, Stage: "open", Err: err}
	}

	return &Reader{
		file:   f,
		pdf:    pdfReader,
		config: defaultLayoutConfig(),
	}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NumPages returns the number of pages in the document.
func (r *Reader) NumPages() int {
	return r.pdf.NumPage()
}

// PageText returns the plain text of a page, one line per text row.
func (r *Reader) PageText(page int) (string, error) {
	pl, err := r.pageLayout(page)
	if err != nil {
		return "", err
	}
	return pl.text(), nil
}

// PageBlocks returns the text blocks of a page in reading order.
func (r *Reader) PageBlocks(page int) ([]layout.TextBlock, error) {
	pl, err := r.pageLayout(page)
	if err != nil {
		return nil, err
	}
	return pl.blocks(), nil
}

// PageRows returns the text lines of a page split into column segments.
func (r *Reader) PageRows(page int) ([]tables.Row, error) {
	pl, err := r.pageLayout(page)
	if err != nil {
		return nil, err
	}
	return pl.rows(), nil
}

func (r *Reader) pageLayout(page int) (*pageLayout, error) {
	if r.cachedPage == page && (r.cachedLayout != nil || r.cachedErr != nil) {
		return r.cachedLayout, r.cachedErr
	}

	pl, err := r.decodePage(page)
	r.cachedPage, r.cachedLayout, r.cachedErr = page, pl, err
	return pl, err
}

// decodePage extracts the glyphs of a page with panic recovery, since
// malformed content streams can make the decoder panic.
func (r *Reader) decodePage(pageNum int) (pl *pageLayout, err error) {
	defer recoverPanic(LibraryLedongthuc, "text", pageNum, &err)

	if pageNum < 1 || pageNum > r.pdf.NumPage() {
		return nil, &ExtractionError{
			Library: LibraryLedongthuc,
			Stage:   "text",
			Page:    pageNum,
			Err:     fmt.Errorf("%w: %d of %d", ErrInvalidPage, pageNum, r.pdf.NumPage()),
		}
	}

	page := r.pdf.Page(pageNum)
	if page.V.IsNull() {
		return buildPageLayout(nil, defaultPageTop, r.config), nil
	}

	content := page.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		glyphs = append(glyphs, glyph{
			text: norm.NFC.String(t.S),
			x:    t.X,
			y:    t.Y,
			w:    t.W,
			size: t.FontSize,
			font: t.Font,
		})
	}

	return buildPageLayout(glyphs, pageTop(page.V), r.config), nil
}

// pageTop returns the upper edge of the page's MediaBox, following the page
// tree for inherited boxes.
func pageTop(v pdf.Value) float64 {
	box := inheritedKey(v, "MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return defaultPageTop
	}
	top := max(box.Index(1).Float64(), box.Index(3).Float64())
	if top <= 0 {
		return defaultPageTop
	}
	return top
}

func inheritedKey(v pdf.Value, key string) pdf.Value {
	for i := 0; i < maxInheritDepth && !v.IsNull(); i++ {
		if val := v.Key(key); !val.IsNull() {
			return val
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}
