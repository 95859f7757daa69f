package pdf

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/pdfstruct/internal/images"
)

// ImageExtractor pulls embedded images out of pages with pdfcpu.
//
// Opening never fails outright: if pdfcpu cannot read the document, every
// ExtractImages call reports the open error so the run continues without
// images.
type ImageExtractor struct {
	file    *os.File
	ctx     *model.Context
	openErr error
}

// OpenImageExtractor reads and optimizes the document so its image
// resources are indexed per page. Close it when done.
func OpenImageExtractor(path string) *ImageExtractor {
	e := &ImageExtractor{}

	f, err := os.Open(path)
	if err != nil {
		e.openErr = &ExtractionError{Library: LibraryPDFCPU, Stage: "open", Err: err}
		return e
	}
	e.file = f

	ctx, err := readContext(f)
	if err != nil {
		e.openErr = &ExtractionError{Library: LibraryPDFCPU, Stage: "open", Err: err}
		return e
	}
	e.ctx = ctx

	return e
}

func readContext(rs io.ReadSeeker) (ctx *model.Context, err error) {
	defer recoverPanic(LibraryPDFCPU, "open", 0, &err)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.EXTRACTIMAGES

	return api.ReadValidateAndOptimize(rs, conf)
}

// Err returns the error from opening the document, if any.
func (e *ImageExtractor) Err() error {
	return e.openErr
}

// PageCount returns the number of pages pdfcpu sees, or zero if the
// document could not be read.
func (e *ImageExtractor) PageCount() int {
	if e.ctx == nil {
		return 0
	}
	return e.ctx.PageCount
}

// Close releases the underlying file.
func (e *ImageExtractor) Close() error {
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// ExtractImages returns the images used by a page, ordered by object number.
// An image whose stream cannot be read is returned with Err set.
func (e *ImageExtractor) ExtractImages(page int) (candidates []images.Candidate, err error) {
	if e.openErr != nil {
		return nil, e.openErr
	}

	defer recoverPanic(LibraryPDFCPU, "images", page, &err)

	if page < 1 || page > e.ctx.PageCount {
		return nil, &ExtractionError{
			Library: LibraryPDFCPU,
			Stage:   "images",
			Page:    page,
			Err:     fmt.Errorf("%w: %d of %d", ErrInvalidPage, page, e.ctx.PageCount),
		}
	}

	found, err := pdfcpu.ExtractPageImages(e.ctx, page, false)
	if err != nil {
		return nil, &ExtractionError{Library: LibraryPDFCPU, Stage: "images", Page: page, Err: err}
	}

	keys := make([]int, 0, len(found))
	for key := range found {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	candidates = make([]images.Candidate, 0, len(keys))
	for _, key := range keys {
		candidates = append(candidates, toCandidate(found[key]))
	}

	return candidates, nil
}

func toCandidate(img model.Image) images.Candidate {
	cand := images.Candidate{
		Width:     img.Width,
		Height:    img.Height,
		Ext:       img.FileType,
		SourceRef: img.ObjNr,
		Name:      img.Name,
	}

	if img.Reader == nil {
		cand.Err = fmt.Errorf("image %s has no data", img.Name)
		return cand
	}

	data, err := io.ReadAll(img)
	if err != nil {
		cand.Err = fmt.Errorf("failed to read image %s: %w", img.Name, err)
		return cand
	}
	cand.Data = data

	return cand
}
