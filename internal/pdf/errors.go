package pdf

import (
	"errors"
	"fmt"
)

// Library names used in ExtractionError.
const (
	LibraryLedongthuc = "ledongthuc"
	LibraryPDFCPU     = "pdfcpu"
	LibraryGrid       = "grid"
)

// Common validation errors
var (
	ErrEmptyPath    = errors.New("path cannot be empty")
	ErrNotPDF       = errors.New("file is not a PDF")
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyFile    = errors.New("file is empty")
	ErrNoPages      = errors.New("document has no pages")
	ErrInvalidPage  = errors.New("invalid page number")
)

// ExtractionError reports a failure inside one of the PDF libraries.
// Page is zero for document level failures.
type ExtractionError struct {
	Library string `json:"library"`
	Stage   string `json:"stage"`
	Page    int    `json:"page,omitempty"`
	Err     error  `json:"error"`
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("PDF %s library error in %s on page %d: %v", e.Library, e.Stage, e.Page, e.Err)
	}
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// recoverPanic turns a library panic into an ExtractionError. It must be
// deferred directly.
func recoverPanic(library, stage string, page int, err *error) {
	if r := recover(); r != nil {
		*err = &ExtractionError{
			Library: library,
			Stage:   stage,
			Page:    page,
			Err:     fmt.Errorf("recovered from panic: %v", r),
		}
	}
}
