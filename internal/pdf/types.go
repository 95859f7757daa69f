package pdf

import (
	"time"

	"github.com/a3tai/pdfstruct/internal/document"
	"github.com/a3tai/pdfstruct/internal/pipeline"
)

// Request Types

// PDFStructureFileRequest represents a request to structure a PDF file
type PDFStructureFileRequest struct {
	Path string `json:"path"`

	// ImageDir overrides the service's image directory
	ImageDir string `json:"img_dir,omitempty"`

	// MaxPages limits processing to the first pages; zero means all
	MaxPages int `json:"max_pages,omitempty"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFValidateStructureRequest represents a request to validate a structured
// JSON document produced by this tool
type PDFValidateStructureRequest struct {
	Path string `json:"path"`
}

// PDFListFilesRequest represents a request to list PDF files in the
// server's directory
type PDFListFilesRequest struct {
	Query string `json:"query,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Response Types

// PDFStructureFileResult represents the result of structuring a PDF file
type PDFStructureFileResult struct {
	Document *document.Document `json:"document"`
	Warnings []pipeline.Warning `json:"-"`
	ImageDir string             `json:"image_dir"`
	Duration time.Duration      `json:"-"`
}

// WarningMessages returns the warnings as strings
func (r *PDFStructureFileResult) WarningMessages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.Error()
	}
	return out
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFValidateStructureResult represents the result of validating a
// structured JSON document
type PDFValidateStructureResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// FileInfo describes a PDF file found on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// PDFListFilesResult represents the result of listing PDF files
type PDFListFilesResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
	Truncated  bool       `json:"truncated,omitempty"`
}
