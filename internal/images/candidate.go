package images

// Candidate is one image found on a page, before filtering.
type Candidate struct {
	Data      []byte
	Width     int
	Height    int
	Ext       string
	SourceRef int
	Name      string // resource name, used as alt text when set

	// Err is set when the image could not be extracted. Such a candidate
	// is skipped without affecting the others.
	Err error
}

// Extracted is an image that passed the filter and was persisted.
type Extracted struct {
	Path      string
	SourceRef int
	Alt       *string
}
