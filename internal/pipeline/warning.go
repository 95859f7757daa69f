package pipeline

import (
	"fmt"
)

// Stage names the step a warning came from.
type Stage string

const (
	StageText   Stage = "text"
	StageTables Stage = "tables"
	StageImages Stage = "images"
	StageImage  Stage = "image"
	StageOCR    Stage = "ocr"
)

// Warning is a recoverable failure. The affected page still appears in the
// output, minus the content the failing step would have produced.
type Warning struct {
	Page  int
	Stage Stage
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("page %d: %s: %v", w.Page, w.Stage, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
