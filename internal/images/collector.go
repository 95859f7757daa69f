package images

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultExt is used when the extractor does not report a file type.
const DefaultExt = "png"

// ErrEmptyImage is reported for candidates without any bytes.
var ErrEmptyImage = errors.New("image has no data")

// Recognizer turns image bytes into text.
type Recognizer interface {
	Recognize(data []byte) (string, error)
}

// Failure describes one candidate that could not be processed.
type Failure struct {
	Index     int
	SourceRef int
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("image #%d (ref %d): %v", f.Index, f.SourceRef, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Outcome is the result of collecting the images of one page.
type Outcome struct {
	Images   []Extracted
	Failures []Failure

	// Rejected counts filtered candidates per verdict.
	Rejected map[Verdict]int

	// RecognitionErrors lists kept images whose text recognition failed.
	RecognitionErrors []Failure
}

// Collector filters a page's candidates through a Deduplicator and writes the
// survivors to a Sink.
type Collector struct {
	dedup      *Deduplicator
	sink       Sink
	recognizer Recognizer
}

// NewCollector creates a collector. The deduplicator must live for the whole
// run so duplicates are detected across pages.
func NewCollector(dedup *Deduplicator, sink Sink) *Collector {
	return &Collector{dedup: dedup, sink: sink}
}

// SetRecognizer enables alt text recognition for admitted images.
func (c *Collector) SetRecognizer(r Recognizer) {
	c.recognizer = r
}

// Collect processes the candidates of one page in order. Admitted images are
// named page_<NNN>_img_<i>.<ext>, where i is the 1-based position of the
// candidate among all candidates of the page. A failing candidate is
// recorded and skipped.
func (c *Collector) Collect(pageNumber int, candidates []Candidate) Outcome {
	outcome := Outcome{Rejected: make(map[Verdict]int)}

	for i, cand := range candidates {
		index := i + 1
		fail := func(err error) {
			outcome.Failures = append(outcome.Failures, Failure{Index: index, SourceRef: cand.SourceRef, Err: err})
		}

		if cand.Err != nil {
			fail(cand.Err)
			continue
		}
		if len(cand.Data) == 0 {
			fail(ErrEmptyImage)
			continue
		}

		width, height := cand.Width, cand.Height
		if width <= 0 || height <= 0 {
			w, h, _, err := Dimensions(cand.Data)
			if err != nil {
				fail(err)
				continue
			}
			width, height = w, h
		}

		if verdict := c.dedup.Check(cand.Data, width, height); verdict != VerdictAdmitted {
			outcome.Rejected[verdict]++
			continue
		}

		name := fmt.Sprintf("page_%03d_img_%d.%s", pageNumber, index, normalizeExt(cand.Ext))
		path, err := c.sink.Write(name, cand.Data)
		if err != nil {
			fail(err)
			continue
		}

		var alt *string
		if n := strings.TrimSpace(cand.Name); n != "" {
			alt = &n
		}
		if c.recognizer != nil {
			text, err := c.recognizer.Recognize(cand.Data)
			switch {
			case err != nil:
				outcome.RecognitionErrors = append(outcome.RecognitionErrors,
					Failure{Index: index, SourceRef: cand.SourceRef, Err: err})
			case strings.TrimSpace(text) != "":
				recognized := strings.Join(strings.Fields(text), " ")
				alt = &recognized
			}
		}

		outcome.Images = append(outcome.Images, Extracted{
			Path:      path,
			SourceRef: cand.SourceRef,
			Alt:       alt,
		})
	}

	return outcome
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return DefaultExt
	}
	return ext
}
