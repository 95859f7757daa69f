package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a3tai/pdfstruct/internal/document"
	"github.com/a3tai/pdfstruct/internal/images"
	"github.com/a3tai/pdfstruct/internal/layout"
	"github.com/a3tai/pdfstruct/internal/logger"
	"github.com/a3tai/pdfstruct/internal/metrics"
	"github.com/a3tai/pdfstruct/internal/tables"
)

// ErrNoTextSource is returned when a parser is built without a text source.
var ErrNoTextSource = errors.New("text source is required")

// Options control a parse run.
type Options struct {
	// SourceFile is copied into the output document.
	SourceFile string

	// MaxPages limits the run to the first MaxPages pages. Zero or less
	// processes every page.
	MaxPages int
}

// Result is the output of a parse run.
type Result struct {
	Document *document.Document
	Warnings []Warning
	Headers  layout.Set
	Footers  layout.Set
}

// Option configures a Parser.
type Option func(*Parser)

// WithTables enables table extraction.
func WithTables(source TableSource) Option {
	return func(p *Parser) { p.tables = source }
}

// WithImages enables image extraction. Admitted images are written to sink.
func WithImages(source ImageSource, sink images.Sink) Option {
	return func(p *Parser) {
		p.images = source
		p.sink = sink
	}
}

// WithRecognizer sets a recognizer used to describe admitted images.
func WithRecognizer(r images.Recognizer) Option {
	return func(p *Parser) { p.recognizer = r }
}

// WithClassifier replaces the default layout classifier.
func WithClassifier(c *layout.Classifier) Option {
	return func(p *Parser) { p.classifier = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// Parser structures a document page by page. A Parser may run Parse more
// than once; every run starts with fresh deduplication state.
type Parser struct {
	text       TextSource
	tables     TableSource
	images     ImageSource
	sink       images.Sink
	recognizer images.Recognizer
	classifier *layout.Classifier
	log        *logger.Logger
	metrics    *metrics.Metrics
	opts       Options
}

// NewParser creates a parser over text.
func NewParser(text TextSource, opts Options, options ...Option) (*Parser, error) {
	if text == nil {
		return nil, ErrNoTextSource
	}

	p := &Parser{
		text:       text,
		classifier: layout.NewClassifier(),
		log:        logger.Nop(),
		opts:       opts,
	}
	for _, opt := range options {
		opt(p)
	}

	if p.images != nil && p.sink == nil {
		return nil, fmt.Errorf("image source requires a sink")
	}

	return p, nil
}

// run holds the state of one Parse call.
type run struct {
	headers   layout.Set
	footers   layout.Set
	collector *images.Collector
	warnings  []Warning

	// pages whose text failure was already reported by the header pre-pass
	textFailed map[int]bool
}

// Parse processes the pages in order. Page text from every processed page
// is scanned for running headers and footers before any page is
// classified. The context is only checked before the run starts.
func (p *Parser) Parse(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	numPages := p.pageLimit()
	r := &run{textFailed: make(map[int]bool)}

	pageTexts := make([]string, numPages)
	for i := range pageTexts {
		text, err := p.text.PageText(i + 1)
		if err != nil {
			p.warn(r, i+1, StageText, err)
			r.textFailed[i+1] = true
			continue
		}
		pageTexts[i] = text
	}
	r.headers, r.footers = layout.DetectHeadersFooters(pageTexts)

	p.log.Debug().
		Int("pages", numPages).
		Int("headers", r.headers.Len()).
		Int("footers", r.footers.Len()).
		Msg("Detected running headers and footers")

	if p.images != nil {
		r.collector = images.NewCollector(images.NewDeduplicator(), p.sink)
		if p.recognizer != nil {
			r.collector.SetRecognizer(p.recognizer)
		}
	}

	pages := make([]document.Page, 0, numPages)
	for n := 1; n <= numPages; n++ {
		pageStart := time.Now()
		page := p.parsePage(r, n)
		pages = append(pages, page)

		p.metrics.RecordPage(time.Since(pageStart))
		p.log.LogPageDone(n, len(page.Content), time.Since(pageStart))
	}

	doc := document.New(p.opts.SourceFile, pages)
	p.log.LogRunComplete(doc.NumPages, len(r.warnings), time.Since(start))

	return &Result{
		Document: doc,
		Warnings: r.warnings,
		Headers:  r.headers,
		Footers:  r.footers,
	}, nil
}

func (p *Parser) pageLimit() int {
	n := p.text.NumPages()
	if p.opts.MaxPages > 0 && p.opts.MaxPages < n {
		return p.opts.MaxPages
	}
	return max(n, 0)
}

func (p *Parser) parsePage(r *run, n int) document.Page {
	page := document.NewPage(n)

	var classified []layout.ClassifiedBlock
	if blocks, err := p.text.PageBlocks(n); err != nil {
		if !r.textFailed[n] {
			p.warn(r, n, StageText, err)
		}
	} else {
		classified = p.classifier.Classify(blocks, r.headers, r.footers)
	}

	pageTables := p.pageTables(r, n)
	pageImages := p.pageImages(r, n)

	section := document.DefaultSection
	for _, block := range classified {
		kind := document.KindParagraph
		if block.Type == layout.BlockHeading {
			kind = document.KindHeading
			section = document.DefaultSection
			if block.Section != nil && *block.Section != "" {
				section = *block.Section
			}
		}

		text := layout.CleanText(block.Text)
		var entry document.Entry
		if kind == document.KindHeading {
			entry = document.NewHeading(section, text, block.BBox)
		} else {
			entry = document.NewParagraph(section, text, block.BBox)
		}
		p.add(&page, entry)
	}

	for i, table := range pageTables {
		description := fmt.Sprintf("Table extracted by %s (table #%d)", p.tables.Name(), i+1)
		p.add(&page, document.NewTable(section, table, description))
	}

	for _, img := range pageImages {
		p.add(&page, document.NewChart(section, img.Path, img.Alt))
	}

	return page
}

func (p *Parser) pageTables(r *run, n int) []tables.Table {
	if p.tables == nil {
		return nil
	}
	raw, err := p.tables.ExtractTables(n)
	if err != nil {
		p.warn(r, n, StageTables, err)
		return nil
	}
	return tables.Normalize(raw)
}

func (p *Parser) pageImages(r *run, n int) []images.Extracted {
	if p.images == nil {
		return nil
	}
	candidates, err := p.images.ExtractImages(n)
	if err != nil {
		p.warn(r, n, StageImages, err)
		return nil
	}

	outcome := r.collector.Collect(n, candidates)
	for _, failure := range outcome.Failures {
		p.warn(r, n, StageImage, failure)
	}
	for _, failure := range outcome.RecognitionErrors {
		p.log.Debug().Int("page", n).Err(failure).Msg("Image text recognition failed")
		p.metrics.RecordWarning(string(StageOCR))
	}
	for verdict, count := range outcome.Rejected {
		p.metrics.RecordImagesRejected(string(verdict), count)
	}

	return outcome.Images
}

func (p *Parser) add(page *document.Page, entry document.Entry) {
	page.Add(entry)
	p.metrics.RecordEntry(string(entry.Kind()))
}

func (p *Parser) warn(r *run, page int, stage Stage, err error) {
	r.warnings = append(r.warnings, Warning{Page: page, Stage: stage, Err: err})
	p.log.LogPageWarning(page, string(stage), err)
	p.metrics.RecordWarning(string(stage))
}
