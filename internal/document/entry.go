// Package document defines the structured output: a document of pages, each
// holding typed content entries tagged with the section they belong to.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/a3tai/pdfstruct/internal/layout"
)

// DefaultSection labels content that appears before any heading on a page.
const DefaultSection = "General"

// Kind is the type of a content entry.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindTable     Kind = "table"
	KindChart     Kind = "chart"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHeading, KindParagraph, KindTable, KindChart:
		return true
	}
	return false
}

// Fields carries the variant data for Build. Only the fields that belong to
// the requested kind are used.
type Fields struct {
	Text        string
	TableData   [][]string
	ImagePath   *string
	Description *string
	BBox        *layout.BBox
}

// Entry is one content item of a page. Text entries (heading, paragraph)
// never carry table data or an image path; table and chart entries never
// carry text. The zero value is not a valid entry; use the constructors.
type Entry struct {
	kind        Kind
	section     string
	subSection  *string
	text        string
	tableData   [][]string
	imagePath   *string
	description *string
	bbox        *layout.BBox
}

// Build creates an entry of the given kind. An empty section becomes
// DefaultSection.
func Build(kind Kind, section string, subSection *string, fields Fields) (Entry, error) {
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("unknown content type: %q", kind)
	}
	if section == "" {
		section = DefaultSection
	}

	e := Entry{
		kind:       kind,
		section:    section,
		subSection: subSection,
		bbox:       fields.BBox,
	}

	switch kind {
	case KindHeading, KindParagraph:
		e.text = fields.Text
	case KindTable:
		e.tableData = fields.TableData
		if e.tableData == nil {
			e.tableData = [][]string{}
		}
		e.description = nonEmpty(fields.Description)
	case KindChart:
		e.imagePath = nonEmpty(fields.ImagePath)
		e.description = nonEmpty(fields.Description)
	}

	return e, nil
}

// NewHeading creates a heading entry.
func NewHeading(section, text string, bbox *layout.BBox) Entry {
	e, _ := Build(KindHeading, section, nil, Fields{Text: text, BBox: bbox})
	return e
}

// NewParagraph creates a paragraph entry.
func NewParagraph(section, text string, bbox *layout.BBox) Entry {
	e, _ := Build(KindParagraph, section, nil, Fields{Text: text, BBox: bbox})
	return e
}

// NewTable creates a table entry.
func NewTable(section string, data [][]string, description string) Entry {
	e, _ := Build(KindTable, section, nil, Fields{TableData: data, Description: &description})
	return e
}

// NewChart creates a chart entry for an extracted image.
func NewChart(section, imagePath string, alt *string) Entry {
	e, _ := Build(KindChart, section, nil, Fields{ImagePath: &imagePath, Description: alt})
	return e
}

func (e Entry) Kind() Kind { return e.kind }

func (e Entry) Section() string { return e.section }

func (e Entry) SubSection() *string { return e.subSection }

// Text returns the entry text and whether the entry carries one.
func (e Entry) Text() (string, bool) {
	if e.kind != KindHeading && e.kind != KindParagraph {
		return "", false
	}
	return e.text, e.text != ""
}

func (e Entry) TableData() [][]string { return e.tableData }

func (e Entry) ImagePath() *string { return e.imagePath }

func (e Entry) Description() *string { return e.description }

func (e Entry) BBox() *layout.BBox { return e.bbox }

type textEntryJSON struct {
	Type       Kind         `json:"type"`
	Section    string       `json:"section"`
	SubSection *string      `json:"sub_section"`
	Text       string       `json:"text,omitempty"`
	BBox       *layout.BBox `json:"bbox,omitempty"`
}

type tableEntryJSON struct {
	Type        Kind         `json:"type"`
	Section     string       `json:"section"`
	SubSection  *string      `json:"sub_section"`
	TableData   [][]string   `json:"table_data"`
	Description *string      `json:"description"`
	BBox        *layout.BBox `json:"bbox,omitempty"`
}

type chartEntryJSON struct {
	Type        Kind         `json:"type"`
	Section     string       `json:"section"`
	SubSection  *string      `json:"sub_section"`
	ImagePath   *string      `json:"image_path"`
	Description *string      `json:"description"`
	BBox        *layout.BBox `json:"bbox,omitempty"`
}

// MarshalJSON writes only the fields that belong to the entry's kind.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case KindHeading, KindParagraph:
		return json.Marshal(textEntryJSON{
			Type:       e.kind,
			Section:    e.section,
			SubSection: e.subSection,
			Text:       e.text,
			BBox:       e.bbox,
		})
	case KindTable:
		return json.Marshal(tableEntryJSON{
			Type:        e.kind,
			Section:     e.section,
			SubSection:  e.subSection,
			TableData:   e.tableData,
			Description: e.description,
			BBox:        e.bbox,
		})
	case KindChart:
		return json.Marshal(chartEntryJSON{
			Type:        e.kind,
			Section:     e.section,
			SubSection:  e.subSection,
			ImagePath:   e.imagePath,
			Description: e.description,
			BBox:        e.bbox,
		})
	default:
		return nil, fmt.Errorf("cannot marshal entry with content type %q", e.kind)
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
