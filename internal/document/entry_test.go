package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdfstruct/internal/layout"
)

func asMap(t *testing.T, e Entry) map[string]any {
	t.Helper()
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestEntryFieldsByKind(t *testing.T) {
	box := layout.BBox{1, 2, 3, 4}
	alt := "page_001_img_1.png"

	tests := []struct {
		name    string
		entry   Entry
		present []string
		absent  []string
	}{
		{
			name:    "heading",
			entry:   NewHeading("Intro", "Intro", &box),
			present: []string{"type", "section", "sub_section", "text", "bbox"},
			absent:  []string{"table_data", "image_path", "description"},
		},
		{
			name:    "paragraph without bbox",
			entry:   NewParagraph("Intro", "Body text", nil),
			present: []string{"type", "section", "sub_section", "text"},
			absent:  []string{"table_data", "image_path", "description", "bbox"},
		},
		{
			name:    "table",
			entry:   NewTable("Intro", [][]string{{"a"}}, "Table extracted by grid (table #1)"),
			present: []string{"type", "section", "sub_section", "table_data", "description"},
			absent:  []string{"text", "image_path", "bbox"},
		},
		{
			name:    "chart",
			entry:   NewChart("Intro", "output/images/page_001_img_1.png", &alt),
			present: []string{"type", "section", "sub_section", "image_path", "description"},
			absent:  []string{"text", "table_data", "bbox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := asMap(t, tt.entry)
			for _, key := range tt.present {
				assert.Contains(t, m, key)
			}
			for _, key := range tt.absent {
				assert.NotContains(t, m, key)
			}
			assert.Nil(t, m["sub_section"])
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("empty section defaults", func(t *testing.T) {
		e, err := Build(KindParagraph, "", nil, Fields{Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, DefaultSection, e.Section())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Build(Kind("figure"), "s", nil, Fields{})
		assert.Error(t, err)
	})

	t.Run("variant fields are dropped for other kinds", func(t *testing.T) {
		path := "img.png"
		e, err := Build(KindTable, "s", nil, Fields{Text: "ignored", ImagePath: &path, TableData: [][]string{{"x"}}})
		require.NoError(t, err)

		_, hasText := e.Text()
		assert.False(t, hasText)
		assert.Nil(t, e.ImagePath())
		assert.Equal(t, [][]string{{"x"}}, e.TableData())
	})

	t.Run("empty heading text is omitted", func(t *testing.T) {
		m := asMap(t, NewHeading("s", "", nil))
		assert.NotContains(t, m, "text")
	})

	t.Run("chart without alt has null description", func(t *testing.T) {
		m := asMap(t, NewChart("s", "a.png", nil))
		assert.Contains(t, m, "description")
		assert.Nil(t, m["description"])
		assert.Equal(t, "a.png", m["image_path"])
	})

	t.Run("nil table data encodes as empty list", func(t *testing.T) {
		m := asMap(t, NewTable("s", nil, "d"))
		assert.Equal(t, []any{}, m["table_data"])
	})
}

func TestEntryMarshalBBox(t *testing.T) {
	box := layout.BBox{10, 20.5, 30, 40}
	raw, err := json.Marshal(NewParagraph("S", "text", &box))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"paragraph","section":"S","sub_section":null,"text":"text","bbox":[10,20.5,30,40]}`,
		string(raw))
}

func TestZeroEntryDoesNotMarshal(t *testing.T) {
	_, err := json.Marshal(Entry{})
	assert.Error(t, err)
}

func TestDocumentNumPages(t *testing.T) {
	pages := []Page{NewPage(1), {PageNumber: 2}}
	doc := New("in.pdf", pages)

	assert.Equal(t, len(doc.Pages), doc.NumPages)
	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.NotNil(t, page.Content)
	}

	raw, err := json.Marshal(New("empty.pdf", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"source_file":"empty.pdf","num_pages":0,"pages":[]}`, string(raw))
}

func TestDocumentCounts(t *testing.T) {
	page := NewPage(1)
	page.Add(NewHeading("A", "A", nil), NewParagraph("A", "b", nil), NewParagraph("A", "c", nil))
	doc := New("x.pdf", []Page{page})

	assert.Equal(t, map[Kind]int{KindHeading: 1, KindParagraph: 2}, doc.Counts())
}
