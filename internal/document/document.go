package document

// Page is the content of one processed page. PageNumber is 1-based.
type Page struct {
	PageNumber int     `json:"page_number"`
	Content    []Entry `json:"content"`
}

// NewPage creates a page with an empty, non-nil content list.
func NewPage(number int) Page {
	return Page{PageNumber: number, Content: []Entry{}}
}

// Add appends entries to the page.
func (p *Page) Add(entries ...Entry) {
	p.Content = append(p.Content, entries...)
}

// Document is the structured representation of a PDF.
type Document struct {
	SourceFile string `json:"source_file"`
	NumPages   int    `json:"num_pages"`
	Pages      []Page `json:"pages"`
}

// New creates a document. NumPages always equals len(pages).
func New(sourceFile string, pages []Page) *Document {
	if pages == nil {
		pages = []Page{}
	}
	for i := range pages {
		if pages[i].Content == nil {
			pages[i].Content = []Entry{}
		}
	}
	return &Document{
		SourceFile: sourceFile,
		NumPages:   len(pages),
		Pages:      pages,
	}
}

// Counts returns the number of entries per kind across all pages.
func (d *Document) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, page := range d.Pages {
		for _, entry := range page.Content {
			counts[entry.Kind()]++
		}
	}
	return counts
}
