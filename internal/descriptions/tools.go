package descriptions

// Tool descriptions with practical examples and use cases

const (
	PDFStructureFileDescription = `Convert a PDF document into structured JSON: headings, paragraphs, tables and images, each tagged with the section it belongs to.

**When to use:** Need the content of a PDF in reading order with its document structure, not just flat text.

**Why it's useful:** Removes running headers and footers, repairs hyphenated line breaks, detects headings from font size, turns aligned columns into table rows, and saves embedded images to disk with their paths in the output.

**Examples:**
• Index a report by section: "Structure annual-report.pdf and list the paragraphs under each heading"
• Pull tables: "Structure price-list.pdf and read the rows of every table entry"
• Preview a long file: "Structure manual.pdf with max_pages 5"

**Common workflows:**
1. Document Ingestion: pdf_list_files → pdf_structure_file → feed entries to downstream systems
2. Quality Check: pdf_validate_file → pdf_structure_file → review the warnings block

**Best practices:** Use img_dir to keep images of different documents apart. Recoverable extraction failures are reported as warnings next to the document instead of failing the call.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before structuring a PDF, especially in automated workflows or when handling user uploads.

**Why it's useful:** Catches missing, empty, oversized and corrupted files early and reports the page count of readable ones.

**Examples:**
• Upload verification: "Check contract.pdf is valid before processing"
• Batch safety: "Validate every PDF from pdf_list_files before structuring them"

**Best practices:** Run this first when the source of the file is unknown.`

	PDFValidateStructureDescription = `Check that a JSON file has the document shape produced by pdf_structure_file.

**When to use:** Before consuming a structured document that was stored earlier or produced elsewhere.

**Why it's useful:** Confirms the pages list, page numbers, content lists and entry types are all present, and names the first part that is not.

**Examples:**
• Pipeline gate: "Validate output/report.json before loading it"`

	PDFListFilesDescription = `List PDF files in the server directory with optional fuzzy name matching.

**When to use:** Need to find which documents are available before structuring them.

**Why it's useful:** Walks the directory tree, skips hidden directories and symlinks, and matches the query against the whole name or word by word.

**Examples:**
• Find reports: "List PDFs matching 'quarterly report'"
• Sample the corpus: "List the first 10 PDF files"

**Best practices:** Use limit on large directories; the result says when it was truncated.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_structure_file":     PDFStructureFileDescription,
	"pdf_validate_file":      PDFValidateFileDescription,
	"pdf_validate_structure": PDFValidateStructureDescription,
	"pdf_list_files":         PDFListFilesDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
