package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdfstruct/internal/document"
	"github.com/a3tai/pdfstruct/internal/metrics"
	"github.com/a3tai/pdfstruct/internal/pdf/pdftest"
)

func newTestService(t *testing.T, cfg ServiceConfig) *Service {
	t.Helper()
	if cfg.ImageDir == "" {
		cfg.ImageDir = filepath.Join(t.TempDir(), "images")
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	s, err := NewService(cfg)
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	_, err := NewService(ServiceConfig{MaxFileSize: 1024})
	assert.Error(t, err, "image directory is required")

	s, err := NewService(ServiceConfig{MaxFileSize: 1024, ImageDir: "out/images"})
	require.NoError(t, err)
	assert.Equal(t, int64(1024), s.GetMaxFileSize())
	assert.Equal(t, "out/images", s.GetImageDir())
}

func TestService_PDFStructureFile(t *testing.T) {
	path := pdftest.Write(t, "report.pdf", reportPages()...)
	m := metrics.NewMetrics()
	s := newTestService(t, ServiceConfig{Metrics: m})

	result, err := s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: path})
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	doc := result.Document
	assert.Equal(t, "report.pdf", doc.SourceFile)
	assert.Equal(t, 2, doc.NumPages)
	require.Len(t, doc.Pages, 2)

	type row struct {
		kind    document.Kind
		section string
		text    string
	}
	collect := func(page document.Page) []row {
		var out []row
		for _, e := range page.Content {
			text, _ := e.Text()
			out = append(out, row{e.Kind(), e.Section(), text})
		}
		return out
	}

	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, []row{
		{document.KindHeading, "Annual Report", "Annual Report"},
		{document.KindParagraph, "Annual Report", "Revenue grew in every region this year. Costs were flat."},
	}, collect(doc.Pages[0]))

	assert.Equal(t, 2, doc.Pages[1].PageNumber)
	assert.Equal(t, []row{
		{document.KindHeading, "Outlook", "Outlook"},
		{document.KindParagraph, "Outlook", "Next year looks stable."},
	}, collect(doc.Pages[1]))

	assert.DirExists(t, result.ImageDir)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesProcessed))

	// the result must satisfy the output validator
	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, document.WriteFile(out, doc))
	assert.NoError(t, document.ValidateFile(out))
}

func TestService_PDFStructureFile_MaxPages(t *testing.T) {
	path := pdftest.Write(t, "report.pdf", reportPages()...)
	s := newTestService(t, ServiceConfig{})

	result, err := s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: path, MaxPages: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Document.NumPages)
	assert.Len(t, result.Document.Pages, 1)
}

func TestService_PDFStructureFile_ImageDirOverride(t *testing.T) {
	path := pdftest.Write(t, "report.pdf", reportPages()...)
	s := newTestService(t, ServiceConfig{})
	override := filepath.Join(t.TempDir(), "custom")

	result, err := s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: path, ImageDir: override})
	require.NoError(t, err)

	want, err := filepath.Abs(override)
	require.NoError(t, err)
	assert.Equal(t, want, result.ImageDir)
	assert.DirExists(t, override)
}

func TestService_PDFStructureFile_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pdf at all"), 0o644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("x"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "empty path", path: "", wantErr: ErrEmptyPath},
		{name: "wrong extension", path: text, wantErr: ErrNotPDF},
		{name: "missing file", path: filepath.Join(dir, "missing.pdf")},
		{name: "not a pdf", path: garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics()
			s := newTestService(t, ServiceConfig{Metrics: m})

			result, err := s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: tt.path})
			require.Error(t, err)
			assert.Nil(t, result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("error")))
		})
	}
}

func TestService_PDFStructureFile_TooLarge(t *testing.T) {
	path := pdftest.Write(t, "report.pdf", reportPages()...)
	s := newTestService(t, ServiceConfig{MaxFileSize: 16})

	_, err := s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: path})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestService_PDFStructureFile_Cancelled(t *testing.T) {
	path := pdftest.Write(t, "report.pdf", reportPages()...)
	s := newTestService(t, ServiceConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.PDFStructureFile(ctx, PDFStructureFileRequest{Path: path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Confined(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "report.pdf")
	require.NoError(t, os.WriteFile(inside, pdftest.Build(reportPages()...), 0o644))
	outside := pdftest.Write(t, "outside.pdf", reportPages()...)

	s := newTestService(t, ServiceConfig{
		ConfinedDirectory: root,
		ImageDir:          filepath.Join(root, "images"),
	})

	// relative paths resolve against the confined directory
	result, err := s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: "report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Document.NumPages)
	assert.Equal(t, "report.pdf", result.Document.SourceFile)
	assert.NotContains(t, result.Document.SourceFile, root)

	_, err = s.PDFStructureFile(context.Background(), PDFStructureFileRequest{Path: outside})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security validation failed")

	_, err = s.PDFStructureFile(context.Background(), PDFStructureFileRequest{
		Path:     "report.pdf",
		ImageDir: filepath.Join(t.TempDir(), "elsewhere"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security validation failed")

	_, err = s.PDFValidateFile(PDFValidateFileRequest{Path: outside})
	assert.Error(t, err)

	listed, err := s.PDFListFiles(PDFListFilesRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Files, 1)
	assert.Equal(t, "report.pdf", listed.Files[0].Name)
}

func TestService_PDFValidateFile(t *testing.T) {
	path := pdftest.Write(t, "report.pdf", reportPages()...)
	s := newTestService(t, ServiceConfig{})

	result, err := s.PDFValidateFile(PDFValidateFileRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Pages)
	assert.True(t, s.IsValidPDF(path))

	result, err = s.PDFValidateFile(PDFValidateFileRequest{Path: filepath.Join(t.TempDir(), "missing.pdf")})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)
}

func TestService_PDFValidateStructure(t *testing.T) {
	s := newTestService(t, ServiceConfig{})
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, document.WriteFile(good, document.New("in.pdf", []document.Page{document.NewPage(1)})))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"pages": [{"content": []}]}`), 0o644))

	result, err := s.PDFValidateStructure(PDFValidateStructureRequest{Path: good})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Message)

	result, err = s.PDFValidateStructure(PDFValidateStructureRequest{Path: bad})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "page_number")

	_, err = s.PDFValidateStructure(PDFValidateStructureRequest{})
	assert.ErrorIs(t, err, ErrEmptyPath)
}
