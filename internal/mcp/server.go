package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/pdfstruct/internal/config"
	"github.com/a3tai/pdfstruct/internal/descriptions"
	"github.com/a3tai/pdfstruct/internal/document"
	"github.com/a3tai/pdfstruct/internal/logger"
	"github.com/a3tai/pdfstruct/internal/pdf"
)

// Tool names
const (
	ToolStructureFile     = "pdf_structure_file"
	ToolValidateFile      = "pdf_validate_file"
	ToolValidateStructure = "pdf_validate_structure"
	ToolListFiles         = "pdf_list_files"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	log        *logger.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, log *logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		log:        log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	structureTool := mcp.NewTool(
		ToolStructureFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolStructureFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the server directory"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Process at most this many pages (0 or omitted = all)"),
			mcp.Min(0),
		),
		mcp.WithString("img_dir",
			mcp.Description("Directory for extracted images (uses the server default if empty)"),
		),
	)
	s.mcpServer.AddTool(structureTool, s.handlePDFStructureFile)

	validateFileTool := mcp.NewTool(
		ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handlePDFValidateFile)

	validateStructureTool := mcp.NewTool(
		ToolValidateStructure,
		mcp.WithDescription(descriptions.GetToolDescription(ToolValidateStructure)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the JSON file"),
		),
	)
	s.mcpServer.AddTool(validateStructureTool, s.handlePDFValidateStructure)

	listFilesTool := mcp.NewTool(
		ToolListFiles,
		mcp.WithDescription(descriptions.GetToolDescription(ToolListFiles)),
		mcp.WithString("query",
			mcp.Description("Optional search query matched against file names"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to return (0 or omitted = all)"),
			mcp.Min(0),
		),
	)
	s.mcpServer.AddTool(listFilesTool, s.handlePDFListFiles)
}

// Handler functions
func (s *Server) handlePDFStructureFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxPages := request.GetInt("max_pages", 0)
	if maxPages < 0 {
		return mcp.NewToolResultError("max_pages cannot be negative"), nil
	}

	toolLog := s.log.MCPLogger(ToolStructureFile)
	req := pdf.PDFStructureFileRequest{
		Path:     path,
		ImageDir: request.GetString("img_dir", ""),
		MaxPages: maxPages,
	}

	result, err := s.pdfService.PDFStructureFile(ctx, req)
	if err != nil {
		toolLog.Error().Err(err).Str("path", path).Msg("Structuring failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if err := document.Encode(&buf, result.Document); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	toolLog.Info().
		Str("path", path).
		Int("pages", result.Document.NumPages).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Duration).
		Msg("Structured document")

	response := mcp.NewToolResultText(buf.String())
	if len(result.Warnings) > 0 {
		response.Content = append(response.Content, mcp.NewTextContent(formatWarnings(result)))
	}
	return response, nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)), nil
}

func (s *Server) handlePDFValidateStructure(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateStructure(pdf.PDFValidateStructureRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("invalid: %s", result.Message)), nil
	}
	return mcp.NewToolResultText("valid"), nil
}

func (s *Server) handlePDFListFiles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.PDFListFilesRequest{
		Query: request.GetString("query", ""),
		Limit: request.GetInt("limit", 0),
	}

	result, err := s.pdfService.PDFListFiles(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatListFiles(result)), nil
}

func formatWarnings(result *pdf.PDFStructureFileResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Warnings (%d):\n", len(result.Warnings))
	for _, msg := range result.WarningMessages() {
		fmt.Fprintf(&b, "- %s\n", msg)
	}
	return b.String()
}

func formatListFiles(result *pdf.PDFListFilesResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d PDF file(s) in %s", result.TotalCount, result.Directory)
	if result.Query != "" {
		fmt.Fprintf(&b, " matching %q", result.Query)
	}
	b.WriteString("\n")
	for i, file := range result.Files {
		fmt.Fprintf(&b, "%d. %s (%d bytes, modified %s)\n", i+1, file.Path, file.Size, file.ModifiedTime)
	}
	if result.Truncated {
		b.WriteString("More files exist; raise the limit to see them.\n")
	}
	return b.String()
}

// Run serves MCP over the process's standard input and output until the
// input closes or ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over in and out
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info().
		Str("server", s.config.ServerName).
		Str("version", s.config.Version).
		Str("directory", s.config.PDFDirectory).
		Msg("Starting MCP server on stdio")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(stdlog.New(s.log.GetZerolog(), "", 0))

	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
