package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/pdfstruct/internal/config"
	"github.com/a3tai/pdfstruct/internal/document"
	"github.com/a3tai/pdfstruct/internal/images"
	"github.com/a3tai/pdfstruct/internal/logger"
	"github.com/a3tai/pdfstruct/internal/mcp"
	"github.com/a3tai/pdfstruct/internal/metrics"
	"github.com/a3tai/pdfstruct/internal/ocr"
	"github.com/a3tai/pdfstruct/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args[0], args[1:])
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(stdout)
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitUsage
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	log := logger.NewLogger(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.Pretty,
		Output: stderr,
	})
	log.Debug().Str("config", cfg.String()).Msg("Starting")

	m := metrics.NewMetrics()

	recognizer, closeOCR := setupOCR(cfg, log)
	defer closeOCR()

	svcConfig := pdf.ServiceConfig{
		MaxFileSize: cfg.MaxFileSize,
		ImageDir:    cfg.ImageDir,
		Logger:      log,
		Metrics:     m,
		Recognizer:  recognizer,
	}
	if cfg.IsStdioMode() {
		svcConfig.ConfinedDirectory = cfg.PDFDirectory
	}

	pdfService, err := pdf.NewService(svcConfig)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create PDF service")
		return exitFailed
	}

	if cfg.IsStdioMode() {
		code := runStdioMode(ctx, cfg, pdfService, log)
		writeMetrics(cfg, m, log)
		return code
	}

	code := runCLIMode(ctx, cfg, pdfService, log, stdout)
	writeMetrics(cfg, m, log)
	return code
}

// setupOCR creates the image text recognizer when --ocr is set. A build
// without OCR support logs a warning and continues without it.
func setupOCR(cfg *config.Config, log *logger.Logger) (images.Recognizer, func()) {
	noop := func() {}
	if !cfg.OCR {
		return nil, noop
	}

	client, err := ocr.New(cfg.OCRLanguage)
	if err != nil {
		if errors.Is(err, ocr.ErrOCRNotEnabled) {
			log.Warn().Err(err).Msg("--ocr ignored")
		} else {
			log.Warn().Err(err).Msg("OCR unavailable, continuing without it")
		}
		return nil, noop
	}

	return client, func() { _ = client.Close() }
}

// runCLIMode structures one file and writes the JSON document
func runCLIMode(ctx context.Context, cfg *config.Config, pdfService *pdf.Service, log *logger.Logger, stdout io.Writer) int {
	result, err := pdfService.PDFStructureFile(ctx, pdf.PDFStructureFileRequest{
		Path:     cfg.Input,
		MaxPages: cfg.MaxPages,
	})
	if err != nil {
		log.Error().Err(err).Str("input", cfg.Input).Msg("Failed to structure PDF")
		return exitFailed
	}

	if cfg.WritesToStdout() {
		err = document.Encode(stdout, result.Document)
	} else {
		err = document.WriteFile(cfg.Output, result.Document)
	}
	if err != nil {
		log.Error().Err(err).Str("output", cfg.Output).Msg("Failed to write output")
		return exitFailed
	}

	counts := result.Document.Counts()
	log.Info().
		Str("output", cfg.Output).
		Str("image_dir", result.ImageDir).
		Int("headings", counts[document.KindHeading]).
		Int("paragraphs", counts[document.KindParagraph]).
		Int("tables", counts[document.KindTable]).
		Int("charts", counts[document.KindChart]).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Duration).
		Msgf("Done. Extracted %d pages", result.Document.NumPages)

	return exitOK
}

// runStdioMode serves MCP until stdin closes or a signal arrives
func runStdioMode(ctx context.Context, cfg *config.Config, pdfService *pdf.Service, log *logger.Logger) int {
	server, err := mcp.NewServer(cfg, pdfService, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create MCP server")
		return exitFailed
	}

	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
		return exitFailed
	}
	return exitOK
}

func writeMetrics(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("Failed to write metrics")
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "pdfstruct\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
	fmt.Fprintf(w, "OCR: %t\n", ocr.Enabled())
}
