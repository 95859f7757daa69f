package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/a3tai/pdfstruct/internal/document"
	"github.com/a3tai/pdfstruct/internal/images"
	"github.com/a3tai/pdfstruct/internal/logger"
	"github.com/a3tai/pdfstruct/internal/metrics"
	"github.com/a3tai/pdfstruct/internal/pdf/security"
	"github.com/a3tai/pdfstruct/internal/pipeline"
)

// ServiceConfig configures a Service
type ServiceConfig struct {
	MaxFileSize int64

	// ImageDir is where extracted images are written unless a request
	// overrides it
	ImageDir string

	// ConfinedDirectory, when set, restricts every input and image path to
	// that directory
	ConfinedDirectory string

	Logger     *logger.Logger
	Metrics    *metrics.Metrics
	Recognizer images.Recognizer
}

// Service handles PDF structuring by orchestrating the PDF components
type Service struct {
	maxFileSize   int64
	imageDir      string
	validator     *Validator
	pathValidator *security.PathValidator
	discovery     *Discovery
	log           *logger.Logger
	metrics       *metrics.Metrics
	recognizer    images.Recognizer
}

// NewService creates a new PDF service with all components
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.ImageDir == "" {
		return nil, fmt.Errorf("image directory cannot be empty")
	}

	s := &Service{
		maxFileSize: cfg.MaxFileSize,
		imageDir:    cfg.ImageDir,
		validator:   NewValidator(cfg.MaxFileSize),
		discovery:   NewDiscovery(cfg.MaxFileSize),
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
		recognizer:  cfg.Recognizer,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	if cfg.ConfinedDirectory != "" {
		pathValidator, err := security.NewPathValidator(cfg.ConfinedDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to create path validator: %w", err)
		}
		s.pathValidator = pathValidator
	}

	return s, nil
}

// PDFStructureFile converts a PDF file into a structured document. Images
// are written to the request's image directory. Failures that only affect
// part of a page are returned as warnings in the result.
func (s *Service) PDFStructureFile(ctx context.Context, req PDFStructureFileRequest) (result *PDFStructureFileResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDocument(time.Since(start), err)
	}()

	imageDir := req.ImageDir
	if imageDir == "" {
		imageDir = s.imageDir
	}

	if s.pathValidator != nil {
		if req.Path, err = s.resolve(req.Path); err != nil {
			return nil, err
		}
		if err = s.pathValidator.ValidateDirectory(imageDir); err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
		if imageDir, err = s.resolve(imageDir); err != nil {
			return nil, err
		}
	}

	if err := s.validator.Validate(req.Path); err != nil {
		return nil, err
	}

	reader, err := OpenReader(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer reader.Close()

	sink, err := images.NewFileSink(imageDir)
	if err != nil {
		return nil, err
	}

	extractor := OpenImageExtractor(req.Path)
	defer extractor.Close()

	log := s.log.PipelineLogger(req.Path)
	if extractor.Err() != nil {
		log.Warn().Err(extractor.Err()).Msg("Image extraction unavailable for this document")
	}

	options := []pipeline.Option{
		pipeline.WithTables(NewGridTables(reader)),
		pipeline.WithImages(extractor, sink),
		pipeline.WithLogger(log),
		pipeline.WithMetrics(s.metrics),
	}
	if s.recognizer != nil {
		options = append(options, pipeline.WithRecognizer(s.recognizer))
	}

	parser, err := pipeline.NewParser(reader, pipeline.Options{
		SourceFile: filepath.Base(req.Path),
		MaxPages:   req.MaxPages,
	}, options...)
	if err != nil {
		return nil, err
	}

	res, err := parser.Parse(ctx)
	if err != nil {
		return nil, err
	}

	return &PDFStructureFileResult{
		Document: res.Document,
		Warnings: res.Warnings,
		ImageDir: sink.Dir(),
		Duration: time.Since(start),
	}, nil
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	if s.pathValidator != nil {
		path, err := s.resolve(req.Path)
		if err != nil {
			return nil, err
		}
		req.Path = path
	}
	return s.validator.ValidateFile(req)
}

// PDFValidateStructure checks that a JSON file has the structured document
// shape
func (s *Service) PDFValidateStructure(req PDFValidateStructureRequest) (*PDFValidateStructureResult, error) {
	if req.Path == "" {
		return nil, ErrEmptyPath
	}
	if s.pathValidator != nil {
		path, err := s.resolve(req.Path)
		if err != nil {
			return nil, err
		}
		req.Path = path
	}

	result := &PDFValidateStructureResult{Path: req.Path}
	if err := document.ValidateFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Validation failures are part of the result
	}

	result.Valid = true
	return result, nil
}

// PDFListFiles lists the PDF files under the confined directory, or the
// working directory when the service is not confined
func (s *Service) PDFListFiles(req PDFListFilesRequest) (*PDFListFilesResult, error) {
	dir := "."
	if s.pathValidator != nil {
		dir = s.pathValidator.GetConfiguredDirectory()
	}
	return s.discovery.Find(dir, req.Query, req.Limit)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// GetImageDir returns the default image directory
func (s *Service) GetImageDir() string {
	return s.imageDir
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}
