package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultOutput      = "output/output.json"
	DefaultImageDir    = "output/images"
	DefaultLogLevel    = "info"
	DefaultOCRLanguage = "eng"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "PDFSTRUCT"
)

// ErrVersionRequested is returned when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the PDF structuring tool
type Config struct {
	// Run mode: "cli" structures one file, "stdio" serves MCP
	Mode string

	// CLI configuration
	Input       string
	Output      string // "-" writes to stdout
	ImageDir    string
	MaxPages    int // 0 processes every page
	OCR         bool
	OCRLanguage string
	MetricsFile string

	// MCP configuration
	PDFDirectory string
	ServerName   string

	// Application configuration
	Version     string
	Debug       bool
	LogLevel    string
	Pretty      bool
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeCLI,
		Output:       DefaultOutput,
		ImageDir:     DefaultImageDir,
		OCRLanguage:  DefaultOCRLanguage,
		PDFDirectory: currentDir,
		ServerName:   "pdfstruct",
		Version:      "1.0.0",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args (without the program name) together with PDFSTRUCT_*
// environment variables. Flags take precedence over the environment.
func Load(program string, args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(flags, cfg)
	bindFlagsToViper(v, flags)
	setupUsageMessage(flags, program)

	// Check for version flag before parsing
	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)

	// a bare argument is the input file
	if cfg.Input == "" && flags.NArg() > 0 {
		cfg.Input = flags.Arg(0)
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("img-dir", cfg.ImageDir)
	v.SetDefault("ocr-lang", cfg.OCRLanguage)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Run mode: 'cli' to structure one file, 'stdio' for an MCP server on standard I/O")
	flags.StringP("input", "i", cfg.Input, "Input PDF file (cli mode)")
	flags.StringP("output", "o", cfg.Output, "Output JSON file, '-' for stdout (cli mode)")
	flags.StringP("img-dir", "m", cfg.ImageDir, "Directory for extracted images")
	flags.Int("max-pages", cfg.MaxPages, "Process at most this many pages (0 = all)")
	flags.Bool("ocr", cfg.OCR, "Describe extracted images with OCR text (requires a build with -tags ocr)")
	flags.String("ocr-lang", cfg.OCRLanguage, "Tesseract language for OCR")
	flags.String("metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file after the run")
	flags.String("dir", cfg.PDFDirectory, "Directory the MCP server may read PDFs from (stdio mode)")
	flags.Bool("debug", cfg.Debug, "Enable debug logging")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Bool("pretty", cfg.Pretty, "Human readable console logs")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(flags *pflag.FlagSet, program string) {
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", program)
		fmt.Fprintf(os.Stderr, "\npdfstruct - convert PDF documents into structured JSON\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i report.pdf                            "+
			"# writes output/output.json and output/images/\n", program)
		fmt.Fprintf(os.Stderr, "  %s -i report.pdf -o - --max-pages 5         "+
			"# first five pages to stdout\n", program)
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs         # MCP server\n", program)
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_OUTPUT      Output file\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_IMG_DIR     Image directory\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_MAX_PAGES   Page limit\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_DIR         PDF directory (stdio mode)\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  PDFSTRUCT_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Input = v.GetString("input")
	cfg.Output = v.GetString("output")
	cfg.ImageDir = v.GetString("img-dir")
	cfg.MaxPages = v.GetInt("max-pages")
	cfg.OCR = v.GetBool("ocr")
	cfg.OCRLanguage = v.GetString("ocr-lang")
	cfg.MetricsFile = v.GetString("metrics-file")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.Debug = v.GetBool("debug")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.Pretty = v.GetBool("pretty")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI {
		if c.Input == "" {
			return errors.New("input PDF file is required")
		}
		if c.Output == "" {
			return errors.New("output path cannot be empty")
		}
	}

	if c.ImageDir == "" {
		return errors.New("image directory cannot be empty")
	}

	if c.MaxPages < 0 {
		return errors.New("max pages cannot be negative")
	}

	if c.Mode == ModeStdio {
		if c.PDFDirectory == "" {
			return errors.New("PDF directory cannot be empty")
		}
		// Check if PDF directory exists, create if it doesn't
		if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
			if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true if the tool runs as an MCP server on stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsCLIMode returns true if the tool structures a single file
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// WritesToStdout returns true if the document goes to standard output
func (c *Config) WritesToStdout() bool {
	return c.Output == "-"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, ImageDir: %s, MaxPages: %d, OCR: %t, PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Input, c.Output, c.ImageDir, c.MaxPages, c.OCR, c.PDFDirectory, c.LogLevel, c.MaxFileSize)
}
