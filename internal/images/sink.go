package images

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultDirPerm  = 0o750
	defaultFilePerm = 0o644
)

// Sink persists image bytes under a name and returns the path recorded in
// the output document.
type Sink interface {
	Write(name string, data []byte) (string, error)
}

// FileSink writes images into a directory and reports their paths relative
// to a root directory, using forward slashes.
type FileSink struct {
	dir  string
	root string
}

// NewFileSink creates dir if needed. Paths are reported relative to the
// current working directory.
func NewFileSink(dir string) (*FileSink, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewFileSinkWithRoot(dir, root)
}

// NewFileSinkWithRoot creates dir if needed. Paths are reported relative to
// root.
func NewFileSinkWithRoot(dir, root string) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("image directory cannot be empty")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	if err := os.MkdirAll(absDir, defaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	return &FileSink{dir: absDir, root: absRoot}, nil
}

// Dir returns the absolute directory images are written to.
func (s *FileSink) Dir() string {
	return s.dir
}

// Write stores data as name inside the sink directory.
func (s *FileSink) Write(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid image name: %q", name)
	}

	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, defaultFilePerm); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", name, err)
	}

	rel, err := filepath.Rel(s.root, target)
	if err != nil {
		return filepath.ToSlash(target), nil
	}
	return filepath.ToSlash(rel), nil
}
