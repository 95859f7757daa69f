package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdoutPath makes WriteFile write to standard output.
const StdoutPath = "-"

const (
	defaultDirPerm  = 0o750
	defaultFilePerm = 0o644
)

// Encode writes doc as UTF-8 JSON indented by two spaces. HTML characters
// are not escaped.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// WriteFile encodes doc into path, creating parent directories. The file is
// written through a temporary sibling and renamed into place.
func WriteFile(path string, doc *Document) error {
	if path == StdoutPath {
		return Encode(os.Stdout, doc)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmpName, defaultFilePerm); err != nil {
		return fmt.Errorf("failed to set output file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
