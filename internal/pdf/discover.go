package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discovery lists structurable PDF files under a directory
type Discovery struct {
	validator *Validator
}

// NewDiscovery creates a discovery helper that skips files the validator
// would reject without opening them
func NewDiscovery(maxFileSize int64) *Discovery {
	return &Discovery{validator: NewValidator(maxFileSize)}
}

// Find walks directory and returns PDF files whose name matches query,
// sorted by path. Hidden directories are skipped. A limit of zero or less
// returns every match.
func (d *Discovery) Find(directory, query string, limit int) (*PDFListFilesResult, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	result := &PDFListFilesResult{Directory: root, Query: query}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		// symlinks are not followed
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !matchesQuery(entry.Name(), query) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil //nolint:nilerr // Vanished files are skipped
		}
		if err := d.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // Invalid files are skipped
		}

		if limit > 0 && len(result.Files) >= limit {
			result.Truncated = true
			return filepath.SkipAll
		}
		result.Files = append(result.Files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	result.TotalCount = len(result.Files)
	return result, nil
}

// matchesQuery reports whether every word of query appears in a word of the
// file name
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitWords(name)
	for _, q := range splitWords(query) {
		found := false
		for _, w := range words {
			if strings.Contains(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
