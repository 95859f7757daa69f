package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidDocument is wrapped by every validation failure.
var ErrInvalidDocument = errors.New("invalid document")

// ValidationError points at the part of the document that failed.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidDocument, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidDocument, e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

func invalid(path, reason string) error {
	return &ValidationError{Path: path, Reason: reason}
}

// Validate checks the structural shape of a decoded JSON document: an object
// with a "pages" list, every page an object with "page_number" and a
// "content" list, every content item an object with a "type".
func Validate(data any) error {
	root, ok := data.(map[string]any)
	if !ok {
		return invalid("", "top-level value must be an object")
	}

	rawPages, ok := root["pages"]
	if !ok {
		return invalid("", "missing pages")
	}
	pages, ok := rawPages.([]any)
	if !ok {
		return invalid("pages", "must be a list")
	}

	for i, rawPage := range pages {
		path := fmt.Sprintf("pages[%d]", i)
		page, ok := rawPage.(map[string]any)
		if !ok {
			return invalid(path, "must be an object")
		}
		if _, ok := page["page_number"]; !ok {
			return invalid(path, "missing page_number")
		}
		rawContent, ok := page["content"]
		if !ok {
			return invalid(path, "missing content")
		}
		content, ok := rawContent.([]any)
		if !ok {
			return invalid(path+".content", "must be a list")
		}
		for j, rawItem := range content {
			itemPath := fmt.Sprintf("%s.content[%d]", path, j)
			item, ok := rawItem.(map[string]any)
			if !ok {
				return invalid(itemPath, "must be an object")
			}
			if _, ok := item["type"]; !ok {
				return invalid(itemPath, "missing type")
			}
		}
	}

	return nil
}

// ValidateBytes decodes raw JSON and validates it.
func ValidateBytes(raw []byte) error {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return Validate(data)
}

// ValidateFile reads and validates a JSON document on disk.
func ValidateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateBytes(raw)
}
