//go:build ocr

// Package ocr recognizes text in extracted images so charts and figures get
// a useful description.
//
// This implementation wraps the Tesseract engine via gosseract and needs
// Tesseract installed on the system:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract client. It is safe for concurrent use; calls are
// serialized because the underlying engine is not.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a client for the given language, or DefaultLanguage when empty.
// Close it when done.
func New(language string) (*Client, error) {
	if language == "" {
		language = DefaultLanguage
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", language, err)
	}

	return &Client{client: client}, nil
}

// Enabled reports whether OCR support is compiled in.
func Enabled() bool { return true }

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Recognize returns the trimmed text found in encoded image data.
func (c *Client) Recognize(data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
