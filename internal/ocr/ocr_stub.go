//go:build !ocr

// Package ocr recognizes text in extracted images so charts and figures get
// a useful description.
//
// This is the stub used when the "ocr" build tag is not set. Every call
// returns ErrOCRNotEnabled. Rebuild with -tags ocr to enable Tesseract.
package ocr

// Client is a stub OCR client.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Enabled reports whether OCR support is compiled in.
func Enabled() bool { return false }

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrOCRNotEnabled.
func (c *Client) Recognize([]byte) (string, error) {
	return "", ErrOCRNotEnabled
}
