// Package images filters, deduplicates and persists images pulled from PDF
// pages.
package images

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// MinWidth and MinHeight are the smallest dimensions an image may have to
	// be kept. Anything smaller is treated as decoration.
	MinWidth  = 50
	MinHeight = 50
)

// Verdict is the outcome of checking one image against the filter.
type Verdict string

const (
	VerdictAdmitted  Verdict = "admitted"
	VerdictDuplicate Verdict = "duplicate"
	VerdictTooSmall  Verdict = "too_small"
)

// Deduplicator remembers the content hashes of admitted images for the
// duration of one run. It is not safe for concurrent use.
type Deduplicator struct {
	seen      map[string]struct{}
	minWidth  int
	minHeight int
}

// NewDeduplicator creates an empty deduplicator with the default size limits.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen:      make(map[string]struct{}),
		minWidth:  MinWidth,
		minHeight: MinHeight,
	}
}

// Check decides whether an image is admitted. On admission its hash is
// recorded so identical bytes are rejected for the rest of the run.
func (d *Deduplicator) Check(data []byte, width, height int) Verdict {
	hash := ContentHash(data)
	if _, ok := d.seen[hash]; ok {
		return VerdictDuplicate
	}
	if width < d.minWidth || height < d.minHeight {
		return VerdictTooSmall
	}
	d.seen[hash] = struct{}{}
	return VerdictAdmitted
}

// Admit reports whether the image should be kept.
func (d *Deduplicator) Admit(data []byte, width, height int) bool {
	return d.Check(data, width, height) == VerdictAdmitted
}

// Len returns the number of distinct images admitted so far.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// ContentHash returns the hex encoded SHA-256 of data.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
