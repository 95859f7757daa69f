package layout

import (
	"strings"
)

const (
	// HeaderFooterRatio is the share of pages a line must repeat on before it
	// counts as a running header or footer.
	HeaderFooterRatio = 0.3

	// candidateMaxRunes bounds the length of a header/footer candidate.
	candidateMaxRunes = 200
)

// DetectHeadersFooters finds the lines that open (headers) or close (footers)
// many pages. A candidate is the first or last non-blank trimmed line of a
// page, cut to 200 characters. It is reported when it occurs on at least
// max(1, floor(0.3 * len(pageTexts))) pages. Blank pages still count toward
// the page total.
func DetectHeadersFooters(pageTexts []string) (headers, footers Set) {
	firstCounts := make(map[string]int)
	lastCounts := make(map[string]int)

	for _, text := range pageTexts {
		lines := nonBlankLines(text)
		if len(lines) == 0 {
			continue
		}
		firstCounts[truncateRunes(lines[0], candidateMaxRunes)]++
		lastCounts[truncateRunes(lines[len(lines)-1], candidateMaxRunes)]++
	}

	threshold := max(1, int(float64(len(pageTexts))*HeaderFooterRatio))

	headers = make(Set)
	for line, count := range firstCounts {
		if count >= threshold {
			headers[line] = struct{}{}
		}
	}

	footers = make(Set)
	for line, count := range lastCounts {
		if count >= threshold {
			footers[line] = struct{}{}
		}
	}

	return headers, footers
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(text, isLineBoundary) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
