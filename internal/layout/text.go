package layout

import (
	"regexp"
	"strings"
)

// space matches Unicode whitespace. RE2's \s alone is ASCII only and misses
// the no-break and em spaces common in extracted text.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// A hyphen followed by whitespace between two word characters is a
	// line-break hyphenation artifact.
	hyphenBreak   = regexp.MustCompile(`([\p{L}\p{N}_])-` + space + `+([\p{L}\p{N}_])`)
	whitespaceRun = regexp.MustCompile(space + `{2,}`)

	lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")
)

// CleanText normalizes extracted text: line breaks become spaces, hyphenated
// line breaks are rejoined, runs of two or more whitespace characters
// collapse to one space and the result is trimmed.
//
// A single tab or other lone whitespace character between tokens is kept.
// CleanText(CleanText(s)) == CleanText(s) for every s.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	s := lineBreaks.Replace(text)

	// Matches cannot overlap, so "a- b- c" needs a second pass to become
	// "abc". Repeat until nothing changes.
	for {
		joined := hyphenBreak.ReplaceAllString(s, "$1$2")
		if joined == s {
			break
		}
		s = joined
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
