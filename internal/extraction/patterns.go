package extraction

import (
	"regexp"
	"strings"
)

// fieldPattern pairs a compiled pattern with an extractor applied to its
// submatches. Cascades are evaluated in priority order with first-match-wins
// semantics; partial matches are never merged across patterns.
type fieldPattern struct {
	re      *regexp.Regexp
	extract func(m []string) string
}

// group1 returns the first capture group verbatim.
func group1(m []string) string {
	if len(m) > 1 {
		return m[1]
	}
	return ""
}

// firstMatch runs a pattern cascade over text and returns the first non-empty
// extraction.
func firstMatch(text string, cascade []fieldPattern) string {
	for _, p := range cascade {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(p.extract(m)); v != "" {
			return v
		}
	}
	return ""
}

// sectionHeaders are the headers recognised as section boundaries in a
// referral letter. A captured section runs from its own header to the next
// entry in this list (or end of document).
var sectionHeaders = []string{
	"current conditions",
	"current medical conditions",
	"medical conditions",
	"past medical history",
	"medical history",
	"allergies",
	"allergies and adverse drug reactions",
	"current medications",
	"current medication",
	"medications",
	"medication list",
	"social history",
	"relevant investigations",
	"reason for referral",
	"yours sincerely",
	"yours faithfully",
	"kind regards",
}

// normalizeHeader lowercases a line and drops trailing punctuation so that
// "Current Medications:" and "Yours sincerely," compare as headers.
func normalizeHeader(line string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":,."))
}

// isSectionHeader reports whether a trimmed line introduces a known section.
func isSectionHeader(line string) bool {
	norm := normalizeHeader(line)
	for _, h := range sectionHeaders {
		if norm == h {
			return true
		}
	}
	return false
}

// matchesHeader reports whether a trimmed line is one of the wanted headers.
func matchesHeader(line string, wanted []string) bool {
	norm := normalizeHeader(line)
	for _, h := range wanted {
		if norm == h {
			return true
		}
	}
	return false
}

// sectionBlock captures the text between one of the wanted headers and the
// next known section header (or end of document). Leading whitespace is
// stripped per line and runs of blank lines collapse to single newlines.
// Returns "" when none of the wanted headers is present.
func sectionBlock(text string, wanted []string) string {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if matchesHeader(line, wanted) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	var out []string
	blank := false
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank = len(out) > 0
			continue
		}
		if isSectionHeader(trimmed) && !matchesHeader(trimmed, wanted) {
			break
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
