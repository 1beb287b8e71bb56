package vocab

import (
	"regexp"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeSpaces lowercases a string and collapses internal whitespace
// runs to single spaces.
func NormalizeSpaces(s string) string {
	return whitespaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Resolve maps free text onto a canonical id: lowercase, collapse
// whitespace, underscores become dashes, then exact match against each
// canonical id or any of its aliases. Returns false when nothing matches;
// the caller decides the fallback.
func Resolve(raw string, t Table) (string, bool) {
	token := strings.ReplaceAll(NormalizeSpaces(raw), "_", "-")
	for _, e := range t {
		if token == e.ID {
			return e.ID, true
		}
		for _, alias := range e.Aliases {
			if token == strings.ToLower(alias) {
				return e.ID, true
			}
		}
	}
	return "", false
}

// MatchAll scans free text for alias occurrences and returns the canonical
// ids whose aliases appear as substrings, once each, in table order.
// Scanning short-circuits per id on the first alias hit.
//
// This is substring containment, not tokenized matching: an alias that
// happens to be a substring of an unrelated word will still match. That
// imprecision is part of the extraction contract.
func MatchAll(text string, t Table) []string {
	lowered := strings.ToLower(text)
	var matched []string
	for _, e := range t {
		for _, alias := range e.Aliases {
			if strings.Contains(lowered, strings.ToLower(alias)) {
				matched = append(matched, e.ID)
				break
			}
		}
	}
	return matched
}
