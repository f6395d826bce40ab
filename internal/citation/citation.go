// Package citation extracts statutory article references ("pasal") from
// free-form Indonesian legal text and normalizes them to a canonical form.
package citation

import (
	"regexp"
	"strings"
	"unicode"
)

// pasalPattern matches an article number, optionally followed by a clause
// number in parentheses ("Ayat") and a single-letter sub-point ("huruf").
var pasalPattern = regexp.MustCompile(`(?i)pasal\s+\d+(?:\s+ayat\s+\(\d+\))?(?:\s+huruf\s+[a-zA-Z])?`)

var spaceRuns = regexp.MustCompile(`\s+`)

// Extract returns the canonical citations found in text, deduplicated while
// preserving first-seen order. Mentions differing only in letter case or
// incidental whitespace normalize to the same canonical string. Empty input
// yields an empty result.
func Extract(text string) []string {
	if text == "" {
		return nil
	}
	matches := pasalPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		c := Canonical(m)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Join renders citations in the joined form used for predicted solutions.
func Join(citations []string) string {
	return strings.Join(citations, "; ")
}

// Canonical normalizes a single citation mention: whitespace runs collapse
// to single spaces, surrounding whitespace is trimmed, and every word is
// Title Cased.
func Canonical(mention string) string {
	collapsed := spaceRuns.ReplaceAllString(mention, " ")
	return strings.TrimSpace(titleCase(collapsed))
}

// titleCase capitalizes the first letter of every word and lowercases the
// rest, treating any non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
