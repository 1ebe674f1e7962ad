package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug lowercases text and joins its alphanumeric runs with underscores.
// A single trailing underscore is kept when the text ends with punctuation and
// also contains punctuation earlier on, so "What's new?" and "What's new" differ.
func GenerateSlug(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	slug := slugSeparators.ReplaceAllString(strings.ToLower(text), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return ""
	}

	trimmed := []rune(strings.TrimRightFunc(text, unicode.IsSpace))
	last := len(trimmed) - 1
	if last < 0 || isWordRune(trimmed[last]) {
		return slug
	}
	for _, r := range trimmed[:last] {
		if !isWordRune(r) && !unicode.IsSpace(r) {
			return slug + "_"
		}
	}
	return slug
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
