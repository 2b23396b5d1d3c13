// Package tokenizer splits search and note text into words.
package tokenizer

import (
	"strings"
	"unicode"
)

// Words splits a phrase on runs of whitespace and returns the non-empty words
// in order. Case and punctuation are preserved; matching decides how to
// compare them.
func Words(phrase string) []string {
	words := strings.FieldsFunc(phrase, unicode.IsSpace)
	if words == nil {
		return make([]string, 0) // Initialize as empty slice, not nil
	}
	return words
}

// IsBlank reports whether text is empty or consists only of whitespace.
func IsBlank(text string) bool {
	return strings.TrimFunc(text, unicode.IsSpace) == ""
}

// IsBlankPtr is IsBlank for optional text; nil counts as blank.
func IsBlankPtr(text *string) bool {
	return text == nil || IsBlank(*text)
}
