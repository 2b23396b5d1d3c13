// Package sanitize turns stored note content into plain text for matching.
package sanitize

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
)

// Pre-compiled expressions for block boundaries that must not glue words together.
var (
	blockElements = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|ul|ol|tr|td|th|blockquote|pre|table|section|article)(\s[^>]*)?/?>`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// HTML strips markup from rich text. Script and style contents are dropped,
// entities are decoded and runs of whitespace collapse to single spaces.
type HTML struct {
	policy *bluemonday.Policy
}

var _ services.Sanitizer = (*HTML)(nil)

// NewHTML creates an HTML sanitizer.
func NewHTML() *HTML {
	return &HTML{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns the text content of raw.
func (h *HTML) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	spaced := blockElements.ReplaceAllString(raw, " $0 ")
	text := html.UnescapeString(h.policy.Sanitize(spaced))
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Markdown renders markdown to HTML and strips it like HTML does. Raw HTML
// embedded in the markdown is not rendered.
type Markdown struct {
	md   goldmark.Markdown
	html *HTML
}

var _ services.Sanitizer = (*Markdown)(nil)

// NewMarkdown creates a Markdown sanitizer.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(), html: NewHTML()}
}

// Sanitize returns the text content of the rendered markdown. If rendering
// fails the source is stripped as if it were HTML.
func (m *Markdown) Sanitize(raw string) string {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(raw), &buf); err != nil {
		return m.html.Sanitize(raw)
	}
	return m.html.Sanitize(buf.String())
}

// PlainText leaves text untouched apart from collapsing whitespace.
type PlainText struct{}

var _ services.Sanitizer = PlainText{}

// Sanitize returns raw with whitespace runs collapsed.
func (PlainText) Sanitize(raw string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(raw, " "))
}

// ForKind returns the sanitizer matching an input kind.
func ForKind(kind model.InputKind) services.Sanitizer {
	switch kind {
	case model.InputKindMarkdown:
		return NewMarkdown()
	case model.InputKindPlainText:
		return PlainText{}
	default:
		return NewHTML()
	}
}
