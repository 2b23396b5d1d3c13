package model

import (
	"strings"
	"time"
)

// InputKind is the type of content stored in a note input.
type InputKind string

const (
	InputKindRichText  InputKind = "RICH_TEXT"
	InputKindMarkdown  InputKind = "MARKDOWN"
	InputKindPlainText InputKind = "PLAIN_TEXT"
)

// IsValid reports whether k is one of the known input kinds.
func (k InputKind) IsValid() bool {
	switch k {
	case InputKindRichText, InputKindMarkdown, InputKindPlainText:
		return true
	}
	return false
}

// ParseInputKind converts a case-insensitive name into an InputKind.
func ParseInputKind(s string) (InputKind, bool) {
	k := InputKind(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.IsValid()
}

// NoteInput is one typed block of content inside a note.
type NoteInput struct {
	ID    string    `json:"id"`
	Kind  InputKind `json:"kind"`
	Value string    `json:"value"`
}

// Note is a user's note with its title, tags and typed inputs.
type Note struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Title     string      `json:"title"`
	Tags      []string    `json:"tags"`
	Inputs    []NoteInput `json:"inputs"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// HasTag reports whether the note carries the tag, ignoring case.
func (n *Note) HasTag(name string) bool {
	for _, tag := range n.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// Summary projects the note onto the fields needed to score it. Input values
// are left out; they are loaded on demand.
func (n *Note) Summary() CandidateSummary {
	refs := make([]InputRef, len(n.Inputs))
	for i, input := range n.Inputs {
		refs[i] = InputRef{ID: input.ID, Kind: input.Kind}
	}
	return CandidateSummary{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		Title:     n.Title,
		Inputs:    refs,
	}
}

// InputRef identifies a note input without its value.
type InputRef struct {
	ID   string    `json:"id"`
	Kind InputKind `json:"kind"`
}

// CandidateSummary is the minimal projection of a note used for ranking.
type CandidateSummary struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Title     string     `json:"title"`
	Inputs    []InputRef `json:"inputs"`
}

// FirstInputOfKind returns the first input of the given kind, if any.
func (c CandidateSummary) FirstInputOfKind(kind InputKind) (InputRef, bool) {
	for _, input := range c.Inputs {
		if input.Kind == kind {
			return input, true
		}
	}
	return InputRef{}, false
}
