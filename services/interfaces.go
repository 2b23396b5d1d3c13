package services

import (
	"context"

	"github.com/gcbaptista/note-search/model"
)

// CandidateQuery selects the notes eligible for a search.
type CandidateQuery struct {
	OwnerID  string
	TagNames []string // a note must carry every tag; empty means no tag filter
}

// SearchQuery is a search request for one owner's notes.
type SearchQuery struct {
	Phrase   *string // nil or blank lists notes newest first
	OwnerID  string
	TagNames []string
	Page     int // zero-based
	PageSize int
}

// SearchHit is a hydrated note with the score that ranked it.
type SearchHit struct {
	Note  model.Note `json:"note"`
	Score float64    `json:"score"` // 0 when no phrase was given
}

// SearchResult is one page of ranked notes.
type SearchResult struct {
	Hits     []SearchHit `json:"hits"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Took     int64       `json:"took"`     // milliseconds
	QueryId  string      `json:"query_id"` // unique UUID for this search query
}

// CandidateLister returns the summaries of the notes matching a query, newest first.
type CandidateLister interface {
	ListCandidates(ctx context.Context, query CandidateQuery) ([]model.CandidateSummary, error)
}

// ValueLoader loads the raw value of a single note input. Implementations
// do not scope by owner; callers pass ids from an owner's candidate summaries.
type ValueLoader interface {
	LoadInputValue(ctx context.Context, inputID string) (string, error)
}

// Sanitizer strips markup from stored rich text so it can be matched word by word.
type Sanitizer interface {
	Sanitize(raw string) string
}

// Hydrator loads full notes for a page of ids, preserving their order.
// Ids that do not exist or belong to another owner are skipped.
type Hydrator interface {
	GetNotes(ctx context.Context, ownerID string, ids []string) ([]model.Note, error)
}

// NoteStore persists notes and serves the search collaborators.
type NoteStore interface {
	CandidateLister
	ValueLoader
	Hydrator

	SaveNote(ctx context.Context, note model.Note) error
	GetNote(ctx context.Context, ownerID, noteID string) (model.Note, error)
	DeleteNote(ctx context.Context, ownerID, noteID string) error
	Close() error
}

// NoteSearcher ranks an owner's notes against a search phrase
type NoteSearcher interface {
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)
}

// NoteManager is the application surface used by the API: note CRUD plus search.
type NoteManager interface {
	NoteSearcher

	CreateNote(ctx context.Context, note model.Note) (model.Note, error)
	GetNote(ctx context.Context, ownerID, noteID string) (model.Note, error)
	UpdateNote(ctx context.Context, note model.Note) (model.Note, error)
	DeleteNote(ctx context.Context, ownerID, noteID string) error
}
