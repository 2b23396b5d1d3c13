package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	"github.com/gcbaptista/note-search/internal/tokenizer"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
)

const defaultMaxPageSize = 100

// Service implements the search pipeline for notes.
// It will fulfill the services.NoteSearcher interface.
//
// Candidates come from the lister, the designated content input of each is
// loaded and sanitized, the Ranker orders them and only the requested page is
// hydrated into full notes.
type Service struct {
	lister      services.CandidateLister
	loader      services.ValueLoader
	sanitizer   services.Sanitizer
	hydrator    services.Hydrator
	ranker      *Ranker
	contentKind model.InputKind
	maxPageSize int
	logger      *slog.Logger
}

var _ services.NoteSearcher = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// WithContentKind sets the input kind scored next to the title.
// Default is model.InputKindRichText.
func WithContentKind(kind model.InputKind) Option {
	return func(s *Service) {
		s.contentKind = kind
	}
}

// WithMaxPageSize caps the page size a query may ask for. Zero disables the cap.
func WithMaxPageSize(size int) Option {
	return func(s *Service) {
		s.maxPageSize = size
	}
}

// NewService creates a new search Service.
func NewService(
	lister services.CandidateLister,
	loader services.ValueLoader,
	sanitizer services.Sanitizer,
	hydrator services.Hydrator,
	ranker *Ranker,
	opts ...Option,
) (*Service, error) {
	if lister == nil {
		return nil, fmt.Errorf("candidate lister cannot be nil")
	}
	if loader == nil {
		return nil, fmt.Errorf("value loader cannot be nil")
	}
	if sanitizer == nil {
		return nil, fmt.Errorf("sanitizer cannot be nil")
	}
	if hydrator == nil {
		return nil, fmt.Errorf("hydrator cannot be nil")
	}
	if ranker == nil {
		return nil, fmt.Errorf("ranker cannot be nil")
	}

	s := &Service{
		lister:      lister,
		loader:      loader,
		sanitizer:   sanitizer,
		hydrator:    hydrator,
		ranker:      ranker,
		contentKind: model.InputKindRichText,
		maxPageSize: defaultMaxPageSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search performs a search operation based on the query.
func (s *Service) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	if strings.TrimSpace(query.OwnerID) == "" {
		return services.SearchResult{}, internalErrors.NewInvalidArgumentError("owner_id", "owner is required")
	}
	if err := ValidatePage(query.Page, query.PageSize); err != nil {
		return services.SearchResult{}, err
	}
	if s.maxPageSize > 0 && query.PageSize > s.maxPageSize {
		return services.SearchResult{}, internalErrors.NewInvalidArgumentError("page_size", fmt.Sprintf("must not exceed %d", s.maxPageSize))
	}

	summaries, err := s.lister.ListCandidates(ctx, services.CandidateQuery{
		OwnerID:  query.OwnerID,
		TagNames: query.TagNames,
	})
	if err != nil {
		return services.SearchResult{}, fmt.Errorf("listing candidates: %w", err)
	}

	scoring := !tokenizer.IsBlankPtr(query.Phrase)
	candidates := make([]Candidate, len(summaries))
	for i, summary := range summaries {
		candidates[i] = Candidate{Summary: summary}
		if !scoring {
			continue
		}
		if err := ctx.Err(); err != nil {
			return services.SearchResult{}, err
		}
		candidates[i].Content = s.loadContent(ctx, summary)
	}

	ranked, err := s.ranker.Rank(query.Phrase, candidates, query.Page, query.PageSize)
	if err != nil {
		return services.SearchResult{}, err
	}

	hits, err := s.hydrate(ctx, query.OwnerID, ranked)
	if err != nil {
		return services.SearchResult{}, err
	}

	queryUUID := uuid.New().String()
	s.logger.Debug("search completed",
		"query_id", queryUUID,
		"owner_id", query.OwnerID,
		"scored", scoring,
		"candidates", len(summaries),
		"total", ranked.Total,
		"page", query.Page,
		"page_size", query.PageSize)

	return services.SearchResult{
		Hits:     hits,
		Total:    ranked.Total,
		Page:     query.Page,
		PageSize: query.PageSize,
		Took:     time.Since(startTime).Milliseconds(),
		QueryId:  queryUUID,
	}, nil
}

// loadContent returns the sanitized value of the candidate's first input of
// the designated kind. Loader failures are logged and treated as no content.
func (s *Service) loadContent(ctx context.Context, summary model.CandidateSummary) *string {
	ref, ok := summary.FirstInputOfKind(s.contentKind)
	if !ok {
		return nil
	}

	raw, err := s.loader.LoadInputValue(ctx, ref.ID)
	if err != nil {
		s.logger.Warn("loading input value failed, scoring title only",
			"note_id", summary.ID,
			"input_id", ref.ID,
			"error", err)
		return nil
	}

	sanitized := s.sanitizer.Sanitize(raw)
	return &sanitized
}

func (s *Service) hydrate(ctx context.Context, ownerID string, ranked RankResult) ([]services.SearchHit, error) {
	hits := make([]services.SearchHit, 0, len(ranked.Page))
	if len(ranked.Page) == 0 {
		return hits, nil
	}

	notes, err := s.hydrator.GetNotes(ctx, ownerID, ranked.IDs())
	if err != nil {
		return nil, fmt.Errorf("hydrating notes: %w", err)
	}

	byID := make(map[string]model.Note, len(notes))
	for _, note := range notes {
		byID[note.ID] = note
	}

	for _, candidate := range ranked.Page {
		note, found := byID[candidate.CandidateID]
		if !found {
			s.logger.Warn("ranked note missing during hydration", "note_id", candidate.CandidateID)
			continue
		}
		hits = append(hits, services.SearchHit{Note: note, Score: candidate.Score})
	}
	return hits, nil
}
