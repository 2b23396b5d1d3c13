package search

import (
	"fmt"
	"sort"
	"time"

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	"github.com/gcbaptista/note-search/internal/matching"
	"github.com/gcbaptista/note-search/internal/tokenizer"
	"github.com/gcbaptista/note-search/model"
)

// Candidate is a note summary together with the sanitized text of its
// designated content input. Content is nil when the note has no such input.
type Candidate struct {
	Summary model.CandidateSummary
	Content *string
}

// ScoredCandidate is a candidate's id, creation time and relevance score.
type ScoredCandidate struct {
	CandidateID string
	CreatedAt   time.Time
	Score       float64
}

// RankResult is one page of ranked candidates and the number of candidates
// that made it into the ranking.
type RankResult struct {
	Page  []ScoredCandidate
	Total int
}

// IDs returns the candidate ids of the page in rank order.
func (r RankResult) IDs() []string {
	ids := make([]string, len(r.Page))
	for i, c := range r.Page {
		ids[i] = c.CandidateID
	}
	return ids
}

// Ranker scores candidates against a search phrase and pages the result.
// It performs no I/O and keeps no state between calls.
type Ranker struct {
	matcher *matching.Matcher
}

// NewRanker creates a Ranker using the given matcher.
func NewRanker(matcher *matching.Matcher) *Ranker {
	return &Ranker{matcher: matcher}
}

// Rank scores every candidate as the better of its title and content scores,
// drops candidates scoring zero or less, orders the rest by score and then by
// creation time (both descending) and returns the requested zero-based page.
//
// A blank or absent phrase skips scoring: all candidates are ordered newest
// first.
func (r *Ranker) Rank(phrase *string, candidates []Candidate, pageIndex, pageSize int) (RankResult, error) {
	if err := ValidatePage(pageIndex, pageSize); err != nil {
		return RankResult{}, err
	}
	for i, c := range candidates {
		if c.Summary.ID == "" {
			return RankResult{}, internalErrors.NewInvalidArgumentError("candidates", fmt.Sprintf("candidate at position %d has no id", i))
		}
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	if tokenizer.IsBlankPtr(phrase) {
		for _, c := range candidates {
			scored = append(scored, ScoredCandidate{CandidateID: c.Summary.ID, CreatedAt: c.Summary.CreatedAt})
		}
	} else {
		for _, c := range candidates {
			score := r.score(phrase, c)
			if score <= 0 {
				continue
			}
			scored = append(scored, ScoredCandidate{CandidateID: c.Summary.ID, CreatedAt: c.Summary.CreatedAt, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		itemI, itemJ := scored[i], scored[j]
		if itemI.Score != itemJ.Score {
			return itemI.Score > itemJ.Score
		}
		if !itemI.CreatedAt.Equal(itemJ.CreatedAt) {
			return itemI.CreatedAt.After(itemJ.CreatedAt)
		}
		return itemI.CandidateID < itemJ.CandidateID
	})

	page, err := Paginate(scored, pageIndex, pageSize)
	if err != nil {
		return RankResult{}, err
	}
	return RankResult{Page: page, Total: len(scored)}, nil
}

func (r *Ranker) score(phrase *string, c Candidate) float64 {
	title := c.Summary.Title
	titleScore := r.matcher.MatchPhrases(phrase, &title)

	contentScore := 0.0
	if c.Content != nil {
		contentScore = r.matcher.MatchPhrases(phrase, c.Content)
	}
	return max(titleScore, contentScore)
}
