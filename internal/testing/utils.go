// Package testing provides utilities and helpers for testing the note search engine.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/note-search/config"
	"github.com/gcbaptista/note-search/internal/engine"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
)

// TestOwner is the owner used by the seeded test notes.
const TestOwner = "owner-1"

// SteppedClock returns a clock that starts at start and advances by step on every call.
func SteppedClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := next
		next = next.Add(step)
		return current
	}
}

// CreateTestEngine creates an engine on a memory store inside a temporary
// directory. Notes created through it get timestamps one minute apart.
func CreateTestEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	return CreateTestEngineWithSettings(t, TestSettings(t), opts...)
}

// CreateTestEngineWithSettings creates an engine from settings and closes it
// when the test ends.
func CreateTestEngineWithSettings(t *testing.T, settings *config.Settings, opts ...engine.Option) *engine.Engine {
	t.Helper()

	clock := SteppedClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Minute)
	eng, err := engine.NewEngine(settings, append([]engine.Option{engine.WithClock(clock)}, opts...)...)
	require.NoError(t, err, "Failed to create test engine")

	t.Cleanup(func() {
		assert.NoError(t, eng.Close())
	})
	return eng
}

// TestSettings returns default settings storing data under a temporary directory.
func TestSettings(t *testing.T) *config.Settings {
	t.Helper()
	settings := config.Default()
	settings.Storage.DataDir = t.TempDir()
	return settings
}

// AddTestNotes creates a small set of notes for TestOwner, oldest first.
func AddTestNotes(t *testing.T, eng *engine.Engine) []model.Note {
	t.Helper()

	drafts := []model.Note{
		{
			OwnerID: TestOwner,
			Title:   "Grocery list",
			Tags:    []string{"home"},
			Inputs: []model.NoteInput{
				{Kind: model.InputKindRichText, Value: "<ul><li>apples</li><li>oat milk</li></ul>"},
			},
		},
		{
			OwnerID: TestOwner,
			Title:   "Quarterly planning",
			Tags:    []string{"work", "planning"},
			Inputs: []model.NoteInput{
				{Kind: model.InputKindRichText, Value: "<p>Review the <b>search</b> roadmap with the team</p>"},
			},
		},
		{
			OwnerID: TestOwner,
			Title:   "Search ideas",
			Tags:    []string{"work"},
			Inputs: []model.NoteInput{
				{Kind: model.InputKindMarkdown, Value: "# Ranking\nScore titles and content"},
				{Kind: model.InputKindRichText, Value: "<p>rank notes by phrase matches</p>"},
			},
		},
	}

	created := make([]model.Note, 0, len(drafts))
	for _, draft := range drafts {
		note, err := eng.CreateNote(context.Background(), draft)
		require.NoError(t, err, "Failed to add test note")
		created = append(created, note)
	}
	return created
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name           string
	Query          services.SearchQuery
	ExpectedTotal  int
	ExpectedTitles []string // titles of the returned page, in order
	ValidateFunc   func(t *testing.T, result *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against a searcher
func RunSearchTests(t *testing.T, searcher services.NoteSearcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result, err := searcher.Search(context.Background(), tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedTotal, result.Total, "Total should match")

			if tt.ExpectedTitles != nil {
				titles := make([]string, len(result.Hits))
				for i, hit := range result.Hits {
					titles[i] = hit.Note.Title
				}
				assert.Equal(t, tt.ExpectedTitles, titles, "Page titles should match")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &result)
			}
		})
	}
}

// Phrase returns a pointer to s for building search queries.
func Phrase(s string) *string {
	return &s
}
