package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/note-search/config"
	"github.com/gcbaptista/note-search/internal/engine"
	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	testutil "github.com/gcbaptista/note-search/internal/testing"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
	"github.com/gcbaptista/note-search/store"
)

func TestNewEngine_InvalidSettings(t *testing.T) {
	settings := config.Default()
	settings.Storage.Driver = "postgres"

	_, err := engine.NewEngine(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestNewEngine_DefaultsWithInjectedStore(t *testing.T) {
	eng, err := engine.NewEngine(nil, engine.WithStore(store.NewNoteStore()))
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, eng.Settings().Storage.Driver)
	assert.NoError(t, eng.Close())
}

func TestCreateNote(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	ctx := context.Background()

	note, err := eng.CreateNote(ctx, model.Note{
		OwnerID: " owner-1 ",
		Title:   "Trip",
		Tags:    []string{"Travel", " travel ", "europe"},
		Inputs: []model.NoteInput{
			{ID: "client-chosen", Kind: "markdown", Value: "# Packing"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "owner-1", note.OwnerID)
	assert.Equal(t, []string{"Travel", "europe"}, note.Tags)
	require.Len(t, note.Inputs, 1)
	assert.NotEqual(t, "client-chosen", note.Inputs[0].ID)
	assert.Equal(t, model.InputKindMarkdown, note.Inputs[0].Kind)
	assert.False(t, note.CreatedAt.IsZero())
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	stored, err := eng.GetNote(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Title, stored.Title)
	assert.Equal(t, note.Inputs, stored.Inputs)
}

func TestCreateNote_Validation(t *testing.T) {
	eng := testutil.CreateTestEngine(t)

	tests := []struct {
		name  string
		note  model.Note
		field string
	}{
		{"missing owner", model.Note{Title: "x"}, "owner_id"},
		{"blank owner", model.Note{OwnerID: "  ", Title: "x"}, "owner_id"},
		{"title too long", model.Note{OwnerID: "o", Title: strings.Repeat("é", engine.MaxTitleLength+1)}, "title"},
		{"blank tag", model.Note{OwnerID: "o", Tags: []string{"ok", " "}}, "tags"},
		{"unknown input kind", model.Note{OwnerID: "o", Inputs: []model.NoteInput{{Kind: "VIDEO"}}}, "inputs[0].kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CreateNote(context.Background(), tt.note)
			require.Error(t, err)
			assert.True(t, errors.Is(err, internalErrors.ErrInvalidArgument))

			var argErr *internalErrors.InvalidArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.field, argErr.Field)
		})
	}

	t.Run("title at the limit is accepted", func(t *testing.T) {
		_, err := eng.CreateNote(context.Background(), model.Note{OwnerID: "o", Title: strings.Repeat("é", engine.MaxTitleLength)})
		assert.NoError(t, err)
	})
}

func TestUpdateNote(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	ctx := context.Background()
	notes := testutil.AddTestNotes(t, eng)
	original := notes[2]

	update := model.Note{
		ID:      original.ID,
		OwnerID: testutil.TestOwner,
		Title:   "Search ideas v2",
		Tags:    []string{"ideas"},
		Inputs: []model.NoteInput{
			{ID: original.Inputs[1].ID, Kind: model.InputKindRichText, Value: "<p>changed</p>"},
			{ID: "made-up", Kind: model.InputKindPlainText, Value: "extra"},
		},
	}
	updated, err := eng.UpdateNote(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
	assert.Equal(t, original.Inputs[1].ID, updated.Inputs[0].ID, "known input ids are kept")
	assert.NotEqual(t, "made-up", updated.Inputs[1].ID)

	stored, err := eng.GetNote(ctx, testutil.TestOwner, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Search ideas v2", stored.Title)
	assert.Equal(t, []string{"ideas"}, stored.Tags)
}

func TestUpdateNote_OtherOwner(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	notes := testutil.AddTestNotes(t, eng)

	_, err := eng.UpdateNote(context.Background(), model.Note{ID: notes[0].ID, OwnerID: "intruder", Title: "mine now"})
	assert.True(t, errors.Is(err, internalErrors.ErrNoteNotFound))
}

func TestDeleteNote(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	ctx := context.Background()
	notes := testutil.AddTestNotes(t, eng)

	assert.True(t, errors.Is(eng.DeleteNote(ctx, "intruder", notes[0].ID), internalErrors.ErrNoteNotFound))
	require.NoError(t, eng.DeleteNote(ctx, testutil.TestOwner, notes[0].ID))

	_, err := eng.GetNote(ctx, testutil.TestOwner, notes[0].ID)
	assert.True(t, errors.Is(err, internalErrors.ErrNoteNotFound))
}

func TestSearch(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.AddTestNotes(t, eng)

	testutil.RunSearchTests(t, eng, []testutil.SearchTestCase{
		{
			Name:           "no phrase lists newest first",
			Query:          services.SearchQuery{OwnerID: testutil.TestOwner, PageSize: 10},
			ExpectedTotal:  3,
			ExpectedTitles: []string{"Search ideas", "Quarterly planning", "Grocery list"},
		},
		{
			Name:           "title and sanitized content tie broken by recency",
			Query:          services.SearchQuery{OwnerID: testutil.TestOwner, Phrase: testutil.Phrase("search"), PageSize: 10},
			ExpectedTotal:  2,
			ExpectedTitles: []string{"Search ideas", "Quarterly planning"},
			ValidateFunc: func(t *testing.T, result *services.SearchResult) {
				assert.Equal(t, 3.0, result.Hits[0].Score)
				assert.Equal(t, 3.0, result.Hits[1].Score)
				assert.NotEmpty(t, result.QueryId)
			},
		},
		{
			Name:           "approximate title match",
			Query:          services.SearchQuery{OwnerID: testutil.TestOwner, Phrase: testutil.Phrase("PLAN"), PageSize: 10},
			ExpectedTotal:  1,
			ExpectedTitles: []string{"Quarterly planning"},
		},
		{
			Name:           "adjacent words in content",
			Query:          services.SearchQuery{OwnerID: testutil.TestOwner, Phrase: testutil.Phrase("rank notes"), PageSize: 10},
			ExpectedTotal:  1,
			ExpectedTitles: []string{"Search ideas"},
			ValidateFunc: func(t *testing.T, result *services.SearchResult) {
				assert.Equal(t, 7.0, result.Hits[0].Score)
			},
		},
		{
			Name:           "all tags required",
			Query:          services.SearchQuery{OwnerID: testutil.TestOwner, TagNames: []string{"WORK", "planning"}, PageSize: 10},
			ExpectedTotal:  1,
			ExpectedTitles: []string{"Quarterly planning"},
		},
		{
			Name:           "second page",
			Query:          services.SearchQuery{OwnerID: testutil.TestOwner, Page: 1, PageSize: 2},
			ExpectedTotal:  3,
			ExpectedTitles: []string{"Grocery list"},
		},
		{
			Name:           "other owner sees nothing",
			Query:          services.SearchQuery{OwnerID: "intruder", PageSize: 10},
			ExpectedTotal:  0,
			ExpectedTitles: []string{},
		},
	})
}

func TestSearch_PageSizeAboveMaximum(t *testing.T) {
	eng := testutil.CreateTestEngine(t)

	_, err := eng.Search(context.Background(), services.SearchQuery{
		OwnerID:  testutil.TestOwner,
		PageSize: eng.Settings().Search.MaxPageSize + 1,
	})
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidArgument))
}

func TestSearch_MarkdownContentKind(t *testing.T) {
	settings := testutil.TestSettings(t)
	settings.Search.ContentKind = string(model.InputKindMarkdown)
	eng := testutil.CreateTestEngineWithSettings(t, settings)
	testutil.AddTestNotes(t, eng)

	result, err := eng.Search(context.Background(), services.SearchQuery{
		OwnerID:  testutil.TestOwner,
		Phrase:   testutil.Phrase("titles"),
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Search ideas", result.Hits[0].Note.Title)
}

func TestEngine_PersistsAcrossRestarts(t *testing.T) {
	for _, driver := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(driver, func(t *testing.T) {
			settings := testutil.TestSettings(t)
			settings.Storage.Driver = driver

			first, err := engine.NewEngine(settings)
			require.NoError(t, err)
			created, err := first.CreateNote(context.Background(), model.Note{
				OwnerID: "o",
				Title:   "kept",
				Inputs:  []model.NoteInput{{Kind: model.InputKindRichText, Value: "<p>durable body</p>"}},
			})
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second := testutil.CreateTestEngineWithSettings(t, settings)
			result, err := second.Search(context.Background(), services.SearchQuery{
				OwnerID:  "o",
				Phrase:   testutil.Phrase("durable"),
				PageSize: 5,
			})
			require.NoError(t, err)
			require.Len(t, result.Hits, 1)
			assert.Equal(t, created.ID, result.Hits[0].Note.ID)
		})
	}
}
