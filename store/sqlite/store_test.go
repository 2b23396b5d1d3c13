package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testNote(id, owner string, ageDays int, tags ...string) model.Note {
	created := baseTime.AddDate(0, 0, -ageDays)
	if tags == nil {
		tags = []string{}
	}
	return model.Note{
		ID:      id,
		OwnerID: owner,
		Title:   "title " + id,
		Tags:    tags,
		Inputs: []model.NoteInput{
			{ID: id + "-md", Kind: model.InputKindMarkdown, Value: "# heading " + id},
			{ID: id + "-rt", Kind: model.InputKindRichText, Value: "<p>body " + id + "</p>"},
		},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
}

func seed(t *testing.T, store *Store, notes ...model.Note) {
	t.Helper()
	for _, note := range notes {
		require.NoError(t, store.SaveNote(context.Background(), note))
	}
}

func candidateIDs(summaries []model.CandidateSummary) []string {
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	return ids
}

func TestNewStore(t *testing.T) {
	t.Run("requires data dir", func(t *testing.T) {
		_, err := NewStore("")
		assert.Error(t, err)
	})

	t.Run("reopen keeps data and skips applied migrations", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		seed(t, store, testNote("n1", "alice", 0))
		require.NoError(t, store.Close())

		reopened, err := NewStore(dir)
		require.NoError(t, err)
		defer reopened.Close()

		note, err := reopened.GetNote(context.Background(), "alice", "n1")
		require.NoError(t, err)
		assert.Equal(t, "title n1", note.Title)

		var applied int
		require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
		assert.Equal(t, 1, applied)
	})
}

func TestStore_SaveAndGetNote(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	want := testNote("n1", "alice", 2, "Work", "go")
	seed(t, store, want)

	got, err := store.GetNote(ctx, "alice", "n1")
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, []string{"Work", "go"}, got.Tags)
	assert.Equal(t, want.Inputs, got.Inputs)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))

	_, err = store.GetNote(ctx, "bob", "n1")
	assert.True(t, errors.Is(err, internalErrors.ErrNoteNotFound))
}

func TestStore_SaveNote_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seed(t, store, testNote("n1", "alice", 0, "old"))

	updated := testNote("n1", "alice", 0, "new")
	updated.Title = "renamed"
	updated.Inputs = []model.NoteInput{{ID: "fresh", Kind: model.InputKindPlainText, Value: "plain"}}
	require.NoError(t, store.SaveNote(ctx, updated))

	got, err := store.GetNote(ctx, "alice", "n1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, []string{"new"}, got.Tags)
	assert.Equal(t, updated.Inputs, got.Inputs)

	_, err = store.LoadInputValue(ctx, "n1-rt")
	assert.Error(t, err)
}

func TestStore_SaveNote_Rejections(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seed(t, store, testNote("n1", "alice", 0))

	err := store.SaveNote(ctx, testNote("n1", "bob", 0))
	assert.True(t, errors.Is(err, internalErrors.ErrNoteNotFound))

	stealer := testNote("n2", "alice", 0)
	stealer.Inputs = []model.NoteInput{{ID: "n1-rt", Kind: model.InputKindRichText}}
	err = store.SaveNote(ctx, stealer)
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidArgument))

	_, err = store.GetNote(ctx, "alice", "n2")
	assert.True(t, errors.Is(err, internalErrors.ErrNoteNotFound), "failed save must roll back")
}

func TestStore_DeleteNote(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seed(t, store, testNote("n1", "alice", 0, "work"))

	assert.True(t, errors.Is(store.DeleteNote(ctx, "bob", "n1"), internalErrors.ErrNoteNotFound))
	require.NoError(t, store.DeleteNote(ctx, "alice", "n1"))

	_, err := store.GetNote(ctx, "alice", "n1")
	assert.True(t, errors.Is(err, internalErrors.ErrNoteNotFound))
	_, err = store.LoadInputValue(ctx, "n1-md")
	assert.Error(t, err)

	var tagRows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM note_tags").Scan(&tagRows))
	assert.Zero(t, tagRows)
}

func TestStore_ListCandidates(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seed(t, store,
		testNote("old", "alice", 5, "work", "Go"),
		testNote("new", "alice", 1, "work"),
		testNote("mid", "alice", 3, "go", "WORK"),
		testNote("other", "bob", 0, "work"),
	)

	t.Run("newest first for owner", func(t *testing.T) {
		got, err := store.ListCandidates(ctx, services.CandidateQuery{OwnerID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, []string{"new", "mid", "old"}, candidateIDs(got))
	})

	t.Run("all tags required case-insensitively", func(t *testing.T) {
		got, err := store.ListCandidates(ctx, services.CandidateQuery{OwnerID: "alice", TagNames: []string{"WORK", "go", "Go"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"mid", "old"}, candidateIDs(got))
	})

	t.Run("unknown tag yields empty", func(t *testing.T) {
		got, err := store.ListCandidates(ctx, services.CandidateQuery{OwnerID: "alice", TagNames: []string{"rust"}})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("input refs in order", func(t *testing.T) {
		got, err := store.ListCandidates(ctx, services.CandidateQuery{OwnerID: "bob"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []model.InputRef{
			{ID: "other-md", Kind: model.InputKindMarkdown},
			{ID: "other-rt", Kind: model.InputKindRichText},
		}, got[0].Inputs)
		assert.True(t, baseTime.Equal(got[0].CreatedAt))
	})
}

func TestStore_LoadInputValue(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store, testNote("n1", "alice", 0))

	value, err := store.LoadInputValue(context.Background(), "n1-rt")
	require.NoError(t, err)
	assert.Equal(t, "<p>body n1</p>", value)

	_, err = store.LoadInputValue(context.Background(), "missing")
	assert.Error(t, err)
}

func TestStore_GetNotes(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store, testNote("n1", "alice", 0), testNote("n2", "alice", 1), testNote("n3", "bob", 2))

	notes, err := store.GetNotes(context.Background(), "alice", []string{"n2", "missing", "n3", "n1"})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n2", notes[0].ID)
	assert.Equal(t, "n1", notes[1].ID)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"work", "go"}, normalizeTags([]string{" Work ", "", "GO", "work", "go"}))
	assert.Empty(t, normalizeTags(nil))
}
