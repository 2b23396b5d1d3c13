package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
	"github.com/gcbaptista/note-search/store/sqlite/migrations"
)

// DatabaseFileName is the database file created inside the data directory.
const DatabaseFileName = "notes.db"

// Store is a services.NoteStore backed by a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

var _ services.NoteStore = (*Store)(nil)

// NewStore opens (or creates) the note database in dataDir and applies any
// pending migrations.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// SaveNote inserts or replaces a note with its tags and inputs.
func (s *Store) SaveNote(ctx context.Context, note model.Note) error {
	if note.ID == "" {
		return internalErrors.NewInvalidArgumentError("id", "note id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existingOwner string
	err = tx.QueryRowContext(ctx, "SELECT owner_id FROM notes WHERE id = ?", note.ID).Scan(&existingOwner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("checking note owner: %w", err)
	case existingOwner != note.OwnerID:
		return internalErrors.NewNoteNotFoundError(note.ID)
	}

	for _, input := range note.Inputs {
		var otherNote string
		err := tx.QueryRowContext(ctx,
			"SELECT note_id FROM note_inputs WHERE id = ? AND note_id != ?", input.ID, note.ID).Scan(&otherNote)
		if err == nil {
			return internalErrors.NewInvalidArgumentError("inputs", fmt.Sprintf("input id '%s' already belongs to another note", input.ID))
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking input %s: %w", input.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, note.ID, note.OwnerID, note.Title, toUnix(note.CreatedAt), toUnix(note.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving note: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM note_tags WHERE note_id = ?", note.ID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM note_inputs WHERE note_id = ?", note.ID); err != nil {
		return fmt.Errorf("clearing inputs: %w", err)
	}

	for i, tag := range note.Tags {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO note_tags (note_id, position, name, name_lower) VALUES (?, ?, ?, ?)",
			note.ID, i, tag, strings.ToLower(tag))
		if err != nil {
			return fmt.Errorf("saving tag %q: %w", tag, err)
		}
	}
	for i, input := range note.Inputs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO note_inputs (id, note_id, position, kind, value) VALUES (?, ?, ?, ?, ?)",
			input.ID, note.ID, i, string(input.Kind), input.Value)
		if err != nil {
			return fmt.Errorf("saving input %s: %w", input.ID, err)
		}
	}

	return tx.Commit()
}

// GetNote returns one of the owner's notes.
func (s *Store) GetNote(ctx context.Context, ownerID, noteID string) (model.Note, error) {
	note, err := s.getNote(ctx, ownerID, noteID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, internalErrors.NewNoteNotFoundError(noteID)
	}
	return note, err
}

// DeleteNote removes one of the owner's notes with its tags and inputs.
func (s *Store) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ? AND owner_id = ?", noteID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return internalErrors.NewNoteNotFoundError(noteID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM note_tags WHERE note_id = ?", noteID); err != nil {
		return fmt.Errorf("deleting tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM note_inputs WHERE note_id = ?", noteID); err != nil {
		return fmt.Errorf("deleting inputs: %w", err)
	}
	return tx.Commit()
}

// ListCandidates returns summaries of the owner's notes carrying every
// requested tag, newest first.
func (s *Store) ListCandidates(ctx context.Context, query services.CandidateQuery) ([]model.CandidateSummary, error) {
	tags := normalizeTags(query.TagNames)

	stmt := "SELECT id, title, created_at FROM notes WHERE owner_id = ?"
	args := []any{query.OwnerID}
	if len(tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
		stmt += ` AND id IN (
			SELECT note_id FROM note_tags
			WHERE name_lower IN (` + placeholders + `)
			GROUP BY note_id
			HAVING COUNT(DISTINCT name_lower) = ?
		)`
		for _, tag := range tags {
			args = append(args, tag)
		}
		args = append(args, len(tags))
	}
	stmt += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.CandidateSummary, 0)
	positions := make(map[string]int)
	for rows.Next() {
		var summary model.CandidateSummary
		var created int64
		if err := rows.Scan(&summary.ID, &summary.Title, &created); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		summary.CreatedAt = fromUnix(created)
		positions[summary.ID] = len(summaries)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	inputRows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.note_id, i.kind
		FROM note_inputs i
		JOIN notes n ON n.id = i.note_id
		WHERE n.owner_id = ?
		ORDER BY i.note_id, i.position
	`, query.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("querying input refs: %w", err)
	}
	defer inputRows.Close()

	for inputRows.Next() {
		var ref model.InputRef
		var noteID, kind string
		if err := inputRows.Scan(&ref.ID, &noteID, &kind); err != nil {
			return nil, fmt.Errorf("scanning input ref: %w", err)
		}
		pos, ok := positions[noteID]
		if !ok {
			continue
		}
		ref.Kind = model.InputKind(kind)
		summaries[pos].Inputs = append(summaries[pos].Inputs, ref)
	}
	if err := inputRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating input refs: %w", err)
	}
	return summaries, nil
}

// LoadInputValue returns the raw value of a note input.
func (s *Store) LoadInputValue(ctx context.Context, inputID string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM note_inputs WHERE id = ?", inputID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("input with ID '%s' not found", inputID)
	}
	if err != nil {
		return "", fmt.Errorf("loading input %s: %w", inputID, err)
	}
	return value, nil
}

// GetNotes returns the owner's notes in the order of ids, skipping unknown ids.
func (s *Store) GetNotes(ctx context.Context, ownerID string, ids []string) ([]model.Note, error) {
	notes := make([]model.Note, 0, len(ids))
	for _, id := range ids {
		note, err := s.getNote(ctx, ownerID, id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// getNote loads a full note. It returns sql.ErrNoRows when the note does not
// exist or belongs to another owner.
func (s *Store) getNote(ctx context.Context, ownerID, noteID string) (model.Note, error) {
	note := model.Note{
		ID:      noteID,
		OwnerID: ownerID,
		Tags:    []string{},
		Inputs:  []model.NoteInput{},
	}
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT title, created_at, updated_at FROM notes WHERE id = ? AND owner_id = ?",
		noteID, ownerID).Scan(&note.Title, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Note{}, err
		}
		return model.Note{}, fmt.Errorf("loading note %s: %w", noteID, err)
	}
	note.CreatedAt = fromUnix(created)
	note.UpdatedAt = fromUnix(updated)

	tagRows, err := s.db.QueryContext(ctx, "SELECT name FROM note_tags WHERE note_id = ? ORDER BY position", noteID)
	if err != nil {
		return model.Note{}, fmt.Errorf("loading tags for %s: %w", noteID, err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return model.Note{}, fmt.Errorf("scanning tag: %w", err)
		}
		note.Tags = append(note.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return model.Note{}, fmt.Errorf("iterating tags: %w", err)
	}

	inputRows, err := s.db.QueryContext(ctx, "SELECT id, kind, value FROM note_inputs WHERE note_id = ? ORDER BY position", noteID)
	if err != nil {
		return model.Note{}, fmt.Errorf("loading inputs for %s: %w", noteID, err)
	}
	defer inputRows.Close()
	for inputRows.Next() {
		var input model.NoteInput
		var kind string
		if err := inputRows.Scan(&input.ID, &kind, &input.Value); err != nil {
			return model.Note{}, fmt.Errorf("scanning input: %w", err)
		}
		input.Kind = model.InputKind(kind)
		note.Inputs = append(note.Inputs, input)
	}
	if err := inputRows.Err(); err != nil {
		return model.Note{}, fmt.Errorf("iterating inputs: %w", err)
	}
	return note, nil
}

// normalizeTags lower-cases, trims and de-duplicates tag names, dropping blanks.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(strings.TrimSpace(tag))
		if lower == "" {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	return out
}

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
