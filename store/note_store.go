package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	"github.com/gcbaptista/note-search/internal/persistence"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
)

// SnapshotFileName is the file the memory store persists itself to.
const SnapshotFileName = "notes.gob"

// NoteStore is an in-memory services.NoteStore. When opened with a snapshot
// path it is loaded from and saved to a gob file.
type NoteStore struct {
	Mu           sync.RWMutex
	Notes        map[string]model.Note // note ID to note
	InputToNote  map[string]string     // input ID to owning note ID
	snapshotPath string
}

var _ services.NoteStore = (*NoteStore)(nil)

// NewNoteStore creates an empty store that lives only in memory.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		Notes:       make(map[string]model.Note),
		InputToNote: make(map[string]string),
	}
}

// OpenNoteStore creates a store backed by a snapshot at path. A missing
// snapshot starts an empty store. Every successful write is persisted
// before it returns.
func OpenNoteStore(path string) (*NoteStore, error) {
	ns := NewNoteStore()
	ns.snapshotPath = path

	var data noteSnapshot
	if err := persistence.LoadGob(path, &data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("no note snapshot found, starting empty", "path", path)
			return ns, nil
		}
		return nil, fmt.Errorf("loading note snapshot: %w", err)
	}
	if data.Notes != nil {
		ns.Notes = data.Notes
	}
	for id, note := range ns.Notes {
		for _, input := range note.Inputs {
			ns.InputToNote[input.ID] = id
		}
	}
	slog.Info("loaded note snapshot", "path", path, "notes", len(ns.Notes))
	return ns, nil
}

// noteSnapshot is the gob layout of the snapshot file. The input index is
// derived and rebuilt on load.
type noteSnapshot struct {
	Notes map[string]model.Note
}

// persistUnsafe writes the snapshot. Callers must hold Mu.
func (ns *NoteStore) persistUnsafe() error {
	if ns.snapshotPath == "" {
		return nil
	}
	if err := persistence.SaveGob(ns.snapshotPath, noteSnapshot{Notes: ns.Notes}); err != nil {
		return fmt.Errorf("saving note snapshot: %w", err)
	}
	return nil
}

// SaveNote inserts or replaces a note. A note ID owned by someone else is
// reported as not found. A rejected or unpersisted save leaves the store
// unchanged.
func (ns *NoteStore) SaveNote(_ context.Context, note model.Note) error {
	if note.ID == "" {
		return internalErrors.NewInvalidArgumentError("id", "note id is required")
	}

	ns.Mu.Lock()
	defer ns.Mu.Unlock()

	existing, exists := ns.Notes[note.ID]
	if exists && existing.OwnerID != note.OwnerID {
		return internalErrors.NewNoteNotFoundError(note.ID)
	}
	for _, input := range note.Inputs {
		if owner, taken := ns.InputToNote[input.ID]; taken && owner != note.ID {
			return internalErrors.NewInvalidArgumentError("inputs", fmt.Sprintf("input id '%s' already belongs to another note", input.ID))
		}
	}

	ns.putUnsafe(note.ID, existing, exists, cloneNote(note), true)
	if err := ns.persistUnsafe(); err != nil {
		ns.putUnsafe(note.ID, note, true, existing, exists)
		return err
	}
	return nil
}

// putUnsafe replaces the note stored under id, keeping the input index in
// step. Callers must hold Mu.
func (ns *NoteStore) putUnsafe(id string, old model.Note, hadOld bool, next model.Note, hasNext bool) {
	if hadOld {
		for _, input := range old.Inputs {
			delete(ns.InputToNote, input.ID)
		}
	}
	if !hasNext {
		delete(ns.Notes, id)
		return
	}
	ns.Notes[id] = next
	for _, input := range next.Inputs {
		ns.InputToNote[input.ID] = id
	}
}

// GetNote returns one of the owner's notes.
func (ns *NoteStore) GetNote(_ context.Context, ownerID, noteID string) (model.Note, error) {
	ns.Mu.RLock()
	defer ns.Mu.RUnlock()

	note, ok := ns.Notes[noteID]
	if !ok || note.OwnerID != ownerID {
		return model.Note{}, internalErrors.NewNoteNotFoundError(noteID)
	}
	return cloneNote(note), nil
}

// DeleteNote removes one of the owner's notes.
func (ns *NoteStore) DeleteNote(_ context.Context, ownerID, noteID string) error {
	ns.Mu.Lock()
	defer ns.Mu.Unlock()

	note, ok := ns.Notes[noteID]
	if !ok || note.OwnerID != ownerID {
		return internalErrors.NewNoteNotFoundError(noteID)
	}
	ns.putUnsafe(noteID, note, true, model.Note{}, false)
	if err := ns.persistUnsafe(); err != nil {
		ns.putUnsafe(noteID, model.Note{}, false, note, true)
		return err
	}
	return nil
}

// ListCandidates returns summaries of the owner's notes carrying every
// requested tag, newest first.
func (ns *NoteStore) ListCandidates(ctx context.Context, query services.CandidateQuery) ([]model.CandidateSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ns.Mu.RLock()
	summaries := make([]model.CandidateSummary, 0)
	for _, note := range ns.Notes {
		if note.OwnerID != query.OwnerID || !hasAllTags(note, query.TagNames) {
			continue
		}
		summaries = append(summaries, note.Summary())
	}
	ns.Mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// LoadInputValue returns the raw value of a note input. It does not check
// ownership: callers pass input ids taken from the owner's ListCandidates
// summaries.
func (ns *NoteStore) LoadInputValue(ctx context.Context, inputID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ns.Mu.RLock()
	defer ns.Mu.RUnlock()

	noteID, ok := ns.InputToNote[inputID]
	if !ok {
		return "", fmt.Errorf("input with ID '%s' not found", inputID)
	}
	for _, input := range ns.Notes[noteID].Inputs {
		if input.ID == inputID {
			return input.Value, nil
		}
	}
	return "", fmt.Errorf("input with ID '%s' not found", inputID)
}

// GetNotes returns the owner's notes in the order of ids, skipping unknown ids.
func (ns *NoteStore) GetNotes(ctx context.Context, ownerID string, ids []string) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ns.Mu.RLock()
	defer ns.Mu.RUnlock()

	notes := make([]model.Note, 0, len(ids))
	for _, id := range ids {
		note, ok := ns.Notes[id]
		if !ok || note.OwnerID != ownerID {
			continue
		}
		notes = append(notes, cloneNote(note))
	}
	return notes, nil
}

// Save writes the snapshot if the store has one.
func (ns *NoteStore) Save() error {
	ns.Mu.RLock()
	defer ns.Mu.RUnlock()
	return ns.persistUnsafe()
}

// Close persists the snapshot.
func (ns *NoteStore) Close() error {
	return ns.Save()
}

// Len returns the number of stored notes.
func (ns *NoteStore) Len() int {
	ns.Mu.RLock()
	defer ns.Mu.RUnlock()
	return len(ns.Notes)
}

func hasAllTags(note model.Note, tags []string) bool {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if !note.HasTag(strings.TrimSpace(tag)) {
			return false
		}
	}
	return true
}

func cloneNote(note model.Note) model.Note {
	clone := note
	if note.Tags != nil {
		clone.Tags = append([]string(nil), note.Tags...)
	}
	if note.Inputs != nil {
		clone.Inputs = append([]model.NoteInput(nil), note.Inputs...)
	}
	return clone
}
