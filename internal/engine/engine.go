package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gcbaptista/note-search/config"
	internalErrors "github.com/gcbaptista/note-search/internal/errors"
	"github.com/gcbaptista/note-search/internal/matching"
	"github.com/gcbaptista/note-search/internal/sanitize"
	"github.com/gcbaptista/note-search/internal/search"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
	"github.com/gcbaptista/note-search/store"
	"github.com/gcbaptista/note-search/store/sqlite"
)

// MaxTitleLength is the longest accepted note title, in runes.
const MaxTitleLength = 512

// Engine owns the note store and the search pipeline built on top of it.
// It implements the services.NoteManager interface.
type Engine struct {
	settings *config.Settings
	store    services.NoteStore
	searcher *search.Service
	logger   *slog.Logger
	now      func() time.Time
}

var _ services.NoteManager = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithStore makes the engine use the given store instead of opening the
// configured one.
func WithStore(s services.NoteStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock overrides the time source used for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine opens the configured store and wires the search service.
// Nil settings use config.Default().
func NewEngine(settings *config.Settings, opts ...Option) (*Engine, error) {
	if settings == nil {
		settings = config.Default()
	}
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}

	e := &Engine{
		settings: settings,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		opened, err := openStore(settings.Storage)
		if err != nil {
			return nil, err
		}
		e.store = opened
	}

	ranker := search.NewRanker(matching.NewMatcher(settings.Points()))
	searcher, err := search.NewService(
		e.store,
		e.store,
		sanitize.ForKind(settings.ContentKind()),
		e.store,
		ranker,
		search.WithLogger(e.logger),
		search.WithContentKind(settings.ContentKind()),
		search.WithMaxPageSize(settings.Search.MaxPageSize),
	)
	if err != nil {
		return nil, fmt.Errorf("creating search service: %w", err)
	}
	e.searcher = searcher

	e.logger.Info("engine ready",
		"storage", settings.Storage.Driver,
		"data_dir", settings.Storage.DataDir,
		"content_kind", settings.ContentKind())
	return e, nil
}

func openStore(storage config.StorageSettings) (services.NoteStore, error) {
	switch storage.Driver {
	case config.StorageSQLite:
		s, err := sqlite.NewStore(storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	case config.StorageMemory:
		s, err := store.OpenNoteStore(filepath.Join(storage.DataDir, store.SnapshotFileName))
		if err != nil {
			return nil, fmt.Errorf("opening memory store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver '%s'", storage.Driver)
	}
}

// Settings returns the engine's settings.
func (e *Engine) Settings() *config.Settings {
	return e.settings
}

// Search ranks the owner's notes against the query phrase.
func (e *Engine) Search(ctx context.Context, query services.SearchQuery) (services.SearchResult, error) {
	return e.searcher.Search(ctx, query)
}

// CreateNote validates the note, assigns fresh ids and timestamps and stores it.
func (e *Engine) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	if err := normalizeNote(&note); err != nil {
		return model.Note{}, err
	}

	note.ID = uuid.New().String()
	for i := range note.Inputs {
		note.Inputs[i].ID = uuid.New().String()
	}
	now := e.now()
	note.CreatedAt = now
	note.UpdatedAt = now

	if err := e.store.SaveNote(ctx, note); err != nil {
		return model.Note{}, fmt.Errorf("saving note: %w", err)
	}
	e.logger.Debug("note created", "note_id", note.ID, "owner_id", note.OwnerID)
	return note, nil
}

// GetNote returns one of the owner's notes.
func (e *Engine) GetNote(ctx context.Context, ownerID, noteID string) (model.Note, error) {
	return e.store.GetNote(ctx, ownerID, noteID)
}

// UpdateNote replaces the title, tags and inputs of an existing note.
// Input ids already belonging to the note are kept, any other id is replaced.
func (e *Engine) UpdateNote(ctx context.Context, note model.Note) (model.Note, error) {
	if err := normalizeNote(&note); err != nil {
		return model.Note{}, err
	}

	existing, err := e.store.GetNote(ctx, note.OwnerID, note.ID)
	if err != nil {
		return model.Note{}, err
	}

	known := make(map[string]struct{}, len(existing.Inputs))
	for _, input := range existing.Inputs {
		known[input.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(note.Inputs))
	for i, input := range note.Inputs {
		_, ok := known[input.ID]
		_, dup := seen[input.ID]
		if !ok || dup {
			note.Inputs[i].ID = uuid.New().String()
		}
		seen[note.Inputs[i].ID] = struct{}{}
	}

	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = e.now()

	if err := e.store.SaveNote(ctx, note); err != nil {
		return model.Note{}, fmt.Errorf("saving note: %w", err)
	}
	e.logger.Debug("note updated", "note_id", note.ID, "owner_id", note.OwnerID)
	return note, nil
}

// DeleteNote removes one of the owner's notes.
func (e *Engine) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	if err := e.store.DeleteNote(ctx, ownerID, noteID); err != nil {
		return err
	}
	e.logger.Debug("note deleted", "note_id", noteID, "owner_id", ownerID)
	return nil
}

// Close persists the memory snapshot or closes the database.
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	e.logger.Info("engine closed")
	return nil
}

// normalizeNote validates the caller supplied fields and canonicalizes tags
// and input kinds in place.
func normalizeNote(note *model.Note) error {
	note.OwnerID = strings.TrimSpace(note.OwnerID)
	if note.OwnerID == "" {
		return internalErrors.NewInvalidArgumentError("owner_id", "owner is required")
	}
	if utf8.RuneCountInString(note.Title) > MaxTitleLength {
		return internalErrors.NewInvalidArgumentError("title", fmt.Sprintf("must not exceed %d characters", MaxTitleLength))
	}

	tags := make([]string, 0, len(note.Tags))
	seen := make(map[string]struct{}, len(note.Tags))
	for _, tag := range note.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return internalErrors.NewInvalidArgumentError("tags", "tag names cannot be blank")
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	note.Tags = tags

	inputs := make([]model.NoteInput, len(note.Inputs))
	for i, input := range note.Inputs {
		kind, ok := model.ParseInputKind(string(input.Kind))
		if !ok {
			return internalErrors.NewInvalidArgumentError(fmt.Sprintf("inputs[%d].kind", i), fmt.Sprintf("unknown input kind '%s'", input.Kind))
		}
		input.Kind = kind
		inputs[i] = input
	}
	note.Inputs = inputs
	return nil
}
