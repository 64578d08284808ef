package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CerberusProgrammer/clean-notes-core/internal/cache"
	"github.com/CerberusProgrammer/clean-notes-core/internal/search"
	"github.com/CerberusProgrammer/clean-notes-core/internal/session"
	"github.com/CerberusProgrammer/clean-notes-core/internal/store"
)

// LibraryService handles the whole-partition operations: the startup bulk
// load, the bulk save, the full wipe, and note search.
type LibraryService struct {
	store   *store.Store
	cache   *cache.Cache
	index   *search.NoteIndex // nil when search is disabled
	session session.Provider
	logger  *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(st *store.Store, c *cache.Cache, index *search.NoteIndex, sess session.Provider, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:   st,
		cache:   c,
		index:   index,
		session: sess,
		logger:  logger,
	}
}

// LoadAll seeds the cache from the store and reindexes the loaded notes.
// An interrupted bulk replace from a previous run is surfaced in the log;
// the partition reads as cleared until the user saves or imports again.
func (s *LibraryService) LoadAll(ctx context.Context) (cache.State, error) {
	userID := s.session.CurrentUserID()

	pending, err := s.store.CheckPending(ctx, userID)
	if err != nil {
		return cache.State{}, fmt.Errorf("check pending replace: %w", err)
	}
	if pending && s.logger != nil {
		s.logger.Warn("previous bulk save was interrupted, partition may be incomplete",
			"user_id", userID,
		)
	}

	books, notes, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return cache.State{}, fmt.Errorf("load library: %w", err)
	}

	state := s.cache.Dispatch(cache.LoadAll{Books: books, Notes: notes})

	if s.index != nil && len(notes) > 0 {
		docs := make([]*search.NoteDocument, len(notes))
		for i := range notes {
			docs[i] = search.NewNoteDocument(userID, &notes[i])
		}
		if err := s.index.IndexNotes(docs); err != nil && s.logger != nil {
			s.logger.Warn("failed to seed search index", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("library loaded",
			"user_id", userID,
			"books", len(books),
			"notes", len(notes),
		)
	}
	return state, nil
}

// SaveAll writes the entire cache state back to the store, replacing the
// partition. The cache is already the source of truth for rendering; this
// is the durability boundary.
func (s *LibraryService) SaveAll(ctx context.Context) error {
	userID := s.session.CurrentUserID()
	state := s.cache.State()

	if err := s.store.SaveAll(ctx, userID, state.Books, state.Notes); err != nil {
		return fmt.Errorf("save library: %w", err)
	}
	return nil
}

// ClearData wipes the partition: records, flags, pending markers, the cache,
// and the user's slice of the search index.
func (s *LibraryService) ClearData(ctx context.Context) error {
	userID := s.session.CurrentUserID()
	state := s.cache.State()

	if err := s.store.ClearPartition(ctx, userID); err != nil {
		return fmt.Errorf("clear partition: %w", err)
	}
	if err := s.store.ClearFlags(ctx, userID); err != nil {
		return fmt.Errorf("clear flags: %w", err)
	}
	if err := s.store.ClearPending(ctx, userID); err != nil {
		return fmt.Errorf("clear pending marker: %w", err)
	}

	s.cache.Reset()

	if s.index != nil && len(state.Notes) > 0 {
		ids := make([]string, len(state.Notes))
		for i, n := range state.Notes {
			ids[i] = n.ID
		}
		if err := s.index.DeleteNotes(ids); err != nil && s.logger != nil {
			s.logger.Warn("failed to clear notes from search index", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("user data cleared", "user_id", userID)
	}
	return nil
}

// Initialized reports whether the partition has ever been seeded with data.
func (s *LibraryService) Initialized(ctx context.Context) (bool, error) {
	return s.store.HasFlag(ctx, s.session.CurrentUserID(), store.FlagInitialized)
}

// SearchNotes runs a full-text query over the current user's notes,
// optionally scoped to one book.
func (s *LibraryService) SearchNotes(ctx context.Context, query, bookID string) (*search.Result, error) {
	if s.index == nil {
		return nil, fmt.Errorf("search is disabled")
	}

	params := search.DefaultParams()
	params.OwnerID = s.session.CurrentUserID()
	params.Query = query
	params.BookID = bookID

	return s.index.Search(ctx, params)
}
