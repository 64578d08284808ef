package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CerberusProgrammer/clean-notes-core/internal/cache"
	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
	"github.com/CerberusProgrammer/clean-notes-core/internal/id"
	"github.com/CerberusProgrammer/clean-notes-core/internal/search"
	"github.com/CerberusProgrammer/clean-notes-core/internal/session"
	"github.com/CerberusProgrammer/clean-notes-core/internal/store"
	"github.com/CerberusProgrammer/clean-notes-core/internal/validation"
)

// NoteService orchestrates note operations.
type NoteService struct {
	store     *store.Store
	cache     *cache.Cache
	index     *search.NoteIndex // nil when search is disabled
	validator *validation.Validator
	session   session.Provider
	logger    *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(st *store.Store, c *cache.Cache, index *search.NoteIndex, v *validation.Validator, sess session.Provider, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:     st,
		cache:     c,
		index:     index,
		validator: v,
		session:   sess,
		logger:    logger,
	}
}

// CreateNoteInput is the payload for creating a note.
type CreateNoteInput struct {
	BookID  string `json:"bookId" validate:"required"`
	Content string `json:"content"`
}

// UpdateNoteInput is the payload for replacing a note's content.
type UpdateNoteInput struct {
	ID      string `json:"id" validate:"required"`
	Content string `json:"content"`
}

// CreateNote persists a new note and, once durable, adds it to the cache.
// The target book must exist: the store itself tolerates dangling book
// references, so the referential check lives here, at creation time.
func (s *NoteService) CreateNote(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	userID := s.session.CurrentUserID()
	if _, err := s.store.GetBook(ctx, userID, input.BookID); err != nil {
		return nil, err
	}

	note := &domain.Note{
		Stamped: domain.Stamped{ID: id.MustGenerate("note")},
		BookID:  input.BookID,
		Content: input.Content,
	}
	note.InitTimestamps()

	if err := s.store.AddNote(ctx, userID, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.cache.Dispatch(cache.AddNote{Note: *note})
	s.indexNote(userID, note)
	return note, nil
}

// UpdateNote replaces a note's content. The store write refreshes the
// timestamps; the cache and index receive the record as persisted.
func (s *NoteService) UpdateNote(ctx context.Context, input UpdateNoteInput) (*domain.Note, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	userID := s.session.CurrentUserID()
	note, err := s.store.GetNote(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	note.Content = input.Content

	if err := s.store.UpdateNote(ctx, userID, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.cache.Dispatch(cache.UpdateNote{Note: *note})
	s.indexNote(userID, note)
	return note, nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	userID := s.session.CurrentUserID()

	if err := s.store.DeleteNote(ctx, userID, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.cache.Dispatch(cache.DeleteNote{ID: noteID})

	if s.index != nil {
		if err := s.index.DeleteNote(noteID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove note from search index", "note_id", noteID, "error", err)
		}
	}
	return nil
}

// MoveNote reassigns a note to another book. The store validates both ends
// and performs the rewrite in one transaction.
func (s *NoteService) MoveNote(ctx context.Context, noteID, targetBookID string) (*domain.Note, error) {
	userID := s.session.CurrentUserID()

	if err := s.store.MoveNote(ctx, userID, noteID, targetBookID); err != nil {
		return nil, fmt.Errorf("move note: %w", err)
	}

	// Re-read for the refreshed timestamp written by the move.
	note, err := s.store.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	s.cache.Dispatch(cache.MoveNote{
		NoteID:       noteID,
		TargetBookID: targetBookID,
		UpdatedAt:    note.UpdatedAt,
	})
	s.indexNote(userID, note)
	return note, nil
}

// SelectNote updates the UI selection. No persistence step: dispatched
// immediately.
func (s *NoteService) SelectNote(noteID string) cache.State {
	return s.cache.Dispatch(cache.SelectNote{ID: noteID})
}

func (s *NoteService) indexNote(userID string, note *domain.Note) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexNote(search.NewNoteDocument(userID, note)); err != nil && s.logger != nil {
		s.logger.Warn("failed to index note", "note_id", note.ID, "error", err)
	}
}
