// Package service sequences durable store operations with the matching
// cache commands so the application sees an atomic update. The rule for
// data-mutating calls: the store write resolves first, and only on success
// is the cache command dispatched. A store failure leaves the cache
// untouched. Selection is pure UI state and never touches the store.
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

// BookService orchestrates book operations.
type BookService struct {
	store     *store.Store
	cache     *cache.Cache
	index     *search.NoteIndex // nil when search is disabled
	validator *validation.Validator
	session   session.Provider
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st *store.Store, c *cache.Cache, index *search.NoteIndex, v *validation.Validator, sess session.Provider, logger *slog.Logger) *BookService {
	return &BookService{
		store:     st,
		cache:     c,
		index:     index,
		validator: v,
		session:   sess,
		logger:    logger,
	}
}

// CreateBookInput is the payload for creating a book.
type CreateBookInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Emoji       string `json:"emoji" validate:"max=16"`
}

// UpdateBookInput is the payload for updating a book. Nil fields are left
// unchanged.
type UpdateBookInput struct {
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Emoji       *string `json:"emoji" validate:"omitempty,max=16"`
}

// CreateBook persists a new book and, once durable, adds it to the cache.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Stamped:     domain.Stamped{ID: id.MustGenerate("book")},
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Emoji:       input.Emoji,
	}
	book.InitTimestamps()

	userID := s.session.CurrentUserID()
	if err := s.store.AddBook(ctx, userID, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.cache.Dispatch(cache.AddBook{Book: *book})
	return book, nil
}

// UpdateBook patches a book's fields. The store write carries the final
// timestamps, so the cache receives the record as persisted.
func (s *BookService) UpdateBook(ctx context.Context, input UpdateBookInput) (*domain.Book, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	userID := s.session.CurrentUserID()
	book, err := s.store.GetBook(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		book.Name = *input.Name
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Color != nil {
		book.Color = *input.Color
	}
	if input.Emoji != nil {
		book.Emoji = *input.Emoji
	}

	if err := s.store.UpdateBook(ctx, userID, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.cache.Dispatch(cache.UpdateBook{Book: *book})
	return book, nil
}

// DeleteBook removes a book and all its notes. The store cascade reports
// the removed note ids so the cache and search index can be cleaned up.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	userID := s.session.CurrentUserID()

	noteIDs, err := s.store.DeleteBook(ctx, userID, bookID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.cache.Dispatch(cache.DeleteBook{ID: bookID})
	for _, noteID := range noteIDs {
		s.cache.Dispatch(cache.DeleteNote{ID: noteID})
	}

	// Derived state: the search index is best effort, records are already
	// durably gone.
	if s.index != nil && len(noteIDs) > 0 {
		if err := s.index.DeleteNotes(noteIDs); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove cascaded notes from search index", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("book deleted with cascade",
			"book_id", bookID,
			"cascaded_notes", len(noteIDs),
		)
	}
	return nil
}

// SelectBook updates the UI selection. No persistence step: dispatched
// immediately.
func (s *BookService) SelectBook(bookID string) cache.State {
	return s.cache.Dispatch(cache.SelectBook{ID: bookID})
}
