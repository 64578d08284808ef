package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// Note Operations

// AddNote inserts a new note owned by ownerID.
// Fails with ErrNoteExists if the id is taken anywhere in the collection.
// The referenced book is not checked here; creation-time validation is the
// orchestration layer's job, and readers tolerate dangling bookIds anyway.
func (s *Store) AddNote(ctx context.Context, ownerID string, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(notePrefix, note.ID)
	defer releaseKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrNoteExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check note exists: %w", err)
		}

		data, err := json.Marshal(storedNote{Note: *note, Owner: ownerID})
		if err != nil {
			return fmt.Errorf("marshal note: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "note created",
			slog.String("id", note.ID),
			slog.String("book_id", note.BookID),
		)
	}
	return nil
}

// GetNote retrieves a note by id for the given partition.
// Returns ErrNoteNotFound when the id is absent or owned by another user.
func (s *Store) GetNote(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(notePrefix, id)
	defer releaseKey(key)

	var stored storedNote
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoteNotFound
		}
		if err != nil {
			return fmt.Errorf("get note: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}

	if stored.Owner != ownerID {
		return nil, ErrNoteNotFound
	}
	return &stored.Note, nil
}

// UpdateNote replaces an existing note's content and refreshes its
// UpdatedAt. The note must exist and be owned by ownerID.
func (s *Store) UpdateNote(ctx context.Context, ownerID string, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(notePrefix, note.ID)
	defer releaseKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := readNote(txn, key)
		if err != nil {
			return err
		}
		if old.Owner != ownerID {
			return ErrNoteNotFound
		}

		note.CreatedAt = old.CreatedAt
		note.UpdatedAt = old.UpdatedAt
		note.Touch()

		data, err := json.Marshal(storedNote{Note: *note, Owner: ownerID})
		if err != nil {
			return fmt.Errorf("marshal note: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "note updated",
			slog.String("id", note.ID),
		)
	}
	return nil
}

// DeleteNote removes a note by id. The note must be owned by ownerID: the
// same ownership rule every other mutator applies, so a caller holding a
// foreign id cannot destroy another user's data.
func (s *Store) DeleteNote(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(notePrefix, id)
	defer releaseKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		note, err := readNote(txn, key)
		if err != nil {
			return err
		}
		if note.Owner != ownerID {
			return ErrNoteNotFound
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "note deleted",
			slog.String("id", id),
		)
	}
	return nil
}

// MoveNote reassigns a note to another book. Both the target book and the
// note must exist and be owned by ownerID; the checks and the rewrite share
// one transaction, so a failed move leaves no observable change.
func (s *Store) MoveNote(ctx context.Context, ownerID, noteID, targetBookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bookKey := buildKey(bookPrefix, targetBookID)
	defer releaseKey(bookKey)
	noteKey := buildKey(notePrefix, noteID)
	defer releaseKey(noteKey)

	err := s.db.Update(func(txn *badger.Txn) error {
		book, err := readBook(txn, bookKey)
		if err != nil {
			return err
		}
		if book.Owner != ownerID {
			return ErrBookNotFound
		}

		note, err := readNote(txn, noteKey)
		if err != nil {
			return err
		}
		if note.Owner != ownerID {
			return ErrNoteNotFound
		}

		note.BookID = targetBookID
		note.Touch()

		data, err := json.Marshal(note)
		if err != nil {
			return fmt.Errorf("marshal note: %w", err)
		}
		return txn.Set(noteKey, data)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "note moved",
			slog.String("id", noteID),
			slog.String("book_id", targetBookID),
		)
	}
	return nil
}

// readNote loads and decodes a note envelope inside an open transaction.
func readNote(txn *badger.Txn, key []byte) (*storedNote, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}

	var stored storedNote
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal note: %w", err)
	}
	return &stored, nil
}
