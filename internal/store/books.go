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

// Book Operations

// AddBook inserts a new book owned by ownerID.
// Fails with ErrBookExists if the id is taken anywhere in the collection:
// the id space is global, not per-user, so a collision with another user's
// record is still a conflict.
func (s *Store) AddBook(ctx context.Context, ownerID string, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(bookPrefix, book.ID)
	defer releaseKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrBookExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check book exists: %w", err)
		}

		data, err := json.Marshal(storedBook{Book: *book, Owner: ownerID})
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("name", book.Name),
		)
	}
	return nil
}

// GetBook retrieves a book by id for the given partition.
// Returns ErrBookNotFound when the id is absent or owned by another user.
func (s *Store) GetBook(ctx context.Context, ownerID, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(bookPrefix, id)
	defer releaseKey(key)

	var stored storedBook
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}

	if stored.Owner != ownerID {
		return nil, ErrBookNotFound
	}
	return &stored.Book, nil
}

// UpdateBook replaces an existing book's mutable fields and refreshes its
// UpdatedAt. The book must exist and be owned by ownerID.
// CreatedAt is preserved from the stored record.
func (s *Store) UpdateBook(ctx context.Context, ownerID string, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(bookPrefix, book.ID)
	defer releaseKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		old, err := readBook(txn, key)
		if err != nil {
			return err
		}
		if old.Owner != ownerID {
			return ErrBookNotFound
		}

		book.CreatedAt = old.CreatedAt
		book.UpdatedAt = old.UpdatedAt
		book.Touch()

		data, err := json.Marshal(storedBook{Book: *book, Owner: ownerID})
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book updated",
			slog.String("id", book.ID),
		)
	}
	return nil
}

// DeleteBook deletes the book and every note of ownerID referencing it, all
// in one transaction. Returns the ids of the cascaded notes so callers can
// clean up derived state (cache, search index).
func (s *Store) DeleteBook(ctx context.Context, ownerID, id string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(bookPrefix, id)
	defer releaseKey(key)

	var noteIDs []string
	err := s.db.Update(func(txn *badger.Txn) error {
		noteIDs = noteIDs[:0]

		book, err := readBook(txn, key)
		if err != nil {
			return err
		}
		if book.Owner != ownerID {
			return ErrBookNotFound
		}

		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}

		// Cascade: collect matching note keys first, then delete. Deleting
		// while the iterator is live would mutate the txn under it.
		noteKeys, err := collectKeys(txn, notePrefix, func(_ string, val []byte) bool {
			var note storedNote
			if err := json.Unmarshal(val, &note); err != nil {
				return false
			}
			if note.Owner != ownerID || note.BookID != id {
				return false
			}
			noteIDs = append(noteIDs, note.ID)
			return true
		})
		if err != nil {
			return fmt.Errorf("scan notes for cascade: %w", err)
		}

		for _, nk := range noteKeys {
			if err := txn.Delete(nk); err != nil {
				return fmt.Errorf("cascade delete note: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book deleted",
			slog.String("id", id),
			slog.Int("cascaded_notes", len(noteIDs)),
		)
	}
	return noteIDs, nil
}

// readBook loads and decodes a book envelope inside an open transaction.
func readBook(txn *badger.Txn, key []byte) (*storedBook, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	var stored storedBook
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal book: %w", err)
	}
	return &stored, nil
}
