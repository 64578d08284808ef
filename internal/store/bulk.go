package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// GetAll returns every book and note owned by ownerID, tags stripped.
// This is a full scan with client-side filtering; it is the bulk seed
// operation for the application cache. No ordering is defined here -
// presentation order is the cache's concern.
func (s *Store) GetAll(ctx context.Context, ownerID string) ([]domain.Book, []domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	books := []domain.Book{}
	notes := []domain.Note{}

	err := s.db.View(func(txn *badger.Txn) error {
		if err := scanPrefix(txn, bookPrefix, func(val []byte) error {
			var stored storedBook
			if err := json.Unmarshal(val, &stored); err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}
			if stored.Owner == ownerID {
				books = append(books, stored.Book)
			}
			return nil
		}); err != nil {
			return err
		}

		return scanPrefix(txn, notePrefix, func(val []byte) error {
			var stored storedNote
			if err := json.Unmarshal(val, &stored); err != nil {
				return fmt.Errorf("unmarshal note: %w", err)
			}
			if stored.Owner == ownerID {
				notes = append(notes, stored.Note)
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return books, notes, nil
}

// SaveAll replaces the entire partition with the given records: clear, then
// insert, then mark the partition initialized (for non-empty content).
//
// The two phases are separate transactions, bracketed by a pending marker so
// an interruption is detectable at the next open. Until the insert phase
// lands, the partition reads as cleared.
func (s *Store) SaveAll(ctx context.Context, ownerID string, books []domain.Book, notes []domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	marker := pendingMarker{
		Token:     uuid.NewString(),
		StartedAt: time.Now().UnixMilli(),
	}
	markerKey := []byte(pendingPrefix + ownerID)
	if err := s.set(markerKey, marker); err != nil {
		return fmt.Errorf("write pending marker: %w", err)
	}

	if err := s.ClearPartition(ctx, ownerID); err != nil {
		return fmt.Errorf("clear phase: %w", err)
	}

	w := s.NewBulkWriter()
	for i := range books {
		if err := w.PutBook(ownerID, &books[i]); err != nil {
			w.Cancel()
			return fmt.Errorf("insert phase: %w", err)
		}
	}
	for i := range notes {
		if err := w.PutNote(ownerID, &notes[i]); err != nil {
			w.Cancel()
			return fmt.Errorf("insert phase: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("insert phase: %w", err)
	}

	// Non-empty saves mark the partition as seeded, so a later empty GetAll
	// is distinguishable from "never had data".
	err := s.db.Update(func(txn *badger.Txn) error {
		if len(books)+len(notes) > 0 {
			flagKey := []byte(settingsPrefix + ownerID + ":" + FlagInitialized)
			if err := txn.Set(flagKey, []byte("true")); err != nil {
				return fmt.Errorf("set initialized flag: %w", err)
			}
		}
		return txn.Delete(markerKey)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "partition replaced",
			slog.String("user_id", ownerID),
			slog.Int("books", len(books)),
			slog.Int("notes", len(notes)),
		)
	}
	return nil
}

// ClearPartition deletes every book and note owned by ownerID in one
// transaction. Settings flags survive; use ClearFlags to drop those too.
func (s *Store) ClearPartition(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		owned := func(_ string, val []byte) bool {
			var tag struct {
				Owner string `json:"owner"`
			}
			if err := json.Unmarshal(val, &tag); err != nil {
				return false
			}
			return tag.Owner == ownerID
		}

		bookKeys, err := collectKeys(txn, bookPrefix, owned)
		if err != nil {
			return fmt.Errorf("scan books: %w", err)
		}
		noteKeys, err := collectKeys(txn, notePrefix, owned)
		if err != nil {
			return fmt.Errorf("scan notes: %w", err)
		}

		for _, key := range bookKeys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete book: %w", err)
			}
		}
		for _, key := range noteKeys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete note: %w", err)
			}
		}
		return nil
	})
}

// CheckPending reports whether the partition has an interrupted bulk
// replace: its clear phase committed but its insert phase did not.
func (s *Store) CheckPending(ctx context.Context, ownerID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists([]byte(pendingPrefix + ownerID))
}

// ClearPending drops the pending marker for a partition, acknowledging an
// interrupted replace after the caller has re-seeded or accepted the loss.
func (s *Store) ClearPending(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(pendingPrefix + ownerID))
}

// PendingPartitions lists every partition with an interrupted bulk replace.
func (s *Store) PendingPartitions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var userIDs []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pendingPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(pendingPrefix)); it.ValidForPrefix([]byte(pendingPrefix)); it.Next() {
			key := string(it.Item().Key())
			userIDs = append(userIDs, strings.TrimPrefix(key, pendingPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

// scanPrefix calls fn with each value stored under prefix.
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = true

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
