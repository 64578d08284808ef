// Package store implements the durable on-device database for books, notes,
// and per-user settings flags.
//
// A single Badger database holds every user's records. Isolation between
// users is purely logical: each persisted record carries an owner tag, every
// operation takes the partition key as an explicit parameter, and reads
// filter on it. The tag never leaves this package.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/CerberusProgrammer/clean-notes-core/internal/errors"
)

// Store wraps a Badger database instance.
//
// Every operation runs in its own Badger transaction (View for reads, Update
// for writes), so no two operations share transactional state and a failed
// operation never leaves partial writes behind. Across operations there is no
// ordering guarantee beyond "last transaction to commit wins" per key.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens the database at path, applying any pending schema migrations.
//
// The stored schema version is read first and the effective version is
// max(stored, compiled-in target): a stale build opening a newer database
// never regresses or drops existing data.
//
// If another process holds the database directory the open fails with
// ErrDatabaseLocked; that condition cannot be recovered in-process.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Another process is using this Badger database") {
			return nil, ErrDatabaseLocked.WithCause(err)
		}
		return nil, apperrors.ErrStorageFatal.WithCause(fmt.Errorf("open badger db: %w", err))
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// A leftover pending marker means a bulk replace was interrupted between
	// its clear and insert phases. The partition is in a "cleared" state;
	// surface it so callers can re-import or re-save.
	interrupted, err := store.PendingPartitions(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, userID := range interrupted {
		if logger != nil {
			logger.Warn("partition has an interrupted bulk replace",
				"user_id", userID,
			)
		}
	}

	if logger != nil {
		logger.Info("database opened", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// collectKeys returns a copy of every key under prefix for which keep
// returns true. The value passed to keep is only valid during the call.
func collectKeys(txn *badger.Txn, prefix string, keep func(key string, val []byte) bool) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		item := it.Item()
		key := string(item.Key())

		matched := false
		err := item.Value(func(val []byte) error {
			matched = keep(key, val)
			return nil
		})
		if err != nil {
			return nil, err
		}

		if matched {
			keys = append(keys, []byte(key))
		}
	}
	return keys, nil
}
