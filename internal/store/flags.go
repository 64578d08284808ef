package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// FlagInitialized marks a partition that has been seeded with data at least
// once. An empty GetAll with this flag set means "the user deleted
// everything", not "first run".
const FlagInitialized = "initialized"

// SetFlag stores a per-user settings flag.
func (s *Store) SetFlag(ctx context.Context, ownerID, flag, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildFlagKey(ownerID, flag)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(value))
	})
	releaseKey(key)
	return err
}

// GetFlag returns the stored value of a per-user settings flag, or "" when
// the flag has never been set.
func (s *Store) GetFlag(ctx context.Context, ownerID, flag string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := buildFlagKey(ownerID, flag)
	defer releaseKey(key)

	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get flag: %w", err)
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// HasFlag reports whether the flag is set to "true" for the partition.
func (s *Store) HasFlag(ctx context.Context, ownerID, flag string) (bool, error) {
	value, err := s.GetFlag(ctx, ownerID, flag)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// ClearFlags deletes every settings flag of the partition. Used by the full
// data wipe, which clears records and flags alike.
func (s *Store) ClearFlags(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := settingsPrefix + ownerID + ":"
	return s.db.Update(func(txn *badger.Txn) error {
		keys, err := collectKeys(txn, prefix, func(string, []byte) bool { return true })
		if err != nil {
			return fmt.Errorf("scan flags: %w", err)
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete flag: %w", err)
			}
		}
		return nil
	})
}

// Flags returns every settings flag of the partition as a name -> value map.
func (s *Store) Flags(ctx context.Context, ownerID string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := settingsPrefix + ownerID + ":"
	flags := map[string]string{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), prefix)
			if err := item.Value(func(val []byte) error {
				flags[name] = string(val)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flags, nil
}
