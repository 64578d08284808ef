package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// schemaVersion is the layout version this build writes. The effective
// version of an opened database is max(stored, schemaVersion): opening with
// an older build never downgrades the on-disk layout.
const schemaVersion = 2

// migrations maps a target version to the rewrite that produces it.
// Versions without an entry only bump the stored number.
var migrations = map[int]func(txn *badger.Txn) error{
	2: migrateFlagKeyLayout,
}

// migrate reads the stored schema version and applies any missing
// migrations, all inside one transaction. Re-running is harmless: each
// migration is idempotent and an up-to-date database is left untouched.
func (s *Store) migrate() error {
	return s.db.Update(func(txn *badger.Txn) error {
		stored := 0
		item, err := txn.Get([]byte(schemaVersionKey))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// Fresh database.
		case err != nil:
			return fmt.Errorf("read schema version: %w", err)
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return fmt.Errorf("decode schema version: %w", err)
			}
		}

		target := schemaVersion
		if stored > target {
			// Database written by a newer build. Keep its version.
			target = stored
		}

		for v := stored + 1; v <= target; v++ {
			m, ok := migrations[v]
			if ok {
				if err := m(txn); err != nil {
					return fmt.Errorf("migration to version %d: %w", v, err)
				}
			}
			if s.logger != nil {
				s.logger.Info("applied schema migration", "version", v, "rewrite", ok)
			}
		}

		if target == stored {
			return nil
		}

		data, err := json.Marshal(target)
		if err != nil {
			return fmt.Errorf("encode schema version: %w", err)
		}
		return txn.Set([]byte(schemaVersionKey), data)
	})
}

// SchemaVersion returns the schema version currently stored on disk.
func (s *Store) SchemaVersion() (int, error) {
	var version int
	err := s.get([]byte(schemaVersionKey), &version)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// migrateFlagKeyLayout rewrites version 1 settings flags, which were stored
// as "settings:<userID>_<flag>", into the current "settings:<userID>:<flag>"
// layout. Only the initialized flag existed in version 1.
func migrateFlagKeyLayout(txn *badger.Txn) error {
	const legacySuffix = "_" + FlagInitialized

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(settingsPrefix)

	it := txn.NewIterator(opts)

	type move struct {
		oldKey []byte
		newKey []byte
		value  []byte
	}
	var moves []move

	for it.Seek([]byte(settingsPrefix)); it.ValidForPrefix([]byte(settingsPrefix)); it.Next() {
		item := it.Item()
		key := string(item.Key())

		rest := key[len(settingsPrefix):]
		if strings.Contains(rest, ":") || !strings.HasSuffix(rest, legacySuffix) {
			continue
		}

		userID := strings.TrimSuffix(rest, legacySuffix)
		value, err := item.ValueCopy(nil)
		if err != nil {
			it.Close()
			return err
		}
		moves = append(moves, move{
			oldKey: []byte(key),
			newKey: []byte(settingsPrefix + userID + ":" + FlagInitialized),
			value:  value,
		})
	}
	it.Close()

	for _, m := range moves {
		if err := txn.Set(m.newKey, m.value); err != nil {
			return err
		}
		if err := txn.Delete(m.oldKey); err != nil {
			return err
		}
	}
	return nil
}
