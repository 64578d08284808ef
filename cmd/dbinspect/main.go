// Command dbinspect opens the database read-only and prints per-partition
// record counts plus integrity findings (dangling book references, leftover
// pending markers).
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type ownedRecord struct {
	ID     string `json:"id"`
	BookID string `json:"bookId,omitempty"`
	Owner  string `json:"owner"`
}

type partitionStats struct {
	books    int
	notes    int
	bookIDs  map[string]bool
	dangling []string
}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/CleanNotes/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	partitions := map[string]*partitionStats{}
	var pendingUsers []string
	schemaVersion := 0

	err = db.View(func(txn *badger.Txn) error {
		if err := scan(txn, "book:", func(rec ownedRecord) {
			stats(partitions, rec.Owner).books++
			stats(partitions, rec.Owner).bookIDs[rec.ID] = true
		}); err != nil {
			return err
		}

		if err := scan(txn, "note:", func(rec ownedRecord) {
			stats(partitions, rec.Owner).notes++
		}); err != nil {
			return err
		}

		// Second pass over notes for dangling book references, now that
		// every partition's book ids are known.
		if err := scan(txn, "note:", func(rec ownedRecord) {
			if !stats(partitions, rec.Owner).bookIDs[rec.BookID] {
				s := stats(partitions, rec.Owner)
				s.dangling = append(s.dangling, rec.ID)
			}
		}); err != nil {
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte("pending:")); it.ValidForPrefix([]byte("pending:")); it.Next() {
			pendingUsers = append(pendingUsers, strings.TrimPrefix(string(it.Item().Key()), "pending:"))
		}

		item, err := txn.Get([]byte("schema:version"))
		if err == nil {
			_ = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &schemaVersion)
			})
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	owners := make([]string, 0, len(partitions))
	for owner := range partitions {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		s := partitions[owner]
		fmt.Printf("Partition: %s\n", owner)
		fmt.Printf("  Books: %d\n", s.books)
		fmt.Printf("  Notes: %d\n", s.notes)
		if len(s.dangling) > 0 {
			fmt.Printf("  Dangling notes (book missing): %d\n", len(s.dangling))
			for _, id := range s.dangling {
				fmt.Printf("    %s\n", id)
			}
		}
		fmt.Println()
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Schema version: %d\n", schemaVersion)
	fmt.Printf("Partitions: %d\n", len(partitions))
	if len(pendingUsers) > 0 {
		fmt.Printf("Interrupted bulk saves: %v\n", pendingUsers)
	}
}

func stats(partitions map[string]*partitionStats, owner string) *partitionStats {
	s, ok := partitions[owner]
	if !ok {
		s = &partitionStats{bookIDs: map[string]bool{}}
		partitions[owner] = s
	}
	return s
}

func scan(txn *badger.Txn, prefix string, fn func(ownedRecord)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			var rec ownedRecord
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			fn(rec)
			return nil
		})
		if err != nil {
			log.Printf("Error reading %s: %v", it.Item().Key(), err)
		}
	}
	return nil
}
