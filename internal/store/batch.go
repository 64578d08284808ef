package store

import (
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// BulkWriter batches record inserts through a Badger write batch. It trades
// snapshot isolation for throughput: entries become visible as the batch
// flushes, not atomically. Use it for seeding and replace flows that are
// already bracketed by a pending marker.
type BulkWriter struct {
	wb    *badger.WriteBatch
	count int
}

// NewBulkWriter starts a batch. The caller must finish it with either Flush
// or Cancel.
func (s *Store) NewBulkWriter() *BulkWriter {
	return &BulkWriter{wb: s.db.NewWriteBatch()}
}

// PutBook queues a book insert owned by ownerID.
func (w *BulkWriter) PutBook(ownerID string, book *domain.Book) error {
	data, err := json.Marshal(storedBook{Book: *book, Owner: ownerID})
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	if err := w.wb.Set([]byte(bookPrefix+book.ID), data); err != nil {
		return fmt.Errorf("batch book: %w", err)
	}
	w.count++
	return nil
}

// PutNote queues a note insert owned by ownerID.
func (w *BulkWriter) PutNote(ownerID string, note *domain.Note) error {
	data, err := json.Marshal(storedNote{Note: *note, Owner: ownerID})
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	if err := w.wb.Set([]byte(notePrefix+note.ID), data); err != nil {
		return fmt.Errorf("batch note: %w", err)
	}
	w.count++
	return nil
}

// Count reports how many records have been queued so far.
func (w *BulkWriter) Count() int {
	return w.count
}

// Flush commits all queued inserts.
func (w *BulkWriter) Flush() error {
	if err := w.wb.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}
	return nil
}

// Cancel discards the batch without writing.
func (w *BulkWriter) Cancel() {
	w.wb.Cancel()
}
