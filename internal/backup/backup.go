// Package backup implements export and import of one user's library as a
// plain JSON document. The document carries no owner tags; the importing
// side assigns every record to the active partition.
package backup

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/CerberusProgrammer/clean-notes-core/internal/cache"
	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
	"github.com/CerberusProgrammer/clean-notes-core/internal/id"
	"github.com/CerberusProgrammer/clean-notes-core/internal/session"
	"github.com/CerberusProgrammer/clean-notes-core/internal/store"
)

// ImportMode selects how an imported document combines with existing data.
type ImportMode string

const (
	// ModeReplace drops the partition's current content and installs the
	// imported records under fresh ids.
	ModeReplace ImportMode = "replace"

	// ModeMerge keeps existing records and adds the imported ones.
	ModeMerge ImportMode = "merge"
)

// Service exports and imports library documents.
type Service struct {
	store   *store.Store
	cache   *cache.Cache
	session session.Provider
	logger  *slog.Logger
}

// NewService creates a backup service.
func NewService(st *store.Store, c *cache.Cache, sess session.Provider, logger *slog.Logger) *Service {
	return &Service{
		store:   st,
		cache:   c,
		session: sess,
		logger:  logger,
	}
}

// Export writes the current partition as a JSON document.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	userID := s.session.CurrentUserID()

	books, notes, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("read library: %w", err)
	}

	doc := domain.ExportDocument{
		Books:      books,
		Notes:      notes,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.MarshalWrite(w, doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("library exported",
			"user_id", userID,
			"books", len(doc.Books),
			"notes", len(doc.Notes),
		)
	}
	return nil
}

// Import reads a JSON document and installs it into the current partition
// according to mode. On success the cache is reloaded wholesale.
func (s *Service) Import(ctx context.Context, r io.Reader, mode ImportMode) error {
	var doc domain.ExportDocument
	if err := json.UnmarshalRead(r, &doc); err != nil {
		return fmt.Errorf("decode import: %w", err)
	}

	userID := s.session.CurrentUserID()

	var books []domain.Book
	var notes []domain.Note

	switch mode {
	case ModeReplace:
		books, notes = remapIDs(sanitize(doc.Books, doc.Notes))

	case ModeMerge:
		existingBooks, existingNotes, err := s.store.GetAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("read library: %w", err)
		}
		importedBooks, importedNotes := remapIDs(sanitize(doc.Books, doc.Notes))
		books = append(existingBooks, importedBooks...)
		notes = append(existingNotes, importedNotes...)

	default:
		return fmt.Errorf("unknown import mode %q", mode)
	}

	if err := s.store.SaveAll(ctx, userID, books, notes); err != nil {
		return fmt.Errorf("install import: %w", err)
	}

	s.cache.Dispatch(cache.LoadAll{Books: books, Notes: notes})

	if s.logger != nil {
		s.logger.Info("library imported",
			"user_id", userID,
			"mode", string(mode),
			"books", len(books),
			"notes", len(notes),
		)
	}
	return nil
}

// sanitize drops notes whose book is not part of the document and records
// without ids. Imported files come from outside the process; a dangling
// reference here would otherwise live in the store forever.
func sanitize(books []domain.Book, notes []domain.Note) ([]domain.Book, []domain.Note) {
	bookIDs := make(map[string]bool, len(books))
	cleanBooks := books[:0:0]
	for _, b := range books {
		if b.ID == "" {
			continue
		}
		bookIDs[b.ID] = true
		cleanBooks = append(cleanBooks, b)
	}

	cleanNotes := notes[:0:0]
	for _, n := range notes {
		if n.ID == "" || !bookIDs[n.BookID] {
			continue
		}
		cleanNotes = append(cleanNotes, n)
	}
	return cleanBooks, cleanNotes
}

// remapIDs assigns fresh ids to every imported record, rewriting note book
// references to match. Document ids come from outside the process: reusing
// them could collide with records already in the store, including records
// owned by a different user, since record keys are global.
func remapIDs(books []domain.Book, notes []domain.Note) ([]domain.Book, []domain.Note) {
	bookIDMap := make(map[string]string, len(books))

	remappedBooks := make([]domain.Book, len(books))
	for i, b := range books {
		fresh := id.MustGenerate("book")
		bookIDMap[b.ID] = fresh
		b.ID = fresh
		remappedBooks[i] = b
	}

	remappedNotes := make([]domain.Note, len(notes))
	for i, n := range notes {
		n.ID = id.MustGenerate("note")
		n.BookID = bookIDMap[n.BookID]
		remappedNotes[i] = n
	}
	return remappedBooks, remappedNotes
}
