// Package cache holds the in-memory projection of one user's library: the
// notes and books currently loaded, plus UI selection. It is the view the
// rest of the application renders from; the durable store is reconciled at
// explicit load and save boundaries, not continuously.
//
// State is never mutated in place. Every change goes through Reduce, which
// returns a fresh value with replaced slices, so a snapshot handed out
// earlier stays valid.
package cache

import (
	"slices"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// State is the flat application state.
type State struct {
	Books          []domain.Book
	Notes          []domain.Note
	SelectedBookID string
	SelectedNoteID string
}

// NoteByID returns the note with the given id, if loaded.
func (s State) NoteByID(id string) (domain.Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Note{}, false
}

// BookByID returns the book with the given id, if loaded.
func (s State) BookByID(id string) (domain.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

// NotesInBook returns the loaded notes belonging to one book, most recently
// updated first. Ordering is decided here at read time; the store keeps no
// order of its own.
func (s State) NotesInBook(bookID string) []domain.Note {
	var notes []domain.Note
	for _, n := range s.Notes {
		if n.BookID == bookID {
			notes = append(notes, n)
		}
	}
	slices.SortStableFunc(notes, func(a, b domain.Note) int {
		switch {
		case a.UpdatedAt > b.UpdatedAt:
			return -1
		case a.UpdatedAt < b.UpdatedAt:
			return 1
		default:
			return 0
		}
	})
	return notes
}
