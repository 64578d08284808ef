package cache

import (
	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// Command is a named state transition. The set below is closed; Reduce
// treats anything else as a no-op.
type Command interface {
	isCommand()
}

// LoadAll replaces books and notes wholesale. Issued after the initial bulk
// read and after an import.
type LoadAll struct {
	Books []domain.Book
	Notes []domain.Note
}

// LoadNotes replaces the notes collection only.
type LoadNotes struct {
	Notes []domain.Note
}

// AddNote appends a note.
type AddNote struct {
	Note domain.Note
}

// UpdateNote replaces the note with a matching id. Missing id: no-op.
type UpdateNote struct {
	Note domain.Note
}

// DeleteNote removes a note by id, clearing the selection if it pointed at
// the removed note.
type DeleteNote struct {
	ID string
}

// SelectNote sets the selected note. Pure UI state, never persisted.
type SelectNote struct {
	ID string
}

// AddBook appends a book.
type AddBook struct {
	Book domain.Book
}

// UpdateBook replaces the book with a matching id. Missing id: no-op.
type UpdateBook struct {
	Book domain.Book
}

// DeleteBook removes a book by id.
type DeleteBook struct {
	ID string
}

// SelectBook sets the selected book. Pure UI state, never persisted.
type SelectBook struct {
	ID string
}

// MoveNote rewrites a note's book reference in place.
type MoveNote struct {
	NoteID       string
	TargetBookID string
	UpdatedAt    int64
}

func (LoadAll) isCommand()    {}
func (LoadNotes) isCommand()  {}
func (AddNote) isCommand()    {}
func (UpdateNote) isCommand() {}
func (DeleteNote) isCommand() {}
func (SelectNote) isCommand() {}
func (AddBook) isCommand()    {}
func (UpdateBook) isCommand() {}
func (DeleteBook) isCommand() {}
func (SelectBook) isCommand() {}
func (MoveNote) isCommand()   {}
