package cache

import (
	"slices"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// Reduce applies one command to a state and returns the next state. It is
// pure: no I/O, nothing outside the command payload influences the result.
//
// Every transition is total. An unrecognized command or a command naming an
// id that is not loaded returns the input state unchanged, never an error.
// That makes the reducer safe to drive speculatively, before or after the
// corresponding store call resolves.
func Reduce(state State, cmd Command) State {
	switch c := cmd.(type) {
	case LoadAll:
		state.Books = slices.Clone(c.Books)
		state.Notes = slices.Clone(c.Notes)
		return state

	case LoadNotes:
		state.Notes = slices.Clone(c.Notes)
		return state

	case AddNote:
		state.Notes = append(slices.Clone(state.Notes), c.Note)
		return state

	case UpdateNote:
		return replaceNote(state, c.Note)

	case DeleteNote:
		i := slices.IndexFunc(state.Notes, func(n domain.Note) bool { return n.ID == c.ID })
		if i < 0 {
			return state
		}
		state.Notes = slices.Delete(slices.Clone(state.Notes), i, i+1)
		if state.SelectedNoteID == c.ID {
			state.SelectedNoteID = ""
		}
		return state

	case SelectNote:
		state.SelectedNoteID = c.ID
		return state

	case AddBook:
		state.Books = append(slices.Clone(state.Books), c.Book)
		return state

	case UpdateBook:
		i := slices.IndexFunc(state.Books, func(b domain.Book) bool { return b.ID == c.Book.ID })
		if i < 0 {
			return state
		}
		books := slices.Clone(state.Books)
		books[i] = c.Book
		state.Books = books
		return state

	case DeleteBook:
		i := slices.IndexFunc(state.Books, func(b domain.Book) bool { return b.ID == c.ID })
		if i < 0 {
			return state
		}
		state.Books = slices.Delete(slices.Clone(state.Books), i, i+1)
		return state

	case SelectBook:
		state.SelectedBookID = c.ID
		return state

	case MoveNote:
		i := slices.IndexFunc(state.Notes, func(n domain.Note) bool { return n.ID == c.NoteID })
		if i < 0 {
			return state
		}
		notes := slices.Clone(state.Notes)
		notes[i].BookID = c.TargetBookID
		if c.UpdatedAt > notes[i].UpdatedAt {
			notes[i].UpdatedAt = c.UpdatedAt
		}
		state.Notes = notes
		return state

	default:
		return state
	}
}

func replaceNote(state State, note domain.Note) State {
	i := slices.IndexFunc(state.Notes, func(n domain.Note) bool { return n.ID == note.ID })
	if i < 0 {
		return state
	}
	notes := slices.Clone(state.Notes)
	notes[i] = note
	state.Notes = notes
	return state
}
