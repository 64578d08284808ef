package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

func note(id, bookID, content string) domain.Note {
	return domain.Note{
		Stamped: domain.Stamped{ID: id, CreatedAt: 100, UpdatedAt: 100},
		BookID:  bookID,
		Content: content,
	}
}

func book(id, name string) domain.Book {
	return domain.Book{
		Stamped: domain.Stamped{ID: id, CreatedAt: 100, UpdatedAt: 100},
		Name:    name,
	}
}

func seededState() State {
	return State{
		Books: []domain.Book{book("b1", "Work"), book("b2", "Home")},
		Notes: []domain.Note{
			note("n1", "b1", "# One"),
			note("n2", "b1", "# Two"),
			note("n3", "b2", "# Three"),
		},
	}
}

func TestReduce_LoadAll(t *testing.T) {
	state := Reduce(State{SelectedNoteID: "n9"}, LoadAll{
		Books: []domain.Book{book("b1", "Work")},
		Notes: []domain.Note{note("n1", "b1", "# One")},
	})

	assert.Len(t, state.Books, 1)
	assert.Len(t, state.Notes, 1)
	// Selection is untouched by a reload.
	assert.Equal(t, "n9", state.SelectedNoteID)
}

func TestReduce_LoadNotes(t *testing.T) {
	state := Reduce(seededState(), LoadNotes{Notes: []domain.Note{note("n9", "b1", "# Nine")}})

	assert.Len(t, state.Books, 2)
	require.Len(t, state.Notes, 1)
	assert.Equal(t, "n9", state.Notes[0].ID)
}

func TestReduce_AddNote(t *testing.T) {
	before := seededState()
	state := Reduce(before, AddNote{Note: note("n4", "b2", "# Four")})

	assert.Len(t, state.Notes, 4)
	// The input state is untouched.
	assert.Len(t, before.Notes, 3)
}

func TestReduce_UpdateNote(t *testing.T) {
	updated := note("n2", "b1", "# Two, revised")
	updated.UpdatedAt = 200

	state := Reduce(seededState(), UpdateNote{Note: updated})

	got, ok := state.NoteByID("n2")
	require.True(t, ok)
	assert.Equal(t, "# Two, revised", got.Content)
	assert.EqualValues(t, 200, got.UpdatedAt)
}

func TestReduce_UpdateNote_MissingID(t *testing.T) {
	before := seededState()
	state := Reduce(before, UpdateNote{Note: note("missing", "b1", "# X")})
	assert.Equal(t, before, state)
}

func TestReduce_DeleteNote(t *testing.T) {
	before := seededState()
	before.SelectedNoteID = "n2"

	state := Reduce(before, DeleteNote{ID: "n2"})

	assert.Len(t, state.Notes, 2)
	_, ok := state.NoteByID("n2")
	assert.False(t, ok)
	// Selection pointed at the removed note, so it is cleared.
	assert.Equal(t, "", state.SelectedNoteID)
}

func TestReduce_DeleteNote_OtherSelectionKept(t *testing.T) {
	before := seededState()
	before.SelectedNoteID = "n1"

	state := Reduce(before, DeleteNote{ID: "n2"})
	assert.Equal(t, "n1", state.SelectedNoteID)
}

func TestReduce_DeleteBook(t *testing.T) {
	state := Reduce(seededState(), DeleteBook{ID: "b1"})

	assert.Len(t, state.Books, 1)
	_, ok := state.BookByID("b1")
	assert.False(t, ok)
}

func TestReduce_Selection(t *testing.T) {
	state := Reduce(State{}, SelectBook{ID: "b1"})
	state = Reduce(state, SelectNote{ID: "n1"})

	assert.Equal(t, "b1", state.SelectedBookID)
	assert.Equal(t, "n1", state.SelectedNoteID)

	state = Reduce(state, SelectNote{ID: ""})
	assert.Equal(t, "", state.SelectedNoteID)
}

func TestReduce_MoveNote(t *testing.T) {
	state := Reduce(seededState(), MoveNote{NoteID: "n1", TargetBookID: "b2", UpdatedAt: 300})

	got, ok := state.NoteByID("n1")
	require.True(t, ok)
	assert.Equal(t, "b2", got.BookID)
	assert.EqualValues(t, 300, got.UpdatedAt)
}

// TestReduce_NoOpLaw verifies the totality guarantee: commands naming a
// missing id, and unknown commands, return a state equal to the input.
func TestReduce_NoOpLaw(t *testing.T) {
	before := seededState()

	commands := []Command{
		UpdateNote{Note: note("missing", "b1", "# X")},
		DeleteNote{ID: "missing"},
		UpdateBook{Book: book("missing", "X")},
		DeleteBook{ID: "missing"},
		MoveNote{NoteID: "missing", TargetBookID: "b1"},
		unknownCommand{},
	}
	for _, cmd := range commands {
		assert.Equal(t, before, Reduce(before, cmd))
	}
}

type unknownCommand struct{}

func (unknownCommand) isCommand() {}

func TestReduce_InputStateNeverMutated(t *testing.T) {
	before := seededState()
	snapshot := seededState()

	_ = Reduce(before, UpdateNote{Note: note("n1", "b1", "# changed")})
	_ = Reduce(before, DeleteNote{ID: "n1"})
	_ = Reduce(before, MoveNote{NoteID: "n1", TargetBookID: "b2"})
	_ = Reduce(before, AddBook{Book: book("b3", "New")})

	assert.Equal(t, snapshot, before)
}

func TestState_NotesInBook(t *testing.T) {
	state := seededState()
	notes := state.Notes
	notes[0].UpdatedAt = 300 // n1 newest
	notes[1].UpdatedAt = 200

	inBook := state.NotesInBook("b1")
	require.Len(t, inBook, 2)
	assert.Equal(t, "n1", inBook[0].ID)
	assert.Equal(t, "n2", inBook[1].ID)
	assert.Empty(t, state.NotesInBook("no-such-book"))
}

func TestCache_DispatchAndReset(t *testing.T) {
	c := New(nil)

	state := c.Dispatch(AddBook{Book: book("b1", "Work")})
	assert.Len(t, state.Books, 1)

	state = c.Dispatch(AddNote{Note: note("n1", "b1", "# One")})
	assert.Len(t, state.Notes, 1)
	assert.Equal(t, state, c.State())

	c.Reset()
	assert.Equal(t, State{}, c.State())
}
