package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/CerberusProgrammer/clean-notes-core/internal/errors"
	"github.com/CerberusProgrammer/clean-notes-core/internal/store"
)

func TestBookService_CreateBook(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	ctx := context.Background()
	book, err := env.books.CreateBook(ctx, CreateBookInput{
		Name:  "Work",
		Color: "#4A90D9",
		Emoji: "📓",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.NotZero(t, book.CreatedAt)

	// Durable in the store.
	stored, err := env.store.GetBook(ctx, "u1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", stored.Name)

	// Visible in the cache.
	_, ok := env.cache.State().BookByID(book.ID)
	assert.True(t, ok)
}

func TestBookService_CreateBook_Invalid(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	_, err := env.books.CreateBook(context.Background(), CreateBookInput{Name: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// Nothing reached the cache.
	assert.Empty(t, env.cache.State().Books)
}

func TestBookService_UpdateBook(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	ctx := context.Background()
	book, err := env.books.CreateBook(ctx, CreateBookInput{Name: "Work"})
	require.NoError(t, err)

	name := "Work Notes"
	updated, err := env.books.UpdateBook(ctx, UpdateBookInput{ID: book.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Work Notes", updated.Name)
	assert.Greater(t, updated.UpdatedAt, book.UpdatedAt)

	cached, ok := env.cache.State().BookByID(book.ID)
	require.True(t, ok)
	assert.Equal(t, "Work Notes", cached.Name)
}

// TestBookService_UpdateBook_StoreFailureLeavesCacheUntouched proves the
// orchestration rule: a rejected store write must not move the cache.
func TestBookService_UpdateBook_StoreFailureLeavesCacheUntouched(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	ctx := context.Background()
	book, err := env.books.CreateBook(ctx, CreateBookInput{Name: "Work"})
	require.NoError(t, err)

	before := env.cache.State()

	name := "Hijacked"
	_, err = env.books.UpdateBook(ctx, UpdateBookInput{ID: "no-such-book", Name: &name})
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	assert.Equal(t, before, env.cache.State())

	cached, _ := env.cache.State().BookByID(book.ID)
	assert.Equal(t, "Work", cached.Name)
}

func TestBookService_DeleteBook_Cascade(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	ctx := context.Background()
	book, err := env.books.CreateBook(ctx, CreateBookInput{Name: "Work"})
	require.NoError(t, err)
	note, err := env.notes.CreateNote(ctx, CreateNoteInput{BookID: book.ID, Content: "# A"})
	require.NoError(t, err)

	env.notes.SelectNote(note.ID)

	require.NoError(t, env.books.DeleteBook(ctx, book.ID))

	state := env.cache.State()
	assert.Empty(t, state.Books)
	assert.Empty(t, state.Notes)
	// The cascade removed the selected note, so selection cleared too.
	assert.Equal(t, "", state.SelectedNoteID)

	_, err = env.store.GetNote(ctx, "u1", note.ID)
	assert.ErrorIs(t, err, store.ErrNoteNotFound)
}

func TestBookService_SelectBook_SkipsStore(t *testing.T) {
	env, cleanup := setupEnv(t)
	defer cleanup()

	// Selecting an id that was never persisted works: selection is pure UI
	// state with no store round trip.
	state := env.books.SelectBook("book-anything")
	assert.Equal(t, "book-anything", state.SelectedBookID)
}
