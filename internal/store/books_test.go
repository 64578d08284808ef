package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddBook tests creating and retrieving a book.
func TestAddBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := testBook("book-001", "Work")

	err := store.AddBook(ctx, "u1", book)
	require.NoError(t, err)

	retrieved, err := store.GetBook(ctx, "u1", "book-001")
	require.NoError(t, err)
	assert.Equal(t, book.ID, retrieved.ID)
	assert.Equal(t, book.Name, retrieved.Name)
	assert.Equal(t, book.Color, retrieved.Color)
	assert.Equal(t, book.Emoji, retrieved.Emoji)
}

// TestAddBook_Duplicate tests that reusing an id fails, even across users.
func TestAddBook_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := testBook("book-001", "Work")

	err := store.AddBook(ctx, "u1", book)
	require.NoError(t, err)

	err = store.AddBook(ctx, "u1", book)
	assert.ErrorIs(t, err, ErrBookExists)

	// The id space is global: another user colliding is still a conflict.
	err = store.AddBook(ctx, "u2", testBook("book-001", "Other"))
	assert.ErrorIs(t, err, ErrBookExists)
}

// TestGetBook_NotFound tests getting a nonexistent book.
func TestGetBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetBook(context.Background(), "u1", "nonexistent")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestGetBook_ForeignOwner tests that another user's book reads as absent.
func TestGetBook_ForeignOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-001", "Private")))

	_, err := store.GetBook(ctx, "u2", "book-001")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestUpdateBook tests updating a book's fields.
func TestUpdateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := testBook("book-001", "Work")
	require.NoError(t, store.AddBook(ctx, "u1", book))

	original, err := store.GetBook(ctx, "u1", "book-001")
	require.NoError(t, err)

	updated := *original
	updated.Name = "Work Notes"
	updated.Emoji = "💼"
	require.NoError(t, store.UpdateBook(ctx, "u1", &updated))

	retrieved, err := store.GetBook(ctx, "u1", "book-001")
	require.NoError(t, err)
	assert.Equal(t, "Work Notes", retrieved.Name)
	assert.Equal(t, "💼", retrieved.Emoji)
	assert.Equal(t, original.CreatedAt, retrieved.CreatedAt)
	assert.Greater(t, retrieved.UpdatedAt, original.UpdatedAt)
}

// TestUpdateBook_MonotonicTimestamps tests that back-to-back updates always
// advance UpdatedAt, even within the same millisecond.
func TestUpdateBook_MonotonicTimestamps(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-001", "Work")))

	var last int64
	for i := 0; i < 5; i++ {
		book, err := store.GetBook(ctx, "u1", "book-001")
		require.NoError(t, err)
		require.NoError(t, store.UpdateBook(ctx, "u1", book))

		after, err := store.GetBook(ctx, "u1", "book-001")
		require.NoError(t, err)
		assert.Greater(t, after.UpdatedAt, last)
		last = after.UpdatedAt
	}
}

// TestUpdateBook_ForeignOwner tests the cross-partition update rejection.
func TestUpdateBook_ForeignOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-001", "Private")))

	stolen := testBook("book-001", "Hijacked")
	err := store.UpdateBook(ctx, "u2", stolen)
	assert.ErrorIs(t, err, ErrBookNotFound)

	// u1's record is untouched.
	retrieved, err := store.GetBook(ctx, "u1", "book-001")
	require.NoError(t, err)
	assert.Equal(t, "Private", retrieved.Name)
}

// TestDeleteBook_Cascade tests that deleting a book removes its notes and
// reports their ids, while unrelated records survive.
func TestDeleteBook_Cascade(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-001", "Work")))
	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-002", "Home")))
	require.NoError(t, store.AddNote(ctx, "u1", testNote("note-001", "book-001", "# A")))
	require.NoError(t, store.AddNote(ctx, "u1", testNote("note-002", "book-001", "# B")))
	require.NoError(t, store.AddNote(ctx, "u1", testNote("note-003", "book-002", "# C")))

	cascaded, err := store.DeleteBook(ctx, "u1", "book-001")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"note-001", "note-002"}, cascaded)

	_, err = store.GetBook(ctx, "u1", "book-001")
	assert.ErrorIs(t, err, ErrBookNotFound)
	_, err = store.GetNote(ctx, "u1", "note-001")
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = store.GetNote(ctx, "u1", "note-002")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// The other book and its note are untouched.
	_, err = store.GetBook(ctx, "u1", "book-002")
	require.NoError(t, err)
	_, err = store.GetNote(ctx, "u1", "note-003")
	require.NoError(t, err)
}

// TestDeleteBook_CascadeSkipsForeignNotes tests that the cascade never
// crosses a partition boundary, even when a foreign note references the
// deleted book's id.
func TestDeleteBook_CascadeSkipsForeignNotes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-001", "Work")))
	require.NoError(t, store.AddNote(ctx, "u2", testNote("note-foreign", "book-001", "# F")))

	cascaded, err := store.DeleteBook(ctx, "u1", "book-001")
	require.NoError(t, err)
	assert.Empty(t, cascaded)

	_, err = store.GetNote(ctx, "u2", "note-foreign")
	require.NoError(t, err)
}

// TestDeleteBook_NotFound tests deleting a nonexistent or foreign book.
func TestDeleteBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.DeleteBook(ctx, "u1", "nonexistent")
	assert.ErrorIs(t, err, ErrBookNotFound)

	require.NoError(t, store.AddBook(ctx, "u1", testBook("book-001", "Private")))
	_, err = store.DeleteBook(ctx, "u2", "book-001")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestBookRoundTrip exercises the full add, get, update, get cycle.
func TestBookRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := testBook("book-rt", "Journal")
	require.NoError(t, store.AddBook(ctx, "u1", book))

	first, err := store.GetBook(ctx, "u1", "book-rt")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	first.Description = "daily entries"
	require.NoError(t, store.UpdateBook(ctx, "u1", first))

	second, err := store.GetBook(ctx, "u1", "book-rt")
	require.NoError(t, err)
	assert.Equal(t, "daily entries", second.Description)
	assert.Equal(t, book.CreatedAt, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, book.UpdatedAt)
}
