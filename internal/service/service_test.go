package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CerberusProgrammer/clean-notes-core/internal/cache"
	"github.com/CerberusProgrammer/clean-notes-core/internal/search"
	"github.com/CerberusProgrammer/clean-notes-core/internal/session"
	"github.com/CerberusProgrammer/clean-notes-core/internal/store"
	"github.com/CerberusProgrammer/clean-notes-core/internal/validation"
)

// testEnv wires a real store, cache, and search index against a temp
// directory, partitioned to the fixed test user "u1".
type testEnv struct {
	store   *store.Store
	cache   *cache.Cache
	index   *search.NoteIndex
	books   *BookService
	notes   *NoteService
	library *LibraryService
}

func setupEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "db"), nil)
	require.NoError(t, err)

	index, err := search.NewNoteIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
	})
	require.NoError(t, err)

	c := cache.New(nil)
	v := validation.New()
	sess := session.NewStaticProvider("u1")

	env := &testEnv{
		store:   st,
		cache:   c,
		index:   index,
		books:   NewBookService(st, c, index, v, sess, nil),
		notes:   NewNoteService(st, c, index, v, sess, nil),
		library: NewLibraryService(st, c, index, sess, nil),
	}

	cleanup := func() {
		_ = index.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}
	return env, cleanup
}
