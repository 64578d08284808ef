package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "cleannotes-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func testBook(id, name string) *domain.Book {
	now := time.Now().UnixMilli()
	return &domain.Book{
		Stamped: domain.Stamped{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        name,
		Description: "a test book",
		Color:       "#4A90D9",
		Emoji:       "📓",
	}
}

func testNote(id, bookID, content string) *domain.Note {
	now := time.Now().UnixMilli()
	return &domain.Note{
		Stamped: domain.Stamped{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookID:  bookID,
		Content: content,
	}
}

// TestNew_LockedDatabase verifies that opening a directory already held by
// another handle fails with the dedicated locked error.
func TestNew_LockedDatabase(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cleannotes-lock-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	first, err := New(dbPath, nil)
	require.NoError(t, err)
	defer first.Close()

	second, err := New(dbPath, nil)
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrDatabaseLocked)
}

// TestSchemaVersion_FreshDatabase verifies a fresh database is stamped with
// the current schema version.
func TestSchemaVersion_FreshDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}

// TestSchemaVersion_SurvivesReopen verifies the version persists and never
// regresses across close/open cycles.
func TestSchemaVersion_SurvivesReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cleannotes-version-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}

// TestSchemaVersion_NeverDowngrades verifies that a stored version newer
// than the build's target is kept as-is.
func TestSchemaVersion_NeverDowngrades(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cleannotes-downgrade-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)

	future := schemaVersion + 5
	require.NoError(t, store.set([]byte(schemaVersionKey), future))
	require.NoError(t, store.Close())

	store, err = New(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, future, version)
}

// TestMigration_LegacyFlagLayout verifies version 1 flag keys are rewritten
// into the current layout on open.
func TestMigration_LegacyFlagLayout(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cleannotes-migrate-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)

	// Rewind the database to the version 1 layout by hand.
	require.NoError(t, store.set([]byte(schemaVersionKey), 1))
	err = store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(settingsPrefix+"u1_"+FlagInitialized), []byte("true"))
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	initialized, err := store.HasFlag(ctx, "u1", FlagInitialized)
	require.NoError(t, err)
	assert.True(t, initialized)

	// The legacy key must be gone.
	exists, err := store.exists([]byte(settingsPrefix + "u1_" + FlagInitialized))
	require.NoError(t, err)
	assert.False(t, exists)

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}
