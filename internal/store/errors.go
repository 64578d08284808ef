package store

import (
	apperrors "github.com/CerberusProgrammer/clean-notes-core/internal/errors"
)

// Sentinel errors returned by store operations.
//
// "Not found" deliberately covers both "no such record" and "record owned by
// a different user": distinguishing the two would leak the existence of
// another user's data.
var (
	ErrBookNotFound = apperrors.NotFound("book not found")
	ErrNoteNotFound = apperrors.NotFound("note not found")

	ErrBookExists = apperrors.AlreadyExists("book id already exists")
	ErrNoteExists = apperrors.AlreadyExists("note id already exists")

	// ErrDatabaseLocked means another process holds the database directory.
	// Non-retryable in-process: the holder must exit before a reopen can work.
	ErrDatabaseLocked = apperrors.StorageFatal("database locked by another process, retry after it closes")
)
