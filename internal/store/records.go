package store

import (
	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// storedBook is the on-disk envelope for a book: the domain record plus the
// owner tag. The tag is stripped before a record leaves the store.
type storedBook struct {
	domain.Book
	Owner string `json:"owner"`
}

// storedNote is the on-disk envelope for a note.
type storedNote struct {
	domain.Note
	Owner string `json:"owner"`
}

// pendingMarker records an in-flight bulk replace for one partition.
// It is written before the clear phase and removed after the insert phase;
// finding one at open time means the replace was interrupted in between.
type pendingMarker struct {
	Token     string `json:"token"`
	StartedAt int64  `json:"startedAt"`
}
