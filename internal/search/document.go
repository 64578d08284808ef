// Package search provides full-text note search using Bleve. Notes are
// indexed per user; every query is scoped by the owner field so one user's
// content never surfaces in another's results.
package search

import (
	"github.com/CerberusProgrammer/clean-notes-core/internal/domain"
)

// NoteDocument is the indexed representation of a note. The title is
// denormalized out of the markdown content at index time so heading matches
// rank above body matches.
type NoteDocument struct {
	ID      string `json:"id"`
	Owner   string `json:"owner"`
	BookID  string `json:"book_id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// NewNoteDocument builds the index document for a note.
func NewNoteDocument(ownerID string, note *domain.Note) *NoteDocument {
	return &NoteDocument{
		ID:        note.ID,
		Owner:     ownerID,
		BookID:    note.BookID,
		Title:     note.Title(),
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names, which are capitalized; the
// mapping uses lowercase names, so convert explicitly.
func (d *NoteDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"owner":      d.Owner,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
	if d.BookID != "" {
		m["book_id"] = d.BookID
	}
	if d.Content != "" {
		m["content"] = d.Content
	}
	return m
}
