// Package domain contains the core record types for the Clean Notes storage engine.
package domain

// Book is a named collection of notes.
// A book is owned by exactly one user; ownership is tracked by the store,
// not by the record itself.
type Book struct {
	Stamped
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
}
