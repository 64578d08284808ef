package domain

import (
	"strings"
	"unicode/utf8"
)

// Note is a single markdown document belonging to a book.
//
// BookID is not enforced referentially except by the cascading book delete:
// a note can be left dangling if its book is removed out of band, so readers
// must filter rather than assume the book exists.
type Note struct {
	Stamped
	BookID  string `json:"bookId"`
	Content string `json:"content"`
}

// Title derives the display title from the note content: the first markdown
// heading if one exists, otherwise the first non-empty line.
// Returns "Untitled" for empty content.
func (n *Note) Title() string {
	for line := range strings.Lines(n.Content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(line, "#"))
	}
	return "Untitled"
}

// Excerpt returns up to max runes of the note body following the title line.
func (n *Note) Excerpt(max int) string {
	var b strings.Builder
	count := 0
	first := true
	for line := range strings.Lines(n.Content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first {
			// Skip the title line.
			first = false
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
			count++
		}
		b.WriteString(line)
		count += utf8.RuneCountInString(line)
		if count >= max {
			break
		}
	}
	runes := []rune(b.String())
	if len(runes) > max {
		return string(runes[:max])
	}
	return string(runes)
}
