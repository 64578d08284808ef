package cache

import (
	"log/slog"
	"sync"
)

// Cache serializes reducer dispatches over one State value and hands out
// snapshots. Snapshots are plain values whose slices are never mutated after
// publication, so callers may read them without holding anything.
//
// The reducer itself stays a free function; Cache only adds the locking and
// is handed around by explicit injection, never through ambient context.
type Cache struct {
	mu     sync.RWMutex
	state  State
	logger *slog.Logger
}

// New returns an empty cache.
func New(logger *slog.Logger) *Cache {
	return &Cache{logger: logger}
}

// Dispatch applies a command and returns the resulting state snapshot.
func (c *Cache) Dispatch(cmd Command) State {
	c.mu.Lock()
	c.state = Reduce(c.state, cmd)
	next := c.state
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("command dispatched",
			"command", commandName(cmd),
			"books", len(next.Books),
			"notes", len(next.Notes),
		)
	}
	return next
}

// State returns the current snapshot.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Reset drops everything, returning the cache to its zero state. Used on
// sign-out and full data wipes.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case LoadAll:
		return "load-all"
	case LoadNotes:
		return "load-notes"
	case AddNote:
		return "add-note"
	case UpdateNote:
		return "update-note"
	case DeleteNote:
		return "delete-note"
	case SelectNote:
		return "select-note"
	case AddBook:
		return "add-book"
	case UpdateBook:
		return "update-book"
	case DeleteBook:
		return "delete-book"
	case SelectBook:
		return "select-book"
	case MoveNote:
		return "move-note"
	default:
		return "unknown"
	}
}
