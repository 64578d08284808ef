package providers

import (
	"github.com/samber/do/v2"

	"github.com/CerberusProgrammer/clean-notes-core/internal/config"
	"github.com/CerberusProgrammer/clean-notes-core/internal/logger"
	"github.com/CerberusProgrammer/clean-notes-core/internal/search"
)

// NoteIndexHandle wraps the search index with shutdown capability. The
// embedded index is nil when search is disabled in configuration; consumers
// pass it through unchecked and the services guard on nil themselves.
type NoteIndexHandle struct {
	*search.NoteIndex
}

// Shutdown implements do.Shutdownable.
func (h *NoteIndexHandle) Shutdown() error {
	if h.NoteIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideNoteIndex provides the full-text note index.
func ProvideNoteIndex(i do.Injector) (*NoteIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("note search disabled by configuration")
		return &NoteIndexHandle{}, nil
	}

	index, err := search.NewNoteIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &NoteIndexHandle{NoteIndex: index}, nil
}
