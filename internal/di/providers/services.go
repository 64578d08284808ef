package providers

import (
	"github.com/samber/do/v2"

	"github.com/CerberusProgrammer/clean-notes-core/internal/backup"
	"github.com/CerberusProgrammer/clean-notes-core/internal/cache"
	"github.com/CerberusProgrammer/clean-notes-core/internal/config"
	"github.com/CerberusProgrammer/clean-notes-core/internal/logger"
	"github.com/CerberusProgrammer/clean-notes-core/internal/service"
	"github.com/CerberusProgrammer/clean-notes-core/internal/session"
	"github.com/CerberusProgrammer/clean-notes-core/internal/validation"
)

// ProvideCache provides the in-memory application cache.
func ProvideCache(i do.Injector) (*cache.Cache, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return cache.New(log.Logger), nil
}

// ProvideValidator provides the payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSession provides the session identity accessor.
func ProvideSession(i do.Injector) (session.Provider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return session.NewStaticProvider(cfg.Session.UserID), nil
}

// ProvideBookService provides the book orchestration service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*NoteIndexHandle](i)
	c := do.MustInvoke[*cache.Cache](i)
	v := do.MustInvoke[*validation.Validator](i)
	sess := do.MustInvoke[session.Provider](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, c, indexHandle.NoteIndex, v, sess, log.Logger), nil
}

// ProvideNoteService provides the note orchestration service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*NoteIndexHandle](i)
	c := do.MustInvoke[*cache.Cache](i)
	v := do.MustInvoke[*validation.Validator](i)
	sess := do.MustInvoke[session.Provider](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, c, indexHandle.NoteIndex, v, sess, log.Logger), nil
}

// ProvideLibraryService provides the whole-partition operations service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*NoteIndexHandle](i)
	c := do.MustInvoke[*cache.Cache](i)
	sess := do.MustInvoke[session.Provider](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, c, indexHandle.NoteIndex, sess, log.Logger), nil
}

// ProvideBackupService provides export and import.
func ProvideBackupService(i do.Injector) (*backup.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	c := do.MustInvoke[*cache.Cache](i)
	sess := do.MustInvoke[session.Provider](i)
	log := do.MustInvoke[*logger.Logger](i)

	return backup.NewService(storeHandle.Store, c, sess, log.Logger), nil
}
