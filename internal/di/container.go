// Package di provides dependency injection configuration for the Clean
// Notes storage core.
package di

import (
	"github.com/samber/do/v2"

	"github.com/CerberusProgrammer/clean-notes-core/internal/backup"
	"github.com/CerberusProgrammer/clean-notes-core/internal/cache"
	"github.com/CerberusProgrammer/clean-notes-core/internal/config"
	"github.com/CerberusProgrammer/clean-notes-core/internal/di/providers"
	"github.com/CerberusProgrammer/clean-notes-core/internal/logger"
	"github.com/CerberusProgrammer/clean-notes-core/internal/service"
	"github.com/CerberusProgrammer/clean-notes-core/internal/session"
	"github.com/CerberusProgrammer/clean-notes-core/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSession)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideNoteIndex)
	do.Provide(injector, providers.ProvideCache)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideBackupService)

	return injector
}

// Bootstrap initializes all services and returns once the storage layer is
// open and the cache is seeded. Invoking the services here triggers the
// lazy initialization chain in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[session.Provider](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.NoteIndexHandle](injector)
	_ = do.MustInvoke[*cache.Cache](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*backup.Service](injector)

	return nil
}
