// Package main provides the entry point for the Clean Notes storage daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/CerberusProgrammer/clean-notes-core/internal/di"
	"github.com/CerberusProgrammer/clean-notes-core/internal/di/providers"
	"github.com/CerberusProgrammer/clean-notes-core/internal/logger"
	"github.com/CerberusProgrammer/clean-notes-core/internal/service"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	library := do.MustInvoke[*service.LibraryService](injector)

	// Seed the cache from the store before accepting work.
	if _, err := library.LoadAll(context.Background()); err != nil {
		log.Error("Failed to load library", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	// Flush the cache back to disk before closing anything.
	if err := library.SaveAll(context.Background()); err != nil {
		log.Error("Failed to save library on shutdown", "error", err)
	}

	// Shutdown all services in reverse order
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Wrapper types need explicit shutdown
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	if indexHandle, err := do.Invoke[*providers.NoteIndexHandle](injector); err == nil {
		if err := indexHandle.Shutdown(); err != nil {
			log.Error("Failed to close search index", "error", err)
		}
	}

	log.Info("Goodbye")
}
