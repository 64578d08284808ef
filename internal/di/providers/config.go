// Package providers contains dependency injection providers for the Clean
// Notes storage core.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/CerberusProgrammer/clean-notes-core/internal/config"
	"github.com/CerberusProgrammer/clean-notes-core/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Clean Notes core",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.BasePath,
		"search_enabled", cfg.Search.Enabled,
	)

	return log, nil
}
