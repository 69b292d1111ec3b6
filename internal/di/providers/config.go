// Package providers contains dependency injection providers for the folio server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/logger"
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
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Folio Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"base_url", cfg.Site.BaseURL,
		"store_path", cfg.Content.StorePath,
	)

	return log, nil
}

// ProvideSiteDescriptor provides the site.yaml descriptor (or built-in
// defaults when none is configured).
func ProvideSiteDescriptor(i do.Injector) (*config.SiteDescriptor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return config.LoadSiteDescriptor(cfg.Site.DescriptorPath)
}
