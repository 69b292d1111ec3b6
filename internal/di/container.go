// Package di provides dependency injection configuration for the folio server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/di/providers"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/render"
	"github.com/foliolab/folio-server/internal/seo"
	"github.com/foliolab/folio-server/internal/site"
	"github.com/foliolab/folio-server/internal/sitemap"
	"github.com/foliolab/folio-server/internal/source"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSiteDescriptor)

	// Content layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSource)
	do.Provide(injector, providers.ProvidePipeline)
	do.Provide(injector, providers.ProvideManager)
	do.Provide(injector, providers.ProvideWatcher)

	// Site glue
	do.Provide(injector, providers.ProvideSitemap)
	do.Provide(injector, providers.ProvideSEOBuilder)
	do.Provide(injector, providers.ProvidePages)
	do.Provide(injector, providers.ProvideMarkdown)
	do.Provide(injector, providers.ProvideAnalytics)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// running. Invoking each service triggers its lazy construction.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*config.SiteDescriptor](injector)

	// Content layer
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[source.Source](injector)
	_ = do.MustInvoke[*portfolio.Pipeline](injector)
	_ = do.MustInvoke[*portfolio.Manager](injector)
	_ = do.MustInvoke[*providers.WatcherHandle](injector)

	// Site glue
	_ = do.MustInvoke[*sitemap.Generator](injector)
	_ = do.MustInvoke[*seo.Builder](injector)
	_ = do.MustInvoke[*site.Pages](injector)
	_ = do.MustInvoke[*render.Markdown](injector)
	_ = do.MustInvoke[*providers.AnalyticsHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
