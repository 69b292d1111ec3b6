package providers

import (
	"github.com/samber/do/v2"

	"github.com/foliolab/folio-server/internal/analytics"
	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/render"
	"github.com/foliolab/folio-server/internal/seo"
	"github.com/foliolab/folio-server/internal/site"
	"github.com/foliolab/folio-server/internal/sitemap"
)

// ProvideSitemap provides the sitemap generator.
func ProvideSitemap(i do.Injector) (*sitemap.Generator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	descriptor := do.MustInvoke[*config.SiteDescriptor](i)
	return sitemap.New(descriptor, cfg.Site.BaseURL), nil
}

// ProvideSEOBuilder provides the page-metadata builder.
func ProvideSEOBuilder(i do.Injector) (*seo.Builder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	descriptor := do.MustInvoke[*config.SiteDescriptor](i)
	return seo.NewBuilder(descriptor, cfg.Site.BaseURL), nil
}

// ProvidePages provides the cross-page adapters.
func ProvidePages(i do.Injector) (*site.Pages, error) {
	return site.NewPages(
		do.MustInvoke[*portfolio.Manager](i),
		do.MustInvoke[*seo.Builder](i),
		do.MustInvoke[*config.SiteDescriptor](i),
	), nil
}

// ProvideMarkdown provides the markdown renderer.
func ProvideMarkdown(i do.Injector) (*render.Markdown, error) {
	return render.NewMarkdown(), nil
}

// AnalyticsHandle wraps the analytics store for lifecycle management.
// Store is nil when analytics is disabled.
type AnalyticsHandle struct {
	Store *analytics.Store
}

// Recorder returns the event recorder, a noop when disabled.
func (h *AnalyticsHandle) Recorder() analytics.Recorder {
	if h.Store == nil {
		return analytics.Noop{}
	}
	return h.Store
}

// Shutdown implements do.Shutdownable.
func (h *AnalyticsHandle) Shutdown() error {
	if h.Store == nil {
		return nil
	}
	return h.Store.Close()
}

// ProvideAnalytics provides the analytics store when enabled.
func ProvideAnalytics(i do.Injector) (*AnalyticsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if !cfg.Analytics.Enabled {
		return &AnalyticsHandle{}, nil
	}

	log := do.MustInvoke[*logger.Logger](i)
	s, err := analytics.Open(cfg.Analytics.DBPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("analytics enabled", "db", cfg.Analytics.DBPath)
	return &AnalyticsHandle{Store: s}, nil
}
