package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/enrich"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/media/thumbs"
	"github.com/foliolab/folio-server/internal/normalize"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/source"
	"github.com/foliolab/folio-server/internal/store"
	"github.com/foliolab/folio-server/internal/validation"
	"github.com/foliolab/folio-server/internal/watcher"
)

// StoreHandle wraps the badger record store for lifecycle management.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Store.Close()
}

// ProvideStore provides the raw content-record store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Content.StorePath, log.Logger)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: s}, nil
}

// ProvideSource picks the content source by configuration precedence:
// remote HTTP endpoint, then local JSON directory, then the record store.
func ProvideSource(i do.Injector) (source.Source, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch {
	case cfg.Content.SourceURL != "":
		log.Info("using HTTP content source", "url", cfg.Content.SourceURL)
		return source.NewHTTP(cfg.Content.SourceURL, cfg.Content.FetchTimeout, log), nil
	case cfg.Content.DirPath != "":
		log.Info("using directory content source", "dir", cfg.Content.DirPath)
		return source.NewDir(cfg.Content.DirPath, log), nil
	default:
		log.Info("using store content source", "path", cfg.Content.StorePath)
		return source.NewStore(do.MustInvoke[*StoreHandle](i).Store), nil
	}
}

// ProvidePipeline provides the normalize/validate/enrich pipeline.
func ProvidePipeline(i do.Injector) (*portfolio.Pipeline, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	site := do.MustInvoke[*config.SiteDescriptor](i)

	var normalizeOpts []normalize.Option
	if cfg.Content.FallbackPlaceholder {
		normalizeOpts = append(normalizeOpts, normalize.WithPlaceholderFallback())
	}

	var pipelineOpts []portfolio.PipelineOption
	if cfg.Content.AssetsDir != "" {
		pipelineOpts = append(pipelineOpts,
			portfolio.WithThumbnails(thumbs.NewInspector(cfg.Content.AssetsDir, log)))
	}

	return portfolio.NewPipeline(
		normalize.New(log, normalizeOpts...),
		validation.New(),
		enrich.New(log, site, cfg.Site.BaseURL),
		log,
		pipelineOpts...,
	), nil
}

// ProvideManager provides the cached portfolio manager.
func ProvideManager(i do.Injector) (*portfolio.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return portfolio.NewManager(
		do.MustInvoke[*portfolio.Pipeline](i),
		do.MustInvoke[source.Source](i),
		do.MustInvoke[*logger.Logger](i),
		portfolio.Options{
			TTL:          cfg.Cache.TTL,
			EmptyBackoff: cfg.Cache.EmptyBackoff,
		},
	), nil
}

// WatcherHandle owns the content-directory watcher goroutine.
type WatcherHandle struct {
	watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WatcherHandle) Shutdown() error {
	if h.watcher == nil {
		return nil
	}
	h.cancel()
	return h.watcher.Close()
}

// ProvideWatcher starts watching the content directory when configured.
// Changes invalidate the manager cache so the next read refreshes.
func ProvideWatcher(i do.Injector) (*WatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if !cfg.Content.Watch || cfg.Content.DirPath == "" {
		return &WatcherHandle{}, nil
	}

	log := do.MustInvoke[*logger.Logger](i)
	manager := do.MustInvoke[*portfolio.Manager](i)

	w, err := watcher.New(cfg.Content.DirPath, watcher.DefaultDebounce, manager.Invalidate, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	return &WatcherHandle{watcher: w, cancel: cancel}, nil
}
