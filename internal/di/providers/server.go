package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/foliolab/folio-server/internal/api"
	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/ratelimit"
	"github.com/foliolab/folio-server/internal/render"
	"github.com/foliolab/folio-server/internal/seo"
	"github.com/foliolab/folio-server/internal/site"
	"github.com/foliolab/folio-server/internal/sitemap"
)

// RateLimiterHandle wraps the keyed rate limiter so its cleanup goroutine
// stops on shutdown.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client request limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	analyticsHandle := do.MustInvoke[*AnalyticsHandle](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(
		do.MustInvoke[*portfolio.Manager](i),
		do.MustInvoke[*site.Pages](i),
		do.MustInvoke[*seo.Builder](i),
		do.MustInvoke[*sitemap.Generator](i),
		do.MustInvoke[*render.Markdown](i),
		analyticsHandle.Recorder(),
		analyticsHandle.Store,
		limiter.KeyedRateLimiter,
		log,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background.
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
