// Package api provides the HTTP API server and handlers for the portfolio site.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foliolab/folio-server/internal/analytics"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/ratelimit"
	"github.com/foliolab/folio-server/internal/render"
	"github.com/foliolab/folio-server/internal/seo"
	"github.com/foliolab/folio-server/internal/site"
	"github.com/foliolab/folio-server/internal/sitemap"
)

// apiVersion is reported by the health endpoint and OpenAPI document.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	manager  *portfolio.Manager
	pages    *site.Pages
	meta     *seo.Builder
	sitemap  *sitemap.Generator
	markdown *render.Markdown
	recorder analytics.Recorder
	usage    *analytics.Store // nil when analytics is disabled

	router  *chi.Mux
	api     huma.API
	limiter *ratelimit.KeyedRateLimiter
	log     *logger.Logger

	started time.Time
}

// NewServer creates a new HTTP server with all routes configured. usage
// may be nil; the aggregate analytics endpoints are only registered when
// it is present.
func NewServer(manager *portfolio.Manager, pages *site.Pages, meta *seo.Builder, sm *sitemap.Generator, markdown *render.Markdown, recorder analytics.Recorder, usage *analytics.Store, limiter *ratelimit.KeyedRateLimiter, log *logger.Logger) *Server {
	s := &Server{
		manager:  manager,
		pages:    pages,
		meta:     meta,
		sitemap:  sm,
		markdown: markdown,
		recorder: recorder,
		usage:    usage,
		router:   chi.NewRouter(),
		limiter:  limiter,
		log:      log,
		started:  time.Now(),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Folio API", apiVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// A public read-only API; any origin may fetch.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.log))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Plain chi routes: responses that are not JSON envelopes.
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/sitemap.xml", s.handleSitemap)

	s.registerPortfolioRoutes()
	s.registerSearchRoutes()
	s.registerSiteRoutes()

	if s.usage != nil {
		s.registerAnalyticsRoutes()
	}
}
