package api

import (
	"encoding/json/v2"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-server/internal/analytics"
	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/enrich"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/normalize"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/ratelimit"
	"github.com/foliolab/folio-server/internal/render"
	"github.com/foliolab/folio-server/internal/seo"
	"github.com/foliolab/folio-server/internal/site"
	"github.com/foliolab/folio-server/internal/sitemap"
	"github.com/foliolab/folio-server/internal/source"
	"github.com/foliolab/folio-server/internal/validation"
)

const testBaseURL = "https://example.com"

func testRecords() []domain.ContentRecord {
	return []domain.ContentRecord{
		{ID: "dev", Title: "React Dashboard", Description: "A dashboard", Category: "develop",
			Content: "## Overview\n\nBuilt with **React**.", Tags: []string{"React"},
			Status: domain.StatusPublished, Priority: 90, CreatedAt: "2024-01-01"},
		{ID: "vid", Title: "Spring MV", Description: "A music video", Category: "video",
			Tags: []string{"mv"}, Status: domain.StatusPublished, Priority: 60, CreatedAt: "2024-02-01"},
		{ID: "draft", Title: "WIP", Description: "Unfinished", Category: "develop",
			Status: domain.StatusDraft, Priority: 10, CreatedAt: "2024-03-01"},
	}
}

type serverOptions struct {
	usage   *analytics.Store
	limiter *ratelimit.KeyedRateLimiter
}

func newTestServer(t *testing.T, opts serverOptions) *Server {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard})
	descriptor := config.DefaultSiteDescriptor()

	pipeline := portfolio.NewPipeline(
		normalize.New(log),
		validation.New(),
		enrich.New(log, descriptor, testBaseURL),
		log,
	)
	manager := portfolio.NewManager(pipeline, source.Static(testRecords()), log, portfolio.Options{})

	metaBuilder := seo.NewBuilder(descriptor, testBaseURL)
	pages := site.NewPages(manager, metaBuilder, descriptor)

	var recorder analytics.Recorder = analytics.Noop{}
	if opts.usage != nil {
		recorder = opts.usage
	}

	return NewServer(
		manager,
		pages,
		metaBuilder,
		sitemap.New(descriptor, testBaseURL),
		render.NewMarkdown(),
		recorder,
		opts.usage,
		opts.limiter,
		log,
	)
}

// get performs a request and decodes the response envelope.
func get(t *testing.T, s *Server, path string) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

// dataAs re-marshals the envelope data into a typed value.
func dataAs[T any](t *testing.T, env envelope) T {
	t.Helper()

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestListPortfolio(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/portfolio")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, envelopeVersion, env.V)

	body := dataAs[PortfolioListResponse](t, env)
	require.Equal(t, 2, body.Total)
	assert.Nil(t, body.Meta, "unfiltered listing carries no category metadata")

	ids := []string{body.Items[0].ID, body.Items[1].ID}
	assert.NotContains(t, ids, "draft")
}

func TestListPortfolio_CategoryFilter(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/portfolio?category=video")
	require.Equal(t, http.StatusOK, code)

	body := dataAs[PortfolioListResponse](t, env)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "vid", body.Items[0].ID)

	require.NotNil(t, body.Meta)
	assert.NotEmpty(t, body.Meta.Title)
	assert.Contains(t, body.Meta.Canonical, "category=video")
}

func TestGetPortfolioItem(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/portfolio/dev")
	require.Equal(t, http.StatusOK, code)

	body := dataAs[ItemResponse](t, env)
	assert.Equal(t, "dev", body.Item.ID)
	assert.Contains(t, body.ContentHTML, "<strong>React</strong>")

	require.NotNil(t, body.Meta)
	assert.NotEmpty(t, body.Meta.Title)
	assert.Contains(t, body.Meta.Canonical, "/portfolio/dev")
	assert.Contains(t, body.JSONLD, `"@type":"SoftwareApplication"`)
}

func TestGetPortfolioItem_NotFound(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/portfolio/missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.NotEmpty(t, env.Error)
}

func TestGetPortfolioItem_DraftHidden(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, _ := get(t, s, "/api/v1/portfolio/draft")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/search?q=React")
	require.Equal(t, http.StatusOK, code)

	var body struct {
		Query string `json:"query"`
		Total int    `json:"total"`
		Hits  []struct {
			Entry struct {
				ID string `json:"id"`
			} `json:"entry"`
			Score float64 `json:"score"`
		} `json:"hits"`
	}
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))

	require.Equal(t, 1, body.Total)
	assert.Equal(t, "dev", body.Hits[0].Entry.ID)
	assert.Greater(t, body.Hits[0].Score, 0.0)
}

func TestSearchFilters(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/search/filters")
	require.Equal(t, http.StatusOK, code)

	body := dataAs[FiltersResponse](t, env)
	assert.NotEmpty(t, body.Filters)
}

func TestFeatured(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/featured?limit=1")
	require.Equal(t, http.StatusOK, code)

	body := dataAs[PortfolioListResponse](t, env)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "dev", body.Items[0].ID)
}

func TestHomeAndAbout(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	code, env := get(t, s, "/api/v1/home")
	require.Equal(t, http.StatusOK, code)
	home := dataAs[site.HomePage](t, env)
	assert.Len(t, home.Highlights, 2)
	assert.Equal(t, 2, home.Stats.Published)

	code, env = get(t, s, "/api/v1/about")
	require.Equal(t, http.StatusOK, code)
	about := dataAs[site.AboutPage](t, env)
	assert.NotEmpty(t, about.Skills)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSitemap(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<urlset")
	assert.Contains(t, rec.Body.String(), testBaseURL+"/portfolio/dev")
	assert.NotContains(t, rec.Body.String(), "/portfolio/draft")
}

func TestAnalyticsSummary(t *testing.T) {
	log := logger.New(logger.Config{Writer: io.Discard})
	usage, err := analytics.Open(filepath.Join(t.TempDir(), "analytics.db"), log)
	require.NoError(t, err)
	defer usage.Close()

	s := newTestServer(t, serverOptions{usage: usage})

	// Item views and searches feed the summary.
	get(t, s, "/api/v1/portfolio/dev")
	get(t, s, "/api/v1/portfolio/dev")
	get(t, s, "/api/v1/search?q=react")

	code, env := get(t, s, "/api/v1/analytics/summary")
	require.Equal(t, http.StatusOK, code)

	body := dataAs[AnalyticsSummaryResponse](t, env)
	require.NotEmpty(t, body.TopItems)
	assert.Equal(t, "dev", body.TopItems[0].ItemID)
	assert.Equal(t, 2, body.TopItems[0].Views)
	require.NotEmpty(t, body.TopQueries)
	assert.Equal(t, "react", body.TopQueries[0].Query)
}

func TestAnalyticsSummary_DisabledNotRouted(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(1, 2)
	defer limiter.Stop()

	s := newTestServer(t, serverOptions{limiter: limiter})

	var lastCode int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		s.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestEnvelopeTransformer(t *testing.T) {
	t.Run("success wraps data", func(t *testing.T) {
		result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "x"})
		require.NoError(t, err)

		env, ok := result.(envelope)
		require.True(t, ok)
		assert.Equal(t, envelopeVersion, env.V)
		assert.True(t, env.Success)
		assert.NotNil(t, env.Data)
	})

	t.Run("error carries code and message", func(t *testing.T) {
		result, err := EnvelopeTransformer(nil, "404", &APIError{
			Code:    "NOT_FOUND",
			Message: "nope",
		})
		require.NoError(t, err)

		env, ok := result.(envelope)
		require.True(t, ok)
		assert.False(t, env.Success)
		assert.Equal(t, "NOT_FOUND", env.Code)
		assert.Equal(t, "nope", env.Error)
		assert.Nil(t, env.Data)
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		expect string
	}{
		{
			name:   "x-forwarded-for first hop",
			setup:  func(r *http.Request) { r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1") },
			expect: "198.51.100.1",
		},
		{
			name:   "x-real-ip",
			setup:  func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.2") },
			expect: "198.51.100.2",
		},
		{
			name:   "remote addr fallback",
			setup:  func(r *http.Request) { r.RemoteAddr = "198.51.100.3:4321" },
			expect: "198.51.100.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			assert.Equal(t, tt.expect, getClientIP(req))
		})
	}
}
