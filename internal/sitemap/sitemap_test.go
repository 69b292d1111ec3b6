package sitemap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
)

func testGenerator() *Generator {
	site := &config.SiteDescriptor{
		Name: "Folio",
		StaticRoutes: []config.StaticRouteEntry{
			{Path: "/", ChangeFreq: "weekly", Priority: 1.0},
			{Path: "/about", ChangeFreq: "monthly", Priority: 0.5},
		},
	}
	return New(site, "https://example.com/")
}

func TestEntries(t *testing.T) {
	gen := testGenerator()

	items := []domain.PortfolioItem{
		{
			ID:        "item_a",
			CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "item_b",
			CreatedAt: time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	entries := gen.Entries(items)
	require.Len(t, entries, 4)

	// Static routes come first, with the trailing slash trimmed off the base URL.
	assert.Equal(t, "https://example.com/", entries[0].URL)
	assert.Equal(t, "weekly", entries[0].ChangeFreq)
	assert.Equal(t, 1.0, entries[0].Priority)
	assert.True(t, entries[0].LastModified.IsZero())

	assert.Equal(t, "https://example.com/about", entries[1].URL)

	// Items use their effective date: updated_at when set, created_at otherwise.
	assert.Equal(t, "https://example.com/portfolio/item_a", entries[2].URL)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), entries[2].LastModified)
	assert.Equal(t, "monthly", entries[2].ChangeFreq)
	assert.Equal(t, 0.7, entries[2].Priority)

	assert.Equal(t, time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC), entries[3].LastModified)
}

func TestEntries_NoItems(t *testing.T) {
	gen := testGenerator()

	entries := gen.Entries(nil)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://example.com/", entries[0].URL)
}

func TestXML(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.com/", ChangeFreq: "weekly", Priority: 1.0},
		{
			URL:          "https://example.com/portfolio/item_a",
			LastModified: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			ChangeFreq:   "monthly",
			Priority:     0.7,
		},
	}

	out, err := XML(entries)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>https://example.com/portfolio/item_a</loc>")
	assert.Contains(t, body, "<lastmod>2024-06-15</lastmod>")
	assert.Contains(t, body, "<changefreq>monthly</changefreq>")
	assert.Contains(t, body, "<priority>0.7</priority>")
	assert.Contains(t, body, "<priority>1.0</priority>")
}

func TestXML_OmitsEmptyFields(t *testing.T) {
	out, err := XML([]Entry{{URL: "https://example.com/bare"}})
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "<loc>https://example.com/bare</loc>")
	assert.NotContains(t, body, "<lastmod>")
	assert.NotContains(t, body, "<changefreq>")
	assert.NotContains(t, body, "<priority>")
}
