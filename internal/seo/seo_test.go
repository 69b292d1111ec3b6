package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
)

func testBuilder() *Builder {
	site := &config.SiteDescriptor{
		Name:             "Folio",
		Tagline:          "Portfolio",
		Description:      "Selected works across development, video, and design.",
		Author:           "Jane Doe",
		Keywords:         []string{"portfolio", "creative"},
		DefaultThumbnail: "/images/og-default.webp",
		TwitterHandle:    "@folio",
		Categories: []config.CategoryMeta{
			{ID: "develop", Title: "Development", Description: "Software and web projects."},
		},
	}
	return NewBuilder(site, "https://example.com")
}

func TestHome(t *testing.T) {
	meta := testBuilder().Home()

	assert.Equal(t, "Folio - Portfolio", meta.Title)
	assert.Equal(t, "Selected works across development, video, and design.", meta.Description)
	assert.Equal(t, "https://example.com/", meta.Canonical)
	assert.Equal(t, "https://example.com/images/og-default.webp", meta.OGImage)
	assert.Equal(t, meta.OGImage, meta.TwitterImage)
	assert.Equal(t, "@folio", meta.TwitterHandle)
	assert.Equal(t, []string{"portfolio", "creative"}, meta.Keywords)
}

func TestCategory(t *testing.T) {
	b := testBuilder()

	t.Run("declared template", func(t *testing.T) {
		meta := b.Category(domain.CategoryDevelop)

		assert.Equal(t, "Development | Folio", meta.Title)
		assert.Equal(t, "Software and web projects.", meta.Description)
		assert.Equal(t, "https://example.com/portfolio?category=develop", meta.Canonical)
	})

	t.Run("fallback from category label", func(t *testing.T) {
		meta := b.Category(domain.CategoryVideo)

		assert.Contains(t, meta.Title, "| Folio")
		assert.Contains(t, meta.Description, "Jane Doe")
		assert.Equal(t, "https://example.com/portfolio?category=video", meta.Canonical)
	})
}

func TestItem(t *testing.T) {
	b := testBuilder()

	item := &domain.PortfolioItem{
		ID: "item_a",
		SEO: &domain.SEO{
			Title:        "Dashboard - Development | Folio",
			Description:  "A **React** dashboard.",
			Keywords:     []string{"react"},
			Canonical:    "https://example.com/portfolio/item_a",
			OGImage:      "https://example.com/images/a.webp",
			TwitterImage: "https://example.com/images/a.webp",
		},
	}

	meta, err := b.Item(item)
	require.NoError(t, err)

	assert.Equal(t, item.SEO.Title, meta.Title)
	assert.Equal(t, "A React dashboard.", meta.Description)
	assert.Equal(t, item.SEO.Canonical, meta.Canonical)
	assert.Equal(t, "@folio", meta.TwitterHandle)
}

func TestItem_NotEnriched(t *testing.T) {
	_, err := testBuilder().Item(&domain.PortfolioItem{ID: "item_a"})
	assert.Error(t, err)
}

func TestJSONLD(t *testing.T) {
	item := &domain.PortfolioItem{
		ID: "item_a",
		SEO: &domain.SEO{
			StructuredData: map[string]any{
				"@context": "https://schema.org",
				"@type":    "SoftwareApplication",
				"name":     "Dashboard",
			},
		},
	}

	body, err := JSONLD(item)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"@type":"SoftwareApplication"`)
	assert.Contains(t, string(body), `"name":"Dashboard"`)
}

func TestJSONLD_NoStructuredData(t *testing.T) {
	_, err := JSONLD(&domain.PortfolioItem{ID: "item_a"})
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "plain text", "plain text"},
		{"html stripped", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"markdown emphasis", "A **bold** and `coded` thing", "A bold and coded thing"},
		{"markdown link", "see [the docs](https://example.com)", "see the docs"},
		{"whitespace collapsed", "a\n\n  b\tc", "a b c"},
		{"script dropped", "<p>ok</p><script>alert(1)</script>", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestMetaDescription_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := MetaDescription(long)

	assert.LessOrEqual(t, len([]rune(got)), 160)
	assert.True(t, strings.HasSuffix(got, "..."))
}
