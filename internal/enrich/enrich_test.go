package enrich

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/search"
)

func testEnricher() *Enricher {
	site := config.DefaultSiteDescriptor()
	site.Name = "Folio"
	site.Tagline = "Creative Portfolio"
	site.Keywords = []string{"portfolio"}
	return New(logger.New(logger.Config{Writer: io.Discard}), site, "https://example.com/")
}

func sampleItems() []domain.PortfolioItem {
	return []domain.PortfolioItem{
		{
			ID:           "app",
			Title:        "React Dashboard",
			Description:  "Admin dashboard",
			Category:     domain.CategoryDevelop,
			ProjectType:  domain.ProjectTypeWeb,
			Technologies: []string{"React", "TypeScript"},
			Tags:         []string{"react", "dashboard"},
			Thumbnail:    "/thumbs/app.webp",
			Priority:     80,
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "mv",
			Title:       "Spring MV",
			Description: "Music video",
			Category:    domain.CategoryVideo,
			VideoType:   domain.VideoTypeMV,
			Duration:    213,
			Thumbnail:   "/thumbs/mv.webp",
			Tags:        []string{"mv"},
			Priority:    60,
			CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "poster",
			Title:       "Poster Series",
			Description: "Print design",
			Category:    domain.CategoryDesign,
			Thumbnail:   "/thumbs/poster.webp",
			Priority:    40,
			CreatedAt:   time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestEnrichSEO(t *testing.T) {
	items := testEnricher().Enrich(sampleItems())
	require.Len(t, items, 3)

	seo := items[0].SEO
	require.NotNil(t, seo)
	assert.Equal(t, "React Dashboard - Folio | Creative Portfolio", seo.Title)
	assert.Equal(t, "https://example.com/portfolio/app", seo.Canonical)
	assert.Equal(t, "https://example.com/thumbs/app.webp", seo.OGImage)
	assert.Equal(t, seo.OGImage, seo.TwitterImage)

	// Keywords are tags ∪ technologies ∪ site keywords, deduplicated.
	assert.Contains(t, seo.Keywords, "react")
	assert.Contains(t, seo.Keywords, "TypeScript")
	assert.Contains(t, seo.Keywords, "portfolio")
}

func TestEnrichStructuredData(t *testing.T) {
	items := testEnricher().Enrich(sampleItems())

	t.Run("develop is SoftwareApplication", func(t *testing.T) {
		data := items[0].SEO.StructuredData
		require.NotNil(t, data)
		assert.Equal(t, "SoftwareApplication", data["@type"])
		assert.Equal(t, []string{"React", "TypeScript"}, data["programmingLanguage"])
	})

	t.Run("video is VideoObject with ISO duration", func(t *testing.T) {
		data := items[1].SEO.StructuredData
		require.NotNil(t, data)
		assert.Equal(t, "VideoObject", data["@type"])
		assert.Equal(t, "mv", data["genre"])
		assert.Equal(t, "PT213S", data["duration"])
	})

	t.Run("design is VisualArtwork", func(t *testing.T) {
		data := items[2].SEO.StructuredData
		require.NotNil(t, data)
		assert.Equal(t, "VisualArtwork", data["@type"])
	})
}

func TestEnrichSearchIndex(t *testing.T) {
	items := testEnricher().Enrich(sampleItems())

	idx := items[0].SearchIndex
	assert.Contains(t, idx, "react dashboard")
	assert.Contains(t, idx, "typescript")
	assert.Contains(t, idx, "develop")
	// Already normalized: re-normalizing is a no-op.
	assert.Equal(t, idx, search.SearchableText(idx))
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	in := sampleItems()
	_ = testEnricher().Enrich(in)
	assert.Nil(t, in[0].SEO)
	assert.Empty(t, in[0].SearchIndex)
}

func TestRelatedItems(t *testing.T) {
	items := []domain.PortfolioItem{
		{ID: "a", Title: "A", Description: "d", Category: domain.CategoryDevelop,
			Technologies: []string{"React"}, Tags: []string{"react"}},
		{ID: "b", Title: "B", Description: "d", Category: domain.CategoryDevelop,
			Technologies: []string{"React"}, Tags: []string{"react"}},
		{ID: "c", Title: "C", Description: "d", Category: domain.CategoryVideo,
			Tags: []string{"mv"}},
	}

	enriched := testEnricher().Enrich(items)

	// a and b share category, technologies, and tags: strongly related.
	assert.Contains(t, enriched[0].RelatedItems, "b")
	assert.Contains(t, enriched[1].RelatedItems, "a")

	// c shares nothing above the threshold.
	assert.Empty(t, enriched[2].RelatedItems)

	for _, item := range enriched {
		assert.LessOrEqual(t, len(item.RelatedItems), 3)
		assert.NotContains(t, item.RelatedItems, item.ID)
	}
}

func TestRelatedItemsCap(t *testing.T) {
	var items []domain.PortfolioItem
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		items = append(items, domain.PortfolioItem{
			ID: id, Title: id, Description: "d",
			Category: domain.CategoryDesign, Tags: []string{"print"},
		})
	}

	enriched := testEnricher().Enrich(items)
	for _, item := range enriched {
		assert.Len(t, item.RelatedItems, 3)
	}
}

func TestSimilarityScoring(t *testing.T) {
	base := domain.PortfolioItem{Category: domain.CategoryDevelop,
		Technologies: []string{"React", "Go"}, Tags: []string{"web"}}

	tests := []struct {
		name  string
		other domain.PortfolioItem
		want  float64
	}{
		{
			"same category only",
			domain.PortfolioItem{Category: domain.CategoryDevelop},
			0.4,
		},
		{
			"full overlap",
			domain.PortfolioItem{Category: domain.CategoryDevelop,
				Technologies: []string{"React", "Go"}, Tags: []string{"web"}},
			1.0,
		},
		{
			"half tech overlap different category",
			domain.PortfolioItem{Category: domain.CategoryVideo,
				Technologies: []string{"React"}},
			0.2,
		},
		{
			"nothing shared",
			domain.PortfolioItem{Category: domain.CategoryVideo},
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarity(&base, &tt.other), 0.0001)
		})
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(nil, nil))
	assert.Equal(t, 1.0, jaccard([]string{"a"}, []string{"a"}))
	assert.Equal(t, 0.0, jaccard([]string{"a"}, []string{"b"}))
	assert.InDelta(t, 1.0/3.0, jaccard([]string{"a", "b"}, []string{"b", "c"}), 0.0001)
}
