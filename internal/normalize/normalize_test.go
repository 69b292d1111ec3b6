package normalize

import (
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: io.Discard})
}

func TestNormalizeTwoShapes(t *testing.T) {
	records := []domain.ContentRecord{
		{
			ID:          "a",
			Category:    "video",
			Tags:        []string{"After Effects"},
			Title:       "T1",
			Description: "D1",
			Status:      domain.StatusPublished,
			Priority:    50,
			CreatedAt:   "2024-01-01",
		},
		{
			ID:          "b",
			Categories:  []string{"video", "design"},
			Tags:        []string{},
			Title:       "T2",
			Description: "D2",
			Status:      domain.StatusPublished,
			Priority:    60,
			CreatedAt:   "2024-02-01",
		},
	}

	items := New(testLogger()).Normalize(records)
	require.Len(t, items, 2)

	// Legacy record keeps its single category.
	assert.Equal(t, domain.CategoryVideo, items[0].Category)
	assert.Equal(t, []string{"After Effects"}, items[0].Technologies)

	// Enhanced record's first category becomes the primary.
	assert.Equal(t, domain.CategoryVideo, items[1].Category)
	assert.Equal(t, []domain.Category{domain.CategoryVideo, domain.CategoryDesign}, items[1].Categories)
}

func TestNormalizeSkipsRecordsWithoutID(t *testing.T) {
	records := []domain.ContentRecord{
		{ID: "", Title: "no id"},
		{ID: "  ", Title: "blank id"},
		{ID: "keep", Title: "ok", Description: "d", Category: "develop"},
	}

	items := New(testLogger()).Normalize(records)
	require.Len(t, items, 1)
	assert.Equal(t, "keep", items[0].ID)
}

func TestNormalizeThumbnailDefaulting(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.ContentRecord
		want string
	}{
		{
			name: "explicit thumbnail wins",
			rec:  domain.ContentRecord{ID: "a", Thumbnail: "/t.webp", Images: []string{"/i1.webp"}},
			want: "/t.webp",
		},
		{
			name: "first image",
			rec:  domain.ContentRecord{ID: "a", Images: []string{"/i1.webp", "/i2.webp"}},
			want: "/i1.webp",
		},
		{
			name: "processed images for enhanced",
			rec:  domain.ContentRecord{ID: "a", Categories: []string{"video"}, ProcessedImages: []string{"/p1.webp"}, OriginalImages: []string{"/o1.webp"}},
			want: "/p1.webp",
		},
		{
			name: "fallback constant",
			rec:  domain.ContentRecord{ID: "a"},
			want: DefaultThumbnail,
		},
	}

	n := New(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := n.Normalize([]domain.ContentRecord{tt.rec})
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Thumbnail)
		})
	}
}

func TestNormalizeClassification(t *testing.T) {
	n := New(testLogger())

	t.Run("develop gets project type", func(t *testing.T) {
		items := n.Normalize([]domain.ContentRecord{
			{ID: "a", Category: "develop", Tags: []string{"Unity", "game jam"}},
		})
		require.Len(t, items, 1)
		assert.Equal(t, domain.ProjectTypeGame, items[0].ProjectType)
		assert.Empty(t, items[0].VideoType)
	})

	t.Run("video gets video type", func(t *testing.T) {
		items := n.Normalize([]domain.ContentRecord{
			{ID: "a", Category: "video", Tags: []string{"lyric video"}},
		})
		require.Len(t, items, 1)
		assert.Equal(t, domain.VideoTypeLyric, items[0].VideoType)
		assert.Empty(t, items[0].ProjectType)
	})

	t.Run("playground gets experiment type", func(t *testing.T) {
		items := n.Normalize([]domain.ContentRecord{
			{ID: "a", Category: "playground", Tags: []string{"WebGL shader"}},
		})
		require.Len(t, items, 1)
		assert.Equal(t, domain.ExperimentTypeWebGL, items[0].ExperimentType)
	})
}

func TestNormalizeDates(t *testing.T) {
	n := New(testLogger())

	t.Run("rfc3339 and date-only both parse", func(t *testing.T) {
		items := n.Normalize([]domain.ContentRecord{
			{ID: "a", CreatedAt: "2024-03-05T12:00:00Z", UpdatedAt: "2024-04-01"},
		})
		require.Len(t, items, 1)
		assert.Equal(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), items[0].CreatedAt)
		assert.Equal(t, 2024, items[0].UpdatedAt.Year())
	})

	t.Run("manual date overrides", func(t *testing.T) {
		items := n.Normalize([]domain.ContentRecord{
			{ID: "a", Categories: []string{"design"}, CreatedAt: "2024-01-01", UseManualDate: true, ManualDate: "2020-06-15"},
		})
		require.Len(t, items, 1)
		assert.Equal(t, 2020, items[0].CreatedAt.Year())
	})

	t.Run("unparseable date comes back zero", func(t *testing.T) {
		items := n.Normalize([]domain.ContentRecord{
			{ID: "a", CreatedAt: "yesterday"},
		})
		require.Len(t, items, 1)
		assert.True(t, items[0].CreatedAt.IsZero())
	})
}

func TestNormalizePlaceholderFallback(t *testing.T) {
	rec := domain.ContentRecord{ID: "a", Category: "develop"}

	t.Run("default passes empties through", func(t *testing.T) {
		items := New(testLogger()).Normalize([]domain.ContentRecord{rec})
		require.Len(t, items, 1)
		assert.Empty(t, items[0].Title)
	})

	t.Run("opt-in fills placeholders", func(t *testing.T) {
		items := New(testLogger(), WithPlaceholderFallback()).Normalize([]domain.ContentRecord{rec})
		require.Len(t, items, 1)
		assert.Equal(t, placeholderTitle, items[0].Title)
		assert.Equal(t, placeholderDescription, items[0].Description)
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	records := []domain.ContentRecord{
		{ID: "a", Category: "develop", Title: "T", Description: "D", Tags: []string{"React"}, CreatedAt: "2024-01-01"},
		{ID: "b", Categories: []string{"video", "design"}, Title: "T2", Description: "D2", CreatedAt: "2024-02-01"},
	}

	n := New(testLogger())
	first := n.Normalize(records)
	second := n.Normalize(records)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("normalize not idempotent (-first +second):\n%s", diff)
	}
}

func TestHTMLDescriptionConverted(t *testing.T) {
	items := New(testLogger()).Normalize([]domain.ContentRecord{
		{ID: "a", Category: "design", Title: "T", Description: "<p>Hello <strong>world</strong></p>"},
	})
	require.Len(t, items, 1)
	assert.NotContains(t, items[0].Description, "<p>")
	assert.Contains(t, items[0].Description, "Hello")
}

func TestExtractTechnologies(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"exact", []string{"React"}, []string{"React"}},
		{"case insensitive substring", []string{"react hooks"}, []string{"React"}},
		{"multiple", []string{"TypeScript", "After Effects"}, []string{"TypeScript", "After Effects"}},
		{"no match", []string{"minimalism"}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTechnologies(tt.tags))
		})
	}
}

func TestGridSizeAssignment(t *testing.T) {
	n := New(testLogger())
	items := n.Normalize([]domain.ContentRecord{
		{ID: "a", Category: "video", Images: []string{"1", "2", "3"}},
		{ID: "b", Category: "develop"},
	})
	require.Len(t, items, 2)
	assert.Equal(t, domain.GridLarge, items[0].GridSize)
	assert.Equal(t, domain.GridSmall, items[1].GridSize)
}
