package domain

import "time"

// DefaultAspectRatio is applied when the thumbnail dimensions are unknown.
const DefaultAspectRatio = "16:9"

// SEO holds the per-item metadata consumed by page <head> rendering.
type SEO struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Keywords       []string       `json:"keywords"`
	OGImage        string         `json:"og_image,omitempty"`
	TwitterImage   string         `json:"twitter_image,omitempty"`
	Canonical      string         `json:"canonical"`
	StructuredData map[string]any `json:"structured_data,omitempty"`
}

// PortfolioItem is the canonical, display-ready representation of a content
// record after normalization. The enricher populates SEO, SearchIndex, and
// RelatedItems; after that the item is immutable until the next full refresh.
type PortfolioItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"` // Canonical markdown

	// Display
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images,omitempty"`
	AspectRatio string   `json:"aspect_ratio"`
	BlurHash    string   `json:"blur_hash,omitempty"`
	GridSize    GridSize `json:"grid_size"`

	// Classification
	Category       Category       `json:"category"`
	Categories     []Category     `json:"categories,omitempty"` // Primary first
	Technologies   []string       `json:"technologies,omitempty"`
	ProjectType    ProjectType    `json:"project_type,omitempty"`
	VideoType      VideoType      `json:"video_type,omitempty"`
	ExperimentType ExperimentType `json:"experiment_type,omitempty"`
	Tags           []string       `json:"tags,omitempty"`

	Status   Status `json:"status"`
	Priority int    `json:"priority"`
	Duration int    `json:"duration,omitempty"`

	// Enrichment (populated by the enricher)
	SEO          *SEO     `json:"seo,omitempty"`
	SearchIndex  string   `json:"search_index,omitempty"`
	RelatedItems []string `json:"related_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// IsPublished reports whether the item is visible to site consumers.
func (p *PortfolioItem) IsPublished() bool {
	return p.Status == StatusPublished
}

// EffectiveDate returns the most recent of UpdatedAt and CreatedAt.
// Used for featured ordering, sitemap lastmod, and the search recency boost.
func (p *PortfolioItem) EffectiveDate() time.Time {
	if !p.UpdatedAt.IsZero() {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

// Year returns the item's creation year, or 0 when unset.
func (p *PortfolioItem) Year() int {
	if p.CreatedAt.IsZero() {
		return 0
	}
	return p.CreatedAt.Year()
}
