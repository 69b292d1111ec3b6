// Package seo formats page-level metadata for the site's rendered surfaces.
// It is a pure formatting layer over portfolio items and the site descriptor;
// the per-item SEO struct itself is populated by the enricher.
package seo

import (
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
	domainerrors "github.com/foliolab/folio-server/internal/errors"
)

// maxDescriptionRunes caps meta descriptions at the length search engines
// actually display.
const maxDescriptionRunes = 160

// PageMeta is the head metadata for a single rendered page.
type PageMeta struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords,omitempty"`
	Canonical     string   `json:"canonical"`
	OGImage       string   `json:"og_image,omitempty"`
	TwitterImage  string   `json:"twitter_image,omitempty"`
	TwitterHandle string   `json:"twitter_handle,omitempty"`
}

// Builder produces page metadata from the site descriptor.
type Builder struct {
	site    *config.SiteDescriptor
	baseURL string
}

// NewBuilder creates a Builder. baseURL must not have a trailing slash.
func NewBuilder(site *config.SiteDescriptor, baseURL string) *Builder {
	return &Builder{
		site:    site,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Home returns the home-page metadata.
func (b *Builder) Home() PageMeta {
	return PageMeta{
		Title:         fmt.Sprintf("%s - %s", b.site.Name, b.site.Tagline),
		Description:   MetaDescription(b.site.Description),
		Keywords:      b.site.Keywords,
		Canonical:     b.baseURL + "/",
		OGImage:       b.absoluteURL(b.site.DefaultThumbnail),
		TwitterImage:  b.absoluteURL(b.site.DefaultThumbnail),
		TwitterHandle: b.site.TwitterHandle,
	}
}

// Category returns metadata for a category listing page. When the site
// descriptor declares no template for the category, a generic one is built
// from the category label.
func (b *Builder) Category(cat domain.Category) PageMeta {
	meta := PageMeta{
		Keywords:      b.site.Keywords,
		Canonical:     fmt.Sprintf("%s/portfolio?category=%s", b.baseURL, cat),
		OGImage:       b.absoluteURL(b.site.DefaultThumbnail),
		TwitterImage:  b.absoluteURL(b.site.DefaultThumbnail),
		TwitterHandle: b.site.TwitterHandle,
	}

	if tmpl, ok := b.site.CategoryMetaFor(string(cat)); ok {
		meta.Title = fmt.Sprintf("%s | %s", tmpl.Title, b.site.Name)
		meta.Description = MetaDescription(tmpl.Description)
		return meta
	}

	meta.Title = fmt.Sprintf("%s | %s", cat.Label(), b.site.Name)
	meta.Description = MetaDescription(fmt.Sprintf("%s works by %s.", cat.Label(), b.site.Author))
	return meta
}

// Item returns metadata for an item detail page, derived from the item's
// enriched SEO struct.
func (b *Builder) Item(item *domain.PortfolioItem) (PageMeta, error) {
	if item.SEO == nil {
		return PageMeta{}, domainerrors.Internalf("item %q has no enriched seo metadata", item.ID)
	}

	return PageMeta{
		Title:         item.SEO.Title,
		Description:   MetaDescription(item.SEO.Description),
		Keywords:      item.SEO.Keywords,
		Canonical:     item.SEO.Canonical,
		OGImage:       item.SEO.OGImage,
		TwitterImage:  item.SEO.TwitterImage,
		TwitterHandle: b.site.TwitterHandle,
	}, nil
}

// JSONLD renders an item's structured data as a JSON-LD document body.
func JSONLD(item *domain.PortfolioItem) ([]byte, error) {
	if item.SEO == nil || item.SEO.StructuredData == nil {
		return nil, domainerrors.NotFoundf("item %q has no structured data", item.ID)
	}

	body, err := json.Marshal(item.SEO.StructuredData, json.Deterministic(true))
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "marshal structured data for %q", item.ID)
	}
	return body, nil
}

// MetaDescription reduces text to a plain, single-line meta description:
// markdown emphasis and HTML tags stripped, whitespace collapsed, truncated
// on a rune boundary.
func MetaDescription(text string) string {
	plain := PlainText(text)
	runes := []rune(plain)
	if len(runes) <= maxDescriptionRunes {
		return plain
	}
	return strings.TrimSpace(string(runes[:maxDescriptionRunes-3])) + "..."
}

func (b *Builder) absoluteURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") {
		return b.baseURL + path
	}
	return path
}
