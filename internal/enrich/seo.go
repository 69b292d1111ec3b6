package enrich

import (
	"fmt"

	"github.com/foliolab/folio-server/internal/domain"
)

// buildSEO assembles the per-item metadata block consumed by page head
// rendering.
func (e *Enricher) buildSEO(item *domain.PortfolioItem) *domain.SEO {
	title := fmt.Sprintf("%s - %s | %s", item.Title, e.site.Name, e.site.Tagline)
	canonical := fmt.Sprintf("%s/portfolio/%s", e.baseURL, item.ID)
	image := e.absoluteURL(item.Thumbnail)

	return &domain.SEO{
		Title:          title,
		Description:    item.Description,
		Keywords:       uniqueStrings(item.Tags, item.Technologies, e.site.Keywords),
		OGImage:        image,
		TwitterImage:   image,
		Canonical:      canonical,
		StructuredData: e.structuredData(item, canonical, image),
	}
}

// structuredData builds the schema.org JSON-LD object for the item's
// category.
func (e *Enricher) structuredData(item *domain.PortfolioItem, canonical, image string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"name":        item.Title,
		"description": item.Description,
		"url":         canonical,
	}
	if image != "" {
		data["image"] = image
	}

	switch item.Category {
	case domain.CategoryDevelop:
		data["@type"] = "SoftwareApplication"
		data["applicationCategory"] = string(item.ProjectType)
		if len(item.Technologies) > 0 {
			data["programmingLanguage"] = item.Technologies
		}
	case domain.CategoryVideo:
		data["@type"] = "VideoObject"
		if item.VideoType != "" {
			data["genre"] = string(item.VideoType)
		}
		if item.Duration > 0 {
			data["duration"] = fmt.Sprintf("PT%dS", item.Duration)
		}
		if image != "" {
			data["thumbnailUrl"] = image
		}
	case domain.CategoryDesign, domain.CategoryVideoDesign:
		data["@type"] = "VisualArtwork"
	default:
		data["@type"] = "CreativeWork"
	}

	return data
}

// absoluteURL resolves a site-relative path against the base URL.
func (e *Enricher) absoluteURL(path string) string {
	if path == "" {
		return ""
	}
	if len(path) > 0 && path[0] == '/' {
		return e.baseURL + path
	}
	return path
}
