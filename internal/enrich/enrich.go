// Package enrich populates the derived fields of normalized portfolio
// items: SEO metadata, the searchable-text index string, and the
// related-items list.
package enrich

import (
	"strings"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/search"
)

// Enricher computes SEO, search, and relation fields for portfolio items.
type Enricher struct {
	site    *config.SiteDescriptor
	baseURL string
	log     *logger.Logger
}

// New creates an Enricher. baseURL must be the canonical site origin
// without a trailing slash.
func New(log *logger.Logger, site *config.SiteDescriptor, baseURL string) *Enricher {
	return &Enricher{
		site:    site,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Enrich returns a copy of items with SEO, SearchIndex, and RelatedItems
// populated. The input slice is not modified; after enrichment items are
// treated as immutable until the next full refresh.
func (e *Enricher) Enrich(items []domain.PortfolioItem) []domain.PortfolioItem {
	out := make([]domain.PortfolioItem, len(items))
	copy(out, items)

	for i := range out {
		item := &out[i]
		item.SEO = e.buildSEO(item)
		item.SearchIndex = search.SearchableText(
			item.Title,
			item.Description,
			item.Content,
			strings.Join(item.Tags, " "),
			strings.Join(item.Technologies, " "),
			string(item.Category),
		)
	}

	// Related items need the whole enriched batch.
	for i := range out {
		out[i].RelatedItems = relatedItems(&out[i], out)
	}

	return out
}

// uniqueStrings merges string lists preserving first-seen order.
func uniqueStrings(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
