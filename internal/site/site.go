// Package site adapts cached portfolio data for the cross-page surfaces:
// home-page highlights and the about-page skill summary. It consumes
// Manager reads only and holds no state of its own.
package site

import (
	"context"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/portfolio"
	"github.com/foliolab/folio-server/internal/seo"
)

// defaultHighlightCount is how many featured items the home page shows.
const defaultHighlightCount = 6

// HomePage is everything the home page needs in one read.
type HomePage struct {
	Meta       seo.PageMeta           `json:"meta"`
	Highlights []domain.PortfolioItem `json:"highlights"`
	Stats      domain.PortfolioStats  `json:"stats"`
}

// AboutPage is the about-page payload: site identity plus aggregated skills.
type AboutPage struct {
	Author string         `json:"author"`
	Skills []domain.Skill `json:"skills"`
}

// Pages builds the cross-page payloads.
type Pages struct {
	manager *portfolio.Manager
	meta    *seo.Builder
	site    *config.SiteDescriptor
}

// NewPages creates a Pages adapter.
func NewPages(manager *portfolio.Manager, meta *seo.Builder, site *config.SiteDescriptor) *Pages {
	return &Pages{manager: manager, meta: meta, site: site}
}

// Home returns the home-page payload: page metadata, the top featured
// items, and snapshot stats.
func (p *Pages) Home(ctx context.Context) HomePage {
	return HomePage{
		Meta:       p.meta.Home(),
		Highlights: p.manager.Featured(ctx, defaultHighlightCount),
		Stats:      p.manager.Stats(ctx),
	}
}

// About returns the about-page payload with skills aggregated across all
// published items.
func (p *Pages) About(ctx context.Context) AboutPage {
	return AboutPage{
		Author: p.site.Author,
		Skills: p.manager.Skills(ctx),
	}
}
