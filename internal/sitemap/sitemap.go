// Package sitemap generates sitemap entries for the site: one entry per
// published portfolio item plus the static routes declared in the site
// descriptor.
package sitemap

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/foliolab/folio-server/internal/config"
	"github.com/foliolab/folio-server/internal/domain"
)

const (
	xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

	itemChangeFreq = "monthly"
	itemPriority   = 0.7
)

// Entry is a single sitemap URL record.
type Entry struct {
	URL          string
	LastModified time.Time
	ChangeFreq   string
	Priority     float64
}

// Generator builds sitemap entries from the site descriptor and published items.
type Generator struct {
	site    *config.SiteDescriptor
	baseURL string
}

// New creates a Generator. baseURL must not have a trailing slash.
func New(site *config.SiteDescriptor, baseURL string) *Generator {
	return &Generator{
		site:    site,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Entries returns static routes first, then one entry per item in input
// order. Static routes carry no lastmod; item entries use the item's
// effective date.
func (g *Generator) Entries(items []domain.PortfolioItem) []Entry {
	entries := make([]Entry, 0, len(g.site.StaticRoutes)+len(items))

	for _, route := range g.site.StaticRoutes {
		entries = append(entries, Entry{
			URL:        g.baseURL + route.Path,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	for i := range items {
		item := &items[i]
		entries = append(entries, Entry{
			URL:          g.baseURL + "/portfolio/" + item.ID,
			LastModified: item.EffectiveDate(),
			ChangeFreq:   itemChangeFreq,
			Priority:     itemPriority,
		})
	}

	return entries
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// XML renders the entries as a sitemap protocol document, including the
// XML declaration.
func XML(entries []Entry) ([]byte, error) {
	set := urlSet{Xmlns: xmlns, URLs: make([]urlEntry, 0, len(entries))}

	for _, e := range entries {
		u := urlEntry{
			Loc:        e.URL,
			ChangeFreq: e.ChangeFreq,
			Priority:   formatPriority(e.Priority),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}

// formatPriority renders a sitemap priority with one decimal place.
// Zero priorities are omitted entirely.
func formatPriority(p float64) string {
	if p <= 0 {
		return ""
	}
	if p > 1 {
		p = 1
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}
