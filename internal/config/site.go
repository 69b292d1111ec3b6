package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteDescriptor describes site identity loaded from site.yaml.
// All SEO and sitemap output derives from this descriptor plus the
// portfolio content itself.
type SiteDescriptor struct {
	Name             string             `yaml:"name"`
	Tagline          string             `yaml:"tagline"`
	Description      string             `yaml:"description"`
	Author           string             `yaml:"author"`
	Keywords         []string           `yaml:"keywords"`
	DefaultThumbnail string             `yaml:"default_thumbnail"`
	TwitterHandle    string             `yaml:"twitter_handle"`
	Categories       []CategoryMeta     `yaml:"categories"`
	StaticRoutes     []StaticRouteEntry `yaml:"static_routes"`
}

// CategoryMeta carries per-category page metadata templates.
type CategoryMeta struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// StaticRouteEntry is a fixed sitemap entry alongside the generated
// portfolio item URLs.
type StaticRouteEntry struct {
	Path       string  `yaml:"path"`
	ChangeFreq string  `yaml:"changefreq"`
	Priority   float64 `yaml:"priority"`
}

// DefaultSiteDescriptor returns the built-in descriptor used when no
// site.yaml is configured.
func DefaultSiteDescriptor() *SiteDescriptor {
	return &SiteDescriptor{
		Name:        "Folio",
		Tagline:     "Portfolio",
		Description: "A personal portfolio of development, video, and design work",
		Keywords:    []string{"portfolio", "development", "video", "design"},
		StaticRoutes: []StaticRouteEntry{
			{Path: "/", ChangeFreq: "weekly", Priority: 1.0},
			{Path: "/portfolio", ChangeFreq: "weekly", Priority: 0.9},
			{Path: "/about", ChangeFreq: "monthly", Priority: 0.5},
		},
	}
}

// LoadSiteDescriptor reads and parses a site.yaml descriptor.
// An empty path returns the built-in defaults.
func LoadSiteDescriptor(path string) (*SiteDescriptor, error) {
	if path == "" {
		return DefaultSiteDescriptor(), nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- Descriptor path from user config is expected
	if err != nil {
		return nil, fmt.Errorf("read site descriptor: %w", err)
	}

	desc := DefaultSiteDescriptor()
	if err := yaml.Unmarshal(data, desc); err != nil {
		return nil, fmt.Errorf("parse site descriptor: %w", err)
	}

	if desc.Name == "" {
		return nil, fmt.Errorf("site descriptor %s: name is required", path)
	}

	return desc, nil
}

// CategoryMetaFor returns the descriptor's metadata for a category ID,
// or false if none is declared.
func (d *SiteDescriptor) CategoryMetaFor(id string) (CategoryMeta, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryMeta{}, false
}
