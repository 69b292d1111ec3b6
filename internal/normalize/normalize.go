// Package normalize converts heterogeneous raw content records into
// canonical portfolio items. Two historical record shapes are accepted;
// the shape is detected once per record and dispatched through explicit
// variant handlers.
package normalize

import (
	"strings"
	"time"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
)

// DefaultThumbnail is used when a record carries neither a thumbnail nor
// any images.
const DefaultThumbnail = "/images/placeholder-thumbnail.webp"

// Placeholder values substituted for missing required fields when
// placeholder fallback is enabled.
const (
	placeholderTitle       = "Untitled"
	placeholderDescription = "No description available"
)

// dateLayouts are tried in order when parsing record timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Normalizer converts raw content records into canonical items.
type Normalizer struct {
	log *logger.Logger

	// placeholderFallback keeps records with a missing title or
	// description by substituting placeholder text. The default is to
	// let the validator drop them.
	placeholderFallback bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithPlaceholderFallback keeps malformed records by filling missing
// title/description with placeholder text instead of passing them through
// for the validator to drop. Records without an ID are always dropped.
func WithPlaceholderFallback() Option {
	return func(n *Normalizer) {
		n.placeholderFallback = true
	}
}

// New creates a Normalizer.
func New(log *logger.Logger, opts ...Option) *Normalizer {
	n := &Normalizer{log: log}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts a batch of raw records into canonical items.
// Malformed records never abort the batch: records without an ID are
// skipped with a warning, and missing title/description either pass
// through for the validator to drop or get placeholder text when
// placeholder fallback is enabled.
func (n *Normalizer) Normalize(records []domain.ContentRecord) []domain.PortfolioItem {
	items := make([]domain.PortfolioItem, 0, len(records))
	for i := range records {
		rec := &records[i]

		if strings.TrimSpace(rec.ID) == "" {
			n.log.Warn("skipping record without id", "index", i, "title", rec.Title)
			continue
		}

		items = append(items, n.normalizeRecord(rec))
	}
	return items
}

// normalizeRecord converts one record. The record shape is resolved once
// and dispatched to the matching variant handler.
func (n *Normalizer) normalizeRecord(rec *domain.ContentRecord) domain.PortfolioItem {
	var item domain.PortfolioItem
	switch rec.Shape() {
	case domain.ShapeEnhanced:
		item = n.normalizeEnhanced(rec)
	default:
		item = n.normalizeLegacy(rec)
	}

	n.applyShared(&item, rec)
	return item
}

// normalizeLegacy handles the original single-category record shape.
func (n *Normalizer) normalizeLegacy(rec *domain.ContentRecord) domain.PortfolioItem {
	return domain.PortfolioItem{
		Category: domain.Category(rec.Category),
		Images:   rec.Images,
	}
}

// normalizeEnhanced handles the multi-category record shape. The first
// entry of Categories becomes the canonical primary category.
func (n *Normalizer) normalizeEnhanced(rec *domain.ContentRecord) domain.PortfolioItem {
	categories := make([]domain.Category, 0, len(rec.Categories))
	for _, c := range rec.Categories {
		categories = append(categories, domain.Category(c))
	}

	return domain.PortfolioItem{
		Category:   categories[0],
		Categories: categories,
		Images:     rec.ImageList(),
	}
}

// applyShared fills the fields common to both shapes: identity, display
// defaults, classification, and timestamps.
func (n *Normalizer) applyShared(item *domain.PortfolioItem, rec *domain.ContentRecord) {
	item.ID = rec.ID
	item.Title = strings.TrimSpace(rec.Title)
	item.Description = htmlToMarkdown(strings.TrimSpace(rec.Description))
	item.Content = htmlToMarkdown(rec.Content)
	item.Tags = rec.Tags
	item.Status = normalizeStatus(rec.Status)
	item.Priority = rec.Priority
	item.Duration = rec.Duration

	if n.placeholderFallback {
		if item.Title == "" {
			item.Title = placeholderTitle
		}
		if item.Description == "" {
			item.Description = placeholderDescription
		}
	}

	// Display defaults.
	item.Thumbnail = firstNonEmpty(rec.Thumbnail, firstOf(item.Images), DefaultThumbnail)
	item.AspectRatio = domain.DefaultAspectRatio
	item.GridSize = domain.GridSizeFor(item.Category, len(item.Images))

	// Classification.
	item.Technologies = ExtractTechnologies(item.Tags)
	switch item.Category {
	case domain.CategoryDevelop:
		item.ProjectType = ClassifyProjectType(item.Tags)
	case domain.CategoryVideo, domain.CategoryVideoDesign:
		item.VideoType = ClassifyVideoType(item.Tags)
	case domain.CategoryPlayground:
		item.ExperimentType = ClassifyExperimentType(item.Tags)
	}

	// Timestamps. A manual date override replaces the creation date.
	created := rec.CreatedAt
	if rec.UseManualDate && rec.ManualDate != "" {
		created = rec.ManualDate
	}
	item.CreatedAt = n.parseDate(rec.ID, "createdAt", created)
	if rec.UpdatedAt != "" {
		item.UpdatedAt = n.parseDate(rec.ID, "updatedAt", rec.UpdatedAt)
	}
}

// parseDate tries the known timestamp layouts. Unparseable dates log a
// warning and come back zero rather than failing the record.
func (n *Normalizer) parseDate(id, field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	n.log.Warn("unparseable date on record", "id", id, "field", field, "value", value)
	return time.Time{}
}

func normalizeStatus(s domain.Status) domain.Status {
	switch s {
	case domain.StatusPublished, domain.StatusDraft, domain.StatusArchived:
		return s
	default:
		return domain.StatusDraft
	}
}

func firstOf(list []string) string {
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
