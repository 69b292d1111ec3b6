package search

import (
	"strings"
	"time"

	"github.com/foliolab/folio-server/internal/domain"
)

// IndexEntry is the denormalized search record for one portfolio item.
// It carries everything scoring and faceting need so the search layer is
// self-sufficient given only the index.
type IndexEntry struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Content     string             `json:"content,omitempty"`
	Category    domain.Category    `json:"category"`
	Technology  []string           `json:"technologies,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	ProjectType domain.ProjectType `json:"project_type,omitempty"`
	VideoType   domain.VideoType   `json:"video_type,omitempty"`
	GridSize    domain.GridSize    `json:"grid_size"`
	Thumbnail   string             `json:"thumbnail"`
	Priority    int                `json:"priority"`
	Year        int                `json:"year,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at,omitzero"`

	// Searchable is the flattened lowercase text blob used for the
	// generic substring match. Rebuilt here rather than reusing the
	// enricher's copy so an index can be built from bare items.
	Searchable string `json:"searchable"`
}

// effectiveDate is the most recent of UpdatedAt and CreatedAt.
func (e *IndexEntry) effectiveDate() time.Time {
	if !e.UpdatedAt.IsZero() {
		return e.UpdatedAt
	}
	return e.CreatedAt
}

// BuildIndex creates one index entry per item.
func BuildIndex(items []domain.PortfolioItem) []IndexEntry {
	index := make([]IndexEntry, 0, len(items))
	for i := range items {
		item := &items[i]
		index = append(index, IndexEntry{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			Category:    item.Category,
			Technology:  item.Technologies,
			Tags:        item.Tags,
			ProjectType: item.ProjectType,
			VideoType:   item.VideoType,
			GridSize:    item.GridSize,
			Thumbnail:   item.Thumbnail,
			Priority:    item.Priority,
			Year:        item.Year(),
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
			Searchable: SearchableText(
				item.Title,
				item.Description,
				item.Content,
				strings.Join(item.Tags, " "),
				strings.Join(item.Technologies, " "),
				string(item.Category),
			),
		})
	}
	return index
}
