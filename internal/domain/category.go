// Package domain contains the core content entities and classification logic for the Folio portfolio server.
package domain

// Category is the primary classification of a portfolio item.
type Category string

// Known portfolio categories.
const (
	CategoryDevelop     Category = "develop"
	CategoryVideo       Category = "video"
	CategoryDesign      Category = "design"
	CategoryVideoDesign Category = "video&design"
	CategoryPlayground  Category = "playground"
)

// categoryLabels maps categories to human-readable labels for facets and navigation.
//
//nolint:gochecknoglobals // Static lookup table
var categoryLabels = map[Category]string{
	CategoryDevelop:     "Development",
	CategoryVideo:       "Video",
	CategoryDesign:      "Design",
	CategoryVideoDesign: "Video & Design",
	CategoryPlayground:  "Playground",
}

// IsKnown reports whether the category is one of the fixed known set.
// Unknown categories are retained through the pipeline (forward-compatible)
// but flagged as validation warnings.
func (c Category) IsKnown() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable label for the category.
// Unknown categories fall back to their raw value.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// KnownCategories returns the fixed known category set in display order.
func KnownCategories() []Category {
	return []Category{
		CategoryDevelop,
		CategoryVideo,
		CategoryDesign,
		CategoryVideoDesign,
		CategoryPlayground,
	}
}

// Status is the publication state of a content record.
type Status string

// Publication states.
const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusArchived  Status = "archived"
)

// GridSize is the gallery tile-size class assigned to an item.
// The five classes map to CSS grid spans on the gallery pages.
type GridSize string

// Gallery tile-size classes, smallest to largest.
const (
	GridSmall  GridSize = "small"  // 1x1 tile
	GridMedium GridSize = "medium" // 2x1 tile
	GridTall   GridSize = "tall"   // 1x2 tile
	GridWide   GridSize = "wide"   // 2x1 wide tile with cover crop
	GridLarge  GridSize = "large"  // 2x2 tile
)

// GridSizeFor derives the tile-size class from category and image count.
// The lookup is fixed so gallery layout stays stable across refreshes:
//   - video with more than 2 images gets the largest tile, otherwise tall
//   - design with more than 3 images gets the wide tile, otherwise medium
//   - video&design follows the video rule with wide as the fallback
//   - develop and anything unknown get the smallest tile
func GridSizeFor(category Category, imageCount int) GridSize {
	switch category {
	case CategoryVideo:
		if imageCount > 2 {
			return GridLarge
		}
		return GridTall
	case CategoryDesign:
		if imageCount > 3 {
			return GridWide
		}
		return GridMedium
	case CategoryVideoDesign:
		if imageCount > 2 {
			return GridLarge
		}
		return GridWide
	case CategoryDevelop:
		return GridSmall
	default:
		return GridSmall
	}
}

// ProjectType classifies develop-category items by what was built.
type ProjectType string

// Project types for develop items.
const (
	ProjectTypeWeb    ProjectType = "web"
	ProjectTypeGame   ProjectType = "game"
	ProjectTypeTool   ProjectType = "tool"
	ProjectTypePlugin ProjectType = "plugin"
)

// VideoType classifies video-category items by production style.
type VideoType string

// Video types for video items.
const (
	VideoTypeMV        VideoType = "mv"
	VideoTypeLyric     VideoType = "lyric"
	VideoTypeAnimation VideoType = "animation"
	VideoTypePromotion VideoType = "promotion"
)

// ExperimentType classifies playground experiments.
type ExperimentType string

// Experiment types.
const (
	ExperimentTypeDesign ExperimentType = "design"
	ExperimentTypeWebGL  ExperimentType = "webgl"
)
