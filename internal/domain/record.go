package domain

// ContentRecord is a raw content entry as delivered by the content source.
// Two historical shapes exist and both are accepted:
//
//   - Legacy: a single Category string and a flat Images list.
//   - Enhanced: a Categories list (multi-category), split
//     OriginalImages/ProcessedImages, and manual-date overrides.
//
// The shape is detected once at ingestion (see Shape) and dispatched through
// explicit variant handlers in the normalizer rather than probed repeatedly.
type ContentRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      Status   `json:"status"`
	Priority    int      `json:"priority"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Duration    int      `json:"duration,omitempty"` // Seconds, video items only

	// Legacy shape
	Category string   `json:"category,omitempty"`
	Images   []string `json:"images,omitempty"`

	// Enhanced shape
	Categories      []string `json:"categories,omitempty"`
	OriginalImages  []string `json:"originalImages,omitempty"`
	ProcessedImages []string `json:"processedImages,omitempty"`
	IsOtherCategory bool     `json:"isOtherCategory,omitempty"`
	UseManualDate   bool     `json:"useManualDate,omitempty"`
	ManualDate      string   `json:"manualDate,omitempty"`

	// Timestamps arrive as strings in mixed formats (RFC 3339 or date-only).
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// RecordShape discriminates the two historical content-record shapes.
type RecordShape int

const (
	// ShapeLegacy is the original single-category record shape.
	ShapeLegacy RecordShape = iota
	// ShapeEnhanced is the newer multi-category record shape.
	ShapeEnhanced
)

// String returns the string representation of a RecordShape.
func (s RecordShape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeEnhanced:
		return "enhanced"
	default:
		return "unknown"
	}
}

// Shape detects the record shape. A record is enhanced when it carries a
// Categories list; everything else is treated as legacy.
func (r *ContentRecord) Shape() RecordShape {
	if len(r.Categories) > 0 {
		return ShapeEnhanced
	}
	return ShapeLegacy
}

// ImageList returns the record's images regardless of shape, preferring
// processed images for enhanced records.
func (r *ContentRecord) ImageList() []string {
	if r.Shape() == ShapeEnhanced {
		if len(r.ProcessedImages) > 0 {
			return r.ProcessedImages
		}
		return r.OriginalImages
	}
	return r.Images
}
