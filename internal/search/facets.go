package search

import (
	"fmt"
	"sort"

	"github.com/foliolab/folio-server/internal/domain"
)

// FacetType names a filter dimension.
type FacetType string

// Facet dimensions offered to the search UI.
const (
	FacetCategory   FacetType = "category"
	FacetTechnology FacetType = "technology"
	FacetYear       FacetType = "year"
	FacetTag        FacetType = "tag"
)

// Caps on the noisier facets, keeping only the most common values.
const (
	maxTechnologyOptions = 20
	maxTagOptions        = 15
)

// FacetOption is one selectable value with its item count.
type FacetOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Filter is a facet with its options. Facets with no options are
// omitted from the filter list entirely.
type Filter struct {
	Type    FacetType     `json:"type"`
	Options []FacetOption `json:"options"`
}

// GenerateFilters derives the facet filters from an index. Option
// counts always equal the number of index entries carrying that value.
func GenerateFilters(index []IndexEntry) []Filter {
	var filters []Filter

	if options := categoryOptions(index); len(options) > 0 {
		filters = append(filters, Filter{Type: FacetCategory, Options: options})
	}
	if options := countedOptions(index, entryTechnologies, maxTechnologyOptions); len(options) > 0 {
		filters = append(filters, Filter{Type: FacetTechnology, Options: options})
	}
	if options := yearOptions(index); len(options) > 0 {
		filters = append(filters, Filter{Type: FacetYear, Options: options})
	}
	if options := countedOptions(index, entryTags, maxTagOptions); len(options) > 0 {
		filters = append(filters, Filter{Type: FacetTag, Options: options})
	}

	return filters
}

func entryTechnologies(e *IndexEntry) []string { return e.Technology }
func entryTags(e *IndexEntry) []string         { return e.Tags }

// categoryOptions lists every distinct category with its count, using
// the human-readable label where the category is known.
func categoryOptions(index []IndexEntry) []FacetOption {
	counts := make(map[domain.Category]int)
	for i := range index {
		counts[index[i].Category]++
	}

	options := make([]FacetOption, 0, len(counts))
	for category, count := range counts {
		options = append(options, FacetOption{
			Value: string(category),
			Label: category.Label(),
			Count: count,
		})
	}
	sortOptions(options)
	return options
}

// countedOptions builds a count-capped facet over a multi-valued field.
// Each entry counts once per distinct value it carries.
func countedOptions(index []IndexEntry, values func(*IndexEntry) []string, limit int) []FacetOption {
	counts := make(map[string]int)
	for i := range index {
		seen := make(map[string]bool)
		for _, v := range values(&index[i]) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			counts[v]++
		}
	}

	options := make([]FacetOption, 0, len(counts))
	for value, count := range counts {
		options = append(options, FacetOption{Value: value, Label: value, Count: count})
	}
	sortOptions(options)

	if len(options) > limit {
		options = options[:limit]
	}
	return options
}

// yearOptions lists every creation year with its count, newest first.
func yearOptions(index []IndexEntry) []FacetOption {
	counts := make(map[int]int)
	for i := range index {
		if index[i].Year != 0 {
			counts[index[i].Year]++
		}
	}

	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	options := make([]FacetOption, 0, len(years))
	for _, year := range years {
		options = append(options, FacetOption{
			Value: fmt.Sprintf("%d", year),
			Label: fmt.Sprintf("%d年", year),
			Count: counts[year],
		})
	}
	return options
}

// sortOptions orders by count descending, then value ascending for a
// stable facet layout.
func sortOptions(options []FacetOption) {
	sort.Slice(options, func(i, j int) bool {
		if options[i].Count != options[j].Count {
			return options[i].Count > options[j].Count
		}
		return options[i].Value < options[j].Value
	})
}

// Stats summarizes the index for the search landing view.
type Stats struct {
	Total        int            `json:"total"`
	Categories   map[string]int `json:"categories"`
	Technologies map[string]int `json:"technologies"`
	Years        map[int]int    `json:"years"`
}

// GenerateStats computes item distributions over the index.
func GenerateStats(index []IndexEntry) Stats {
	stats := Stats{
		Total:        len(index),
		Categories:   make(map[string]int),
		Technologies: make(map[string]int),
		Years:        make(map[int]int),
	}

	for i := range index {
		e := &index[i]
		stats.Categories[string(e.Category)]++
		for _, tech := range e.Technology {
			stats.Technologies[tech]++
		}
		if e.Year != 0 {
			stats.Years[e.Year]++
		}
	}

	return stats
}
