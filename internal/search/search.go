package search

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Term-match weights. A term can score at most one of the exact and
// substring weights per field.
const (
	weightTitle         = 3.0
	weightTechExact     = 2.5
	weightTagExact      = 2.0
	weightCategory      = 1.5
	weightDescription   = 1.0
	weightTechSubstring = 0.8
	weightTagSubstring  = 0.6
	weightContent       = 0.4
	weightSearchable    = 0.2
)

const (
	// recencyWindow is how long an update keeps earning the boost.
	recencyWindow = 30 * 24 * time.Hour
	// recencyBoost multiplies the score of recently updated items.
	recencyBoost = 1.1
	// scoreEpsilon is the tie window within which priority decides order.
	scoreEpsilon = 0.01
)

// Params selects and bounds a search.
type Params struct {
	Query      string
	Category   string // "" or "all" matches every category
	Technology string
	Year       int
	Limit      int // 0 means unlimited
	// IncludeContent extends matching into the long-form content field.
	IncludeContent bool
}

// Hit is one scored search result.
type Hit struct {
	Entry      IndexEntry `json:"entry"`
	Score      float64    `json:"score"`
	Highlights []string   `json:"highlights,omitempty"`
}

// Result is a completed search.
type Result struct {
	Query string `json:"query"`
	Total int    `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Searcher scores queries against an index. The clock is injectable so
// the recency boost is testable.
type Searcher struct {
	now func() time.Time
}

// NewSearcher creates a Searcher using the wall clock.
func NewSearcher() *Searcher {
	return &Searcher{now: time.Now}
}

// Search runs a weighted substring search over the index.
//
// An empty query returns all filtered entries ordered by priority
// descending (stable for ties). A non-empty query is split on whitespace;
// each term contributes weighted field matches, the sum is scaled by
// (1 + priority/100) and by the recency boost, and zero-score entries are
// dropped. Near-equal scores order by priority descending.
func (s *Searcher) Search(index []IndexEntry, p Params) Result {
	filtered := filterEntries(index, p)

	query := strings.TrimSpace(p.Query)
	if query == "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Priority > filtered[j].Priority
		})
		hits := make([]Hit, 0, len(filtered))
		for _, e := range filtered {
			hits = append(hits, Hit{Entry: e})
		}
		return Result{Query: query, Total: len(hits), Hits: truncate(hits, p.Limit)}
	}

	terms := strings.Fields(strings.ToLower(query))
	now := s.now()

	var hits []Hit
	for _, e := range filtered {
		score, highlights := s.scoreEntry(&e, terms, p.IncludeContent, now)
		if score == 0 {
			continue
		}
		hits = append(hits, Hit{Entry: e, Score: score, Highlights: highlights})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if math.Abs(hits[i].Score-hits[j].Score) < scoreEpsilon {
			return hits[i].Entry.Priority > hits[j].Entry.Priority
		}
		return hits[i].Score > hits[j].Score
	})

	return Result{Query: query, Total: len(hits), Hits: truncate(hits, p.Limit)}
}

// scoreEntry sums weighted term matches for one entry.
func (s *Searcher) scoreEntry(e *IndexEntry, terms []string, includeContent bool, now time.Time) (float64, []string) {
	title := strings.ToLower(e.Title)
	description := strings.ToLower(e.Description)
	category := strings.ToLower(string(e.Category))
	content := strings.ToLower(e.Content)

	var score float64
	var highlights []string
	for _, term := range terms {
		var termScore float64

		if strings.Contains(title, term) {
			termScore += weightTitle
		}
		termScore += matchList(e.Technology, term, weightTechExact, weightTechSubstring)
		termScore += matchList(e.Tags, term, weightTagExact, weightTagSubstring)
		if strings.Contains(category, term) {
			termScore += weightCategory
		}
		if strings.Contains(description, term) {
			termScore += weightDescription
		}
		if includeContent && strings.Contains(content, term) {
			termScore += weightContent
		}
		if strings.Contains(e.Searchable, term) {
			termScore += weightSearchable
		}

		if termScore > 0 {
			highlights = append(highlights, highlightTerm(e, term)...)
		}
		score += termScore
	}

	if score == 0 {
		return 0, nil
	}

	score *= 1 + float64(e.Priority)/100
	if !e.effectiveDate().IsZero() && now.Sub(e.effectiveDate()) <= recencyWindow {
		score *= recencyBoost
	}

	return score, highlights
}

// matchList scores a term against a list of values: the exact weight for
// a case-insensitive equality, otherwise the substring weight for the
// first containing value.
func matchList(values []string, term string, exact, substring float64) float64 {
	var hasSubstring bool
	for _, v := range values {
		lower := strings.ToLower(v)
		if lower == term {
			return exact
		}
		if strings.Contains(lower, term) {
			hasSubstring = true
		}
	}
	if hasSubstring {
		return substring
	}
	return 0
}

// filterEntries applies the category/technology/year facet filters.
func filterEntries(index []IndexEntry, p Params) []IndexEntry {
	out := make([]IndexEntry, 0, len(index))
	for _, e := range index {
		if p.Category != "" && p.Category != "all" && string(e.Category) != p.Category {
			continue
		}
		if p.Technology != "" && !containsFold(e.Technology, p.Technology) {
			continue
		}
		if p.Year != 0 && e.Year != p.Year {
			continue
		}
		out = append(out, e)
	}
	return out
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func truncate(hits []Hit, limit int) []Hit {
	if limit > 0 && len(hits) > limit {
		return hits[:limit]
	}
	return hits
}
