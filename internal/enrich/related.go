package enrich

import (
	"sort"

	"github.com/foliolab/folio-server/internal/domain"
)

const (
	// relatedThreshold excludes weak matches; scores must exceed it.
	relatedThreshold = 0.3
	// maxRelated caps the related-items list per item.
	maxRelated = 3
)

// relatedItems scores item against every other item in the batch and
// returns the IDs of the strongest matches. The computation is O(n²)
// over the batch, which is fine for a portfolio of hundreds of items;
// revisit with an inverted index before pointing this at thousands.
func relatedItems(item *domain.PortfolioItem, all []domain.PortfolioItem) []string {
	type scored struct {
		id       string
		score    float64
		priority int
	}

	var candidates []scored
	for i := range all {
		other := &all[i]
		if other.ID == item.ID {
			continue
		}
		score := similarity(item, other)
		if score > relatedThreshold {
			candidates = append(candidates, scored{other.ID, score, other.Priority})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].priority > candidates[j].priority
	})

	if len(candidates) > maxRelated {
		candidates = candidates[:maxRelated]
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.id)
	}
	return ids
}

// similarity is the pairwise score: 0.4 for a shared category, plus
// 0.4 times the technology overlap and 0.2 times the tag overlap
// (Jaccard).
func similarity(a, b *domain.PortfolioItem) float64 {
	var score float64
	if a.Category == b.Category {
		score += 0.4
	}
	score += 0.4 * jaccard(a.Technologies, b.Technologies)
	score += 0.2 * jaccard(a.Tags, b.Tags)
	return score
}

// jaccard computes |a∩b| / |a∪b|, zero when both sets are empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[s] = true
	}

	union := make(map[string]bool, len(setA)+len(setB))
	var intersection int
	for s := range setA {
		union[s] = true
	}
	for s := range setB {
		if setA[s] {
			intersection++
		}
		union[s] = true
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}
