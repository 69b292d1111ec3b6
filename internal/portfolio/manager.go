package portfolio

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/errors"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/search"
	"github.com/foliolab/folio-server/internal/source"
	"github.com/foliolab/folio-server/internal/validation"
)

// Default cache behavior.
const (
	DefaultTTL          = time.Hour
	DefaultEmptyBackoff = 10 * time.Second
)

// snapshot is one fully-built cache generation. A refresh either
// replaces the snapshot as a whole or leaves the previous one intact;
// there is no partial update.
type snapshot struct {
	byID        map[string]*domain.PortfolioItem
	published   []domain.PortfolioItem
	index       []search.IndexEntry
	filters     []search.Filter
	searchStats search.Stats
	stats       domain.PortfolioStats
	lastUpdated time.Time
}

// Options tunes the manager's cache behavior.
type Options struct {
	// TTL is how long a snapshot stays fresh. Zero uses DefaultTTL.
	TTL time.Duration
	// EmptyBackoff is the window after an empty fetch during which
	// non-forced refreshes short-circuit. Zero uses DefaultEmptyBackoff.
	EmptyBackoff time.Duration
}

// Manager fronts the pipeline with a TTL cache and serves all site
// reads. Reads only ever see published items. A failed or empty refresh
// degrades to the previous snapshot; no read operation returns an error
// for upstream failures.
type Manager struct {
	pipeline *Pipeline
	src      source.Source
	searcher *search.Searcher
	log      *logger.Logger

	ttl          time.Duration
	emptyBackoff time.Duration
	now          func() time.Time

	// group de-duplicates concurrent refreshes: overlapping callers
	// await the same in-flight run instead of racing last-writer-wins.
	group singleflight.Group

	mu             sync.RWMutex
	snap           *snapshot
	lastEmptyFetch time.Time
	lastReport     validation.Report
}

// NewManager creates a Manager. Construct one at the composition root
// and hand it to consumers; there is no package-level singleton.
func NewManager(pipeline *Pipeline, src source.Source, log *logger.Logger, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.EmptyBackoff <= 0 {
		opts.EmptyBackoff = DefaultEmptyBackoff
	}
	return &Manager{
		pipeline:     pipeline,
		src:          src,
		searcher:     search.NewSearcher(),
		log:          log,
		ttl:          opts.TTL,
		emptyBackoff: opts.EmptyBackoff,
		now:          time.Now,
	}
}

// Items returns the published items, refreshing the cache first when it
// is stale or empty. Upstream failures degrade to the previous snapshot
// (or an empty list when none exists) rather than an error.
func (m *Manager) Items(ctx context.Context) []domain.PortfolioItem {
	m.refreshIfNeeded(ctx, false)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil
	}
	return m.snap.published
}

// Refresh forces a full refetch and pipeline run. Concurrent callers
// share a single in-flight refresh.
func (m *Manager) Refresh(ctx context.Context) {
	m.refreshIfNeeded(ctx, true)
}

// ItemByID returns one published item.
func (m *Manager) ItemByID(ctx context.Context, id string) (*domain.PortfolioItem, error) {
	m.refreshIfNeeded(ctx, false)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap != nil {
		if item, ok := m.snap.byID[id]; ok {
			return item, nil
		}
	}
	return nil, errors.NotFoundf("portfolio item %s not found", id)
}

// ItemsByCategory filters published items by primary category.
// "all" (or empty) returns everything.
func (m *Manager) ItemsByCategory(ctx context.Context, category string) []domain.PortfolioItem {
	items := m.Items(ctx)
	if category == "" || category == "all" {
		return items
	}

	out := make([]domain.PortfolioItem, 0, len(items))
	for _, item := range items {
		if string(item.Category) == category {
			out = append(out, item)
		}
	}
	return out
}

// Search runs a query against the current snapshot's index.
func (m *Manager) Search(ctx context.Context, params search.Params) search.Result {
	m.refreshIfNeeded(ctx, false)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return search.Result{Query: params.Query}
	}
	return m.searcher.Search(m.snap.index, params)
}

// Featured returns the top published items by priority, breaking ties
// with the most recent effective date.
func (m *Manager) Featured(ctx context.Context, limit int) []domain.PortfolioItem {
	items := m.Items(ctx)

	featured := make([]domain.PortfolioItem, len(items))
	copy(featured, items)
	sort.SliceStable(featured, func(i, j int) bool {
		if featured[i].Priority != featured[j].Priority {
			return featured[i].Priority > featured[j].Priority
		}
		return featured[i].EffectiveDate().After(featured[j].EffectiveDate())
	})

	if limit > 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

// Related resolves an item's precomputed related IDs against the
// current snapshot.
func (m *Manager) Related(ctx context.Context, id string, limit int) ([]domain.PortfolioItem, error) {
	item, err := m.ItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// The snapshot can be invalidated between the ItemByID read above
	// and this lock; related items are then unresolvable until the next
	// refresh.
	if m.snap == nil {
		return nil, nil
	}

	var out []domain.PortfolioItem
	for _, relID := range item.RelatedItems {
		if limit > 0 && len(out) >= limit {
			break
		}
		if related, ok := m.snap.byID[relID]; ok {
			out = append(out, *related)
		}
	}
	return out, nil
}

// Filters returns the current facet filters.
func (m *Manager) Filters(ctx context.Context) []search.Filter {
	m.refreshIfNeeded(ctx, false)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil
	}
	return m.snap.filters
}

// SearchStats returns the current index distributions.
func (m *Manager) SearchStats(ctx context.Context) search.Stats {
	m.refreshIfNeeded(ctx, false)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return search.Stats{}
	}
	return m.snap.searchStats
}

// Stats returns the snapshot summary for the home page.
func (m *Manager) Stats(ctx context.Context) domain.PortfolioStats {
	m.refreshIfNeeded(ctx, false)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return domain.PortfolioStats{ByCategory: map[domain.Category]int{}}
	}
	return m.snap.stats
}

// Skills aggregates technology usage across published items for the
// about page, ordered by count descending then name.
func (m *Manager) Skills(ctx context.Context) []domain.Skill {
	items := m.Items(ctx)

	type agg struct {
		count      int
		categories map[domain.Category]bool
	}
	byName := make(map[string]*agg)
	for i := range items {
		for _, tech := range items[i].Technologies {
			a, ok := byName[tech]
			if !ok {
				a = &agg{categories: make(map[domain.Category]bool)}
				byName[tech] = a
			}
			a.count++
			a.categories[items[i].Category] = true
		}
	}

	skills := make([]domain.Skill, 0, len(byName))
	for name, a := range byName {
		categories := make([]domain.Category, 0, len(a.categories))
		for c := range a.categories {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
		skills = append(skills, domain.Skill{Name: name, Count: a.count, Categories: categories})
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Count != skills[j].Count {
			return skills[i].Count > skills[j].Count
		}
		return strings.ToLower(skills[i].Name) < strings.ToLower(skills[j].Name)
	})
	return skills
}

// Report returns the diagnostics from the last pipeline run.
func (m *Manager) Report() validation.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastReport
}

// Invalidate clears all cache state immediately. The next read triggers
// a full refetch and pipeline run.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	m.lastEmptyFetch = time.Time{}
	m.log.Info("portfolio cache invalidated")
}

// cacheValid reports whether the snapshot is non-empty and within TTL.
func (m *Manager) cacheValid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap != nil && len(m.snap.byID) > 0 && m.now().Sub(m.snap.lastUpdated) < m.ttl
}

// inEmptyBackoff reports whether a recent empty fetch suppresses
// non-forced refreshes.
func (m *Manager) inEmptyBackoff() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.lastEmptyFetch.IsZero() && m.now().Sub(m.lastEmptyFetch) < m.emptyBackoff
}

// refreshIfNeeded refreshes the snapshot unless the cache is fresh or
// an empty-fetch backoff is active. Concurrent callers collapse onto a
// single refresh via singleflight.
func (m *Manager) refreshIfNeeded(ctx context.Context, force bool) {
	if !force && m.cacheValid() {
		return
	}
	if !force && m.inEmptyBackoff() {
		return
	}

	_, _, _ = m.group.Do("refresh", func() (any, error) {
		// Re-check under the flight: a caller that queued behind a
		// completed refresh shouldn't run another one.
		if !force && m.cacheValid() {
			return nil, nil
		}
		m.refresh(ctx)
		return nil, nil
	})
}

// refresh performs one fetch + pipeline run, replacing the snapshot
// atomically on success. Every failure path keeps the previous snapshot.
func (m *Manager) refresh(ctx context.Context) {
	records, err := m.src.Fetch(ctx)
	if err != nil {
		m.log.Error("content fetch failed, serving stale snapshot", "error", err)
		return
	}

	if len(records) == 0 {
		m.log.Warn("content fetch returned no records, backing off")
		m.mu.Lock()
		m.lastEmptyFetch = m.now()
		m.mu.Unlock()
		return
	}

	result := m.pipeline.Process(records)
	if !result.Success {
		m.log.Error("pipeline run failed, serving stale snapshot", "errors", result.Errors)
		return
	}

	snap := m.buildSnapshot(result.Items)

	m.mu.Lock()
	m.snap = snap
	m.lastReport = result.Report
	m.lastEmptyFetch = time.Time{}
	m.mu.Unlock()

	m.log.Info("portfolio cache refreshed",
		"items", snap.stats.Total,
		"published", snap.stats.Published)
}

// buildSnapshot derives every read aggregate from one pipeline result.
func (m *Manager) buildSnapshot(items []domain.PortfolioItem) *snapshot {
	published := make([]domain.PortfolioItem, 0, len(items))
	for i := range items {
		if items[i].IsPublished() {
			published = append(published, items[i])
		}
	}

	byID := make(map[string]*domain.PortfolioItem, len(published))
	for i := range published {
		byID[published[i].ID] = &published[i]
	}

	index := search.BuildIndex(published)

	byCategory := make(map[domain.Category]int, 8)
	techs := make(map[string]bool)
	for i := range published {
		byCategory[published[i].Category]++
		for _, tech := range published[i].Technologies {
			techs[tech] = true
		}
	}

	return &snapshot{
		byID:        byID,
		published:   published,
		index:       index,
		filters:     search.GenerateFilters(index),
		searchStats: search.GenerateStats(index),
		stats: domain.PortfolioStats{
			Total:        len(items),
			Published:    len(published),
			ByCategory:   byCategory,
			Technologies: len(techs),
			LastUpdated:  m.now(),
		},
		lastUpdated: m.now(),
	}
}
