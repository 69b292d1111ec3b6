package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foliolab/folio-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search portfolio items",
		Description: "Weighted full-text search with optional category, technology, and year filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-filters",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/filters",
		Summary:     "List search facets",
		Description: "Facet options (categories, technologies, years, tags) with counts over the published items",
		Tags:        []string{"Search"},
	}, s.handleSearchFilters)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/stats",
		Summary:     "Search index statistics",
		Tags:        []string{"Search"},
	}, s.handleSearchStats)
}

// === DTOs ===

// SearchInput contains the search parameters.
type SearchInput struct {
	Query          string `query:"q" validate:"omitempty,max=200" doc:"Search query; empty lists everything by priority"`
	Category       string `query:"category" validate:"omitempty,max=50" doc:"Category ID filter"`
	Technology     string `query:"technology" validate:"omitempty,max=100" doc:"Exact technology filter"`
	Year           int    `query:"year" validate:"omitempty,gte=1990,lte=2100" doc:"Creation year filter"`
	Limit          int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	IncludeContent bool   `query:"include_content" doc:"Also match against long-form content"`
}

// SearchOutput wraps the search result for huma.
type SearchOutput struct {
	Body search.Result
}

// FiltersResponse is the facet listing payload.
type FiltersResponse struct {
	Filters []search.Filter `json:"filters"`
}

// FiltersOutput wraps the facets for huma.
type FiltersOutput struct {
	Body FiltersResponse
}

// SearchStatsOutput wraps index statistics for huma.
type SearchStatsOutput struct {
	Body search.Stats
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result := s.manager.Search(ctx, search.Params{
		Query:          input.Query,
		Category:       input.Category,
		Technology:     input.Technology,
		Year:           input.Year,
		Limit:          limit,
		IncludeContent: input.IncludeContent,
	})

	s.recorder.Search(ctx, input.Query, result.Total)

	return &SearchOutput{Body: result}, nil
}

func (s *Server) handleSearchFilters(ctx context.Context, _ *struct{}) (*FiltersOutput, error) {
	return &FiltersOutput{Body: FiltersResponse{
		Filters: s.manager.Filters(ctx),
	}}, nil
}

func (s *Server) handleSearchStats(ctx context.Context, _ *struct{}) (*SearchStatsOutput, error) {
	return &SearchStatsOutput{Body: s.manager.SearchStats(ctx)}, nil
}
