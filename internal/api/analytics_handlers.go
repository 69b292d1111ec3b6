package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foliolab/folio-server/internal/analytics"
)

func (s *Server) registerAnalyticsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-analytics-summary",
		Method:      http.MethodGet,
		Path:        "/api/v1/analytics/summary",
		Summary:     "Usage summary",
		Description: "Most viewed items and most frequent search queries",
		Tags:        []string{"Analytics"},
	}, s.handleAnalyticsSummary)
}

// AnalyticsSummaryInput bounds the aggregate listings.
type AnalyticsSummaryInput struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=50" doc:"Max entries per listing (default 10)"`
}

// AnalyticsSummaryResponse is the usage summary payload.
type AnalyticsSummaryResponse struct {
	TopItems   []analytics.ItemCount  `json:"top_items"`
	TopQueries []analytics.QueryCount `json:"top_queries"`
}

// AnalyticsSummaryOutput wraps the summary for huma.
type AnalyticsSummaryOutput struct {
	Body AnalyticsSummaryResponse
}

func (s *Server) handleAnalyticsSummary(ctx context.Context, input *AnalyticsSummaryInput) (*AnalyticsSummaryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	items, err := s.usage.TopItems(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load usage summary", err)
	}

	queries, err := s.usage.TopQueries(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load usage summary", err)
	}

	return &AnalyticsSummaryOutput{Body: AnalyticsSummaryResponse{
		TopItems:   items,
		TopQueries: queries,
	}}, nil
}
