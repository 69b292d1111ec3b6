package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foliolab/folio-server/internal/domain"
	domainerrors "github.com/foliolab/folio-server/internal/errors"
	"github.com/foliolab/folio-server/internal/seo"
)

func (s *Server) registerPortfolioRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-portfolio",
		Method:      http.MethodGet,
		Path:        "/api/v1/portfolio",
		Summary:     "List portfolio items",
		Description: "All published items, optionally filtered by category",
		Tags:        []string{"Portfolio"},
	}, s.handleListPortfolio)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-portfolio-item",
		Method:      http.MethodGet,
		Path:        "/api/v1/portfolio/{id}",
		Summary:     "Get a portfolio item",
		Tags:        []string{"Portfolio"},
	}, s.handleGetPortfolioItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-related-items",
		Method:      http.MethodGet,
		Path:        "/api/v1/portfolio/{id}/related",
		Summary:     "Get related portfolio items",
		Tags:        []string{"Portfolio"},
	}, s.handleGetRelatedItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-featured",
		Method:      http.MethodGet,
		Path:        "/api/v1/featured",
		Summary:     "List featured portfolio items",
		Tags:        []string{"Portfolio"},
	}, s.handleListFeatured)
}

// === DTOs ===

// ListPortfolioInput filters the portfolio listing.
type ListPortfolioInput struct {
	Category string `query:"category" validate:"omitempty,max=50" doc:"Category ID filter; omit or 'all' for everything"`
}

// PortfolioListResponse is the portfolio listing payload.
type PortfolioListResponse struct {
	Items []domain.PortfolioItem `json:"items" doc:"Published items, priority descending"`
	Total int                    `json:"total" doc:"Number of items returned"`
	Meta  *seo.PageMeta          `json:"meta,omitempty" doc:"Category page metadata, present on category-filtered listings"`
}

// PortfolioListOutput wraps the listing for huma.
type PortfolioListOutput struct {
	Body PortfolioListResponse
}

// ItemInput addresses a single portfolio item.
type ItemInput struct {
	ID string `path:"id" validate:"required,max=100" doc:"Portfolio item ID"`
}

// ItemResponse is a single item plus its rendered long-form content and
// detail-page head metadata.
type ItemResponse struct {
	Item        domain.PortfolioItem `json:"item"`
	ContentHTML string               `json:"content_html,omitempty" doc:"Item content rendered to HTML"`
	Meta        *seo.PageMeta        `json:"meta,omitempty" doc:"Detail page metadata"`
	JSONLD      string               `json:"json_ld,omitempty" doc:"JSON-LD structured data document"`
}

// ItemOutput wraps an item response for huma.
type ItemOutput struct {
	Body ItemResponse
}

// RelatedInput addresses the related items of one item.
type RelatedInput struct {
	ID    string `path:"id" validate:"required,max=100" doc:"Portfolio item ID"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=10" doc:"Max related items (default 3)"`
}

// FeaturedInput bounds the featured listing.
type FeaturedInput struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=20" doc:"Max featured items (default 6)"`
}

// === Handlers ===

func (s *Server) handleListPortfolio(ctx context.Context, input *ListPortfolioInput) (*PortfolioListOutput, error) {
	items := s.manager.ItemsByCategory(ctx, input.Category)

	var meta *seo.PageMeta
	if input.Category != "" && input.Category != "all" {
		m := s.meta.Category(domain.Category(input.Category))
		meta = &m
	}

	s.recorder.PageView(ctx, "/portfolio")

	return &PortfolioListOutput{Body: PortfolioListResponse{
		Items: items,
		Total: len(items),
		Meta:  meta,
	}}, nil
}

func (s *Server) handleGetPortfolioItem(ctx context.Context, input *ItemInput) (*ItemOutput, error) {
	item, err := s.manager.ItemByID(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("portfolio item not found", err)
	}

	contentHTML, err := s.markdown.HTML(item.Content)
	if err != nil {
		s.log.Error("Failed to render item content", "id", item.ID, "error", err)
		contentHTML = ""
	}

	var meta *seo.PageMeta
	if m, err := s.meta.Item(item); err == nil {
		meta = &m
	} else {
		s.log.Warn("Failed to build item page metadata", "id", item.ID, "error", err)
	}

	var jsonLD string
	if body, err := seo.JSONLD(item); err == nil {
		jsonLD = string(body)
	} else if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		s.log.Warn("Failed to render structured data", "id", item.ID, "error", err)
	}

	s.recorder.ItemView(ctx, item.ID)

	return &ItemOutput{Body: ItemResponse{
		Item:        *item,
		ContentHTML: contentHTML,
		Meta:        meta,
		JSONLD:      jsonLD,
	}}, nil
}

func (s *Server) handleGetRelatedItems(ctx context.Context, input *RelatedInput) (*PortfolioListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 3
	}

	items, err := s.manager.Related(ctx, input.ID, limit)
	if err != nil {
		return nil, huma.Error404NotFound("portfolio item not found", err)
	}

	return &PortfolioListOutput{Body: PortfolioListResponse{
		Items: items,
		Total: len(items),
	}}, nil
}

func (s *Server) handleListFeatured(ctx context.Context, input *FeaturedInput) (*PortfolioListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 6
	}

	items := s.manager.Featured(ctx, limit)

	return &PortfolioListOutput{Body: PortfolioListResponse{
		Items: items,
		Total: len(items),
	}}, nil
}
