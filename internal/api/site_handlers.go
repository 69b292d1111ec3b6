package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/site"
)

func (s *Server) registerSiteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-home",
		Method:      http.MethodGet,
		Path:        "/api/v1/home",
		Summary:     "Home page payload",
		Description: "Page metadata, featured highlights, and snapshot stats in one read",
		Tags:        []string{"Site"},
	}, s.handleGetHome)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-about",
		Method:      http.MethodGet,
		Path:        "/api/v1/about",
		Summary:     "About page payload",
		Tags:        []string{"Site"},
	}, s.handleGetAbout)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Portfolio statistics",
		Tags:        []string{"Site"},
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-skills",
		Method:      http.MethodGet,
		Path:        "/api/v1/skills",
		Summary:     "Aggregated skills",
		Description: "Technologies across published items with usage counts",
		Tags:        []string{"Site"},
	}, s.handleListSkills)
}

// === DTOs ===

// HomeOutput wraps the home-page payload for huma.
type HomeOutput struct {
	Body site.HomePage
}

// AboutOutput wraps the about-page payload for huma.
type AboutOutput struct {
	Body site.AboutPage
}

// StatsOutput wraps portfolio statistics for huma.
type StatsOutput struct {
	Body domain.PortfolioStats
}

// SkillsResponse is the skills listing payload.
type SkillsResponse struct {
	Skills []domain.Skill `json:"skills"`
}

// SkillsOutput wraps the skills listing for huma.
type SkillsOutput struct {
	Body SkillsResponse
}

// === Handlers ===

func (s *Server) handleGetHome(ctx context.Context, _ *struct{}) (*HomeOutput, error) {
	s.recorder.PageView(ctx, "/")
	return &HomeOutput{Body: s.pages.Home(ctx)}, nil
}

func (s *Server) handleGetAbout(ctx context.Context, _ *struct{}) (*AboutOutput, error) {
	s.recorder.PageView(ctx, "/about")
	return &AboutOutput{Body: s.pages.About(ctx)}, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	return &StatsOutput{Body: s.manager.Stats(ctx)}, nil
}

func (s *Server) handleListSkills(ctx context.Context, _ *struct{}) (*SkillsOutput, error) {
	return &SkillsOutput{Body: SkillsResponse{Skills: s.manager.Skills(ctx)}}, nil
}
