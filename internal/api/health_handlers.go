package api

import (
	"net/http"
	"time"

	"github.com/foliolab/folio-server/internal/http/response"
	"github.com/foliolab/folio-server/internal/sitemap"
)

// healthStatus is the /healthz payload.
type healthStatus struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Uptime      string    `json:"uptime"`
	Items       int       `json:"items"`
	LastRefresh time.Time `json:"last_refresh,omitzero"`
}

// handleHealthz reports liveness plus a glance at the content cache. It
// never fails: an empty cache is "degraded", not down, because reads
// degrade gracefully.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	stats := s.manager.Stats(r.Context())

	status := "ok"
	if stats.Published == 0 {
		status = "degraded"
	}

	response.JSON(w, http.StatusOK, healthStatus{
		Status:      status,
		Version:     apiVersion,
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Items:       stats.Published,
		LastRefresh: stats.LastUpdated,
	}, s.log.Logger)
}

// handleSitemap serves the sitemap XML over the published items.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	entries := s.sitemap.Entries(s.manager.Items(r.Context()))

	body, err := sitemap.XML(entries)
	if err != nil {
		s.log.Error("Failed to render sitemap", "error", err)
		response.InternalError(w, "failed to render sitemap", s.log.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
