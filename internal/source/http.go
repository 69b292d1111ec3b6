package source

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"time"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
)

// HTTPSource fetches content records from a remote JSON endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewHTTP creates an HTTP source for the given endpoint. The timeout
// bounds each fetch; the manager layer never retries beyond its own
// backoff, so a generous timeout is fine.
func NewHTTP(url string, timeout time.Duration, log *logger.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch retrieves and decodes the record list.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.ContentRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch content: unexpected status %d", resp.StatusCode)
	}

	var records []domain.ContentRecord
	if err := json.UnmarshalRead(resp.Body, &records); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	s.log.Debug("fetched content records", "url", s.url, "count", len(records))
	return records, nil
}
