// Package portfolio orchestrates the content pipeline and fronts it
// with a TTL-cached manager. All site reads go through the manager; a
// failed refresh degrades to the last good snapshot instead of
// surfacing an error to page rendering.
package portfolio

import (
	"fmt"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/enrich"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/media/thumbs"
	"github.com/foliolab/folio-server/internal/normalize"
	"github.com/foliolab/folio-server/internal/validation"
)

// Pipeline runs the normalize, validate, enrich stages over a batch of
// raw records.
type Pipeline struct {
	normalizer *normalize.Normalizer
	validator  *validation.Validator
	enricher   *enrich.Enricher
	thumbs     *thumbs.Inspector
	log        *logger.Logger
}

// PipelineOption customizes pipeline construction.
type PipelineOption func(*Pipeline)

// WithThumbnails adds local thumbnail inspection (real aspect ratios,
// blurhash placeholders) between normalization and validation.
func WithThumbnails(i *thumbs.Inspector) PipelineOption {
	return func(p *Pipeline) { p.thumbs = i }
}

// NewPipeline wires the three stages.
func NewPipeline(n *normalize.Normalizer, v *validation.Validator, e *enrich.Enricher, log *logger.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{normalizer: n, validator: v, enricher: e, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessResult is the outcome of one pipeline run. A failed run has
// Success false, no items, and at least one error message; it never
// surfaces as a panic or an error return.
type ProcessResult struct {
	Success bool                   `json:"success"`
	Items   []domain.PortfolioItem `json:"items"`
	Report  validation.Report      `json:"report"`
	Errors  []string               `json:"errors,omitempty"`
}

// Process runs the full pipeline. An unexpected panic inside any stage
// is recovered and reported through the result so a bad batch can never
// take down the caller.
func (p *Pipeline) Process(records []domain.ContentRecord) (result ProcessResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("content pipeline failed", "panic", r)
			result = ProcessResult{
				Success: false,
				Errors:  []string{fmt.Sprintf("content pipeline failed: %v", r)},
			}
		}
	}()

	normalized := p.normalizer.Normalize(records)
	if p.thumbs != nil {
		p.thumbs.Apply(normalized)
	}
	valid, report := p.validator.ValidateItems(normalized, p.log)
	enriched := p.enricher.Enrich(valid)

	p.log.Info("content pipeline completed",
		"records", len(records),
		"normalized", len(normalized),
		"valid", len(valid),
		"dropped", report.Dropped)

	return ProcessResult{
		Success: true,
		Items:   enriched,
		Report:  report,
	}
}
