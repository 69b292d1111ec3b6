// Package source provides the content-record suppliers the pipeline
// pulls from: a remote HTTP endpoint, a local JSON directory, or the
// Badger record store.
package source

import (
	"context"

	"github.com/foliolab/folio-server/internal/domain"
)

// Source supplies raw content records for a pipeline run. A nil error
// with no records means the upstream is legitimately empty; the manager
// applies its empty-fetch backoff in that case rather than treating it
// as a failure.
type Source interface {
	Fetch(ctx context.Context) ([]domain.ContentRecord, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context) ([]domain.ContentRecord, error)

// Fetch implements Source.
func (f Func) Fetch(ctx context.Context) ([]domain.ContentRecord, error) {
	return f(ctx)
}

// Static returns a Source that always yields the given records.
// Useful for seeding and tests.
func Static(records []domain.ContentRecord) Source {
	return Func(func(context.Context) ([]domain.ContentRecord, error) {
		return records, nil
	})
}
