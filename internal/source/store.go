package source

import (
	"context"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/store"
)

// StoreSource reads content records from the local Badger store.
type StoreSource struct {
	store *store.Store
}

// NewStore creates a source backed by the record store.
func NewStore(s *store.Store) *StoreSource {
	return &StoreSource{store: s}
}

// Fetch lists all stored records.
func (s *StoreSource) Fetch(ctx context.Context) ([]domain.ContentRecord, error) {
	return s.store.Records.List(ctx)
}
