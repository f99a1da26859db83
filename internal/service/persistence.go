package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/guttosm/stock-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrStoreNotConfigured is returned when the persister has no store.
var ErrStoreNotConfigured = errors.New("item store not configured")

// Persister moves catalog state to and from an item store.
type Persister struct {
	store repository.ItemStore
}

// NewPersister creates a persister on store.
func NewPersister(store repository.ItemStore) *Persister {
	return &Persister{store: store}
}

// Save writes every catalog item, in catalog order.
func (p *Persister) Save(ctx context.Context, catalog *Catalog) error {
	if p.store == nil {
		return ErrStoreNotConfigured
	}

	records := dto.FromItems(catalog.Items())
	if err := p.store.SaveItems(ctx, records); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	log.Info().Int("items", len(records)).Msg("Catalog saved")
	return nil
}

// Load reads the stored items and adds them to catalog in row order. It
// returns the number of items added; on error, items added before the
// failing row remain in the catalog.
func (p *Persister) Load(ctx context.Context, catalog *Catalog) (int, error) {
	if p.store == nil {
		return 0, ErrStoreNotConfigured
	}

	records, err := p.store.LoadItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	added := 0
	for _, rec := range records {
		item, err := rec.ToItem()
		if err != nil {
			return added, fmt.Errorf("load catalog: %w", err)
		}
		if err := catalog.AddItem(item); err != nil {
			return added, fmt.Errorf("load catalog: %w", err)
		}
		added++
	}

	log.Info().Int("items", added).Msg("Catalog loaded")
	return added, nil
}
