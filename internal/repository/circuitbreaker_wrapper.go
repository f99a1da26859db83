package repository

import (
	"context"
	"time"

	"github.com/guttosm/stock-service/internal/circuitbreaker"
	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/guttosm/stock-service/internal/metrics"
)

// ItemStoreWithCircuitBreaker wraps an ItemStore with circuit breaker protection.
// While the circuit is open every call fails with circuitbreaker.ErrCircuitOpen.
type ItemStoreWithCircuitBreaker struct {
	store          ItemStore
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewItemStoreWithCircuitBreaker creates a new store wrapper with circuit breaker.
func NewItemStoreWithCircuitBreaker(store ItemStore, cb *circuitbreaker.CircuitBreaker) *ItemStoreWithCircuitBreaker {
	return &ItemStoreWithCircuitBreaker{
		store:          store,
		circuitBreaker: cb,
	}
}

// SaveItems saves records with circuit breaker protection.
func (s *ItemStoreWithCircuitBreaker) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	return s.circuitBreaker.Execute(ctx, func() error {
		return s.store.SaveItems(ctx, records)
	})
}

// LoadItems loads records with circuit breaker protection.
func (s *ItemStoreWithCircuitBreaker) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	return circuitbreaker.Do(ctx, s.circuitBreaker, func() ([]dto.ItemRecord, error) {
		return s.store.LoadItems(ctx)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (s *ItemStoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}

// InstrumentedItemStore records operation counts and latency per backend.
type InstrumentedItemStore struct {
	store   ItemStore
	backend string
}

// NewInstrumentedItemStore wraps store, labelling metrics with backend.
func NewInstrumentedItemStore(store ItemStore, backend string) *InstrumentedItemStore {
	return &InstrumentedItemStore{store: store, backend: backend}
}

// SaveItems delegates and records the outcome.
func (s *InstrumentedItemStore) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	start := time.Now()
	err := s.store.SaveItems(ctx, records)
	metrics.RecordStoreOperation(s.backend, "save", time.Since(start), err)
	return err
}

// LoadItems delegates and records the outcome.
func (s *InstrumentedItemStore) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	start := time.Now()
	records, err := s.store.LoadItems(ctx)
	metrics.RecordStoreOperation(s.backend, "load", time.Since(start), err)
	return records, err
}
