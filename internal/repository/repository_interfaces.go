// Package repository provides interfaces for item store operations.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/stock-service/internal/domain/dto"
)

// Store backend names.
const (
	BackendCSV     = "csv"
	BackendMongoDB = "mongodb"
	BackendRedis   = "redis"
	BackendMySQL   = "mysql"
)

var (
	// ErrStoreNotFound is returned when the backing file or dataset does not exist.
	ErrStoreNotFound = errors.New("item store not found")
	// ErrMalformedRow is returned when a persisted row cannot be parsed.
	ErrMalformedRow = errors.New("malformed item row")
)

// ItemStore persists catalog snapshots. SaveItems replaces the stored content;
// LoadItems returns records in the order they were saved.
type ItemStore interface {
	SaveItems(ctx context.Context, records []dto.ItemRecord) error
	LoadItems(ctx context.Context) ([]dto.ItemRecord, error)
}
