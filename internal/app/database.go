// Package app provides item store initialization and setup.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/stock-service/config"
	"github.com/guttosm/stock-service/internal/circuitbreaker"
	"github.com/guttosm/stock-service/internal/logger"
	"github.com/guttosm/stock-service/internal/metrics"
	"github.com/guttosm/stock-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

// ErrUnknownBackend is returned for a store backend name that is not supported.
var ErrUnknownBackend = errors.New("unknown store backend")

// StoreComponents holds the selected item store and its resources.
type StoreComponents struct {
	Backend        string
	Store          repository.ItemStore
	CircuitBreaker *circuitbreaker.CircuitBreaker
	closers        []func(context.Context) error
}

// Close releases the backend connections.
func (s *StoreComponents) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitializeStore connects the backend named in cfg.Store.Backend. Remote
// backends are guarded by a circuit breaker; every backend is instrumented.
func InitializeStore(ctx context.Context, cfg config.Config) (*StoreComponents, error) {
	components := &StoreComponents{Backend: cfg.Store.Backend}
	log := logger.WithComponent("store")

	var store repository.ItemStore
	switch cfg.Store.Backend {
	case repository.BackendCSV:
		store = repository.NewCSVStore(cfg.Store.CSVPath)
		log.Info().Str("path", cfg.Store.CSVPath).Msg("Using CSV item store")

	case repository.BackendMongoDB:
		db, err := repository.NewMongoDB(ctx, cfg.Database.URI, cfg.Database.DatabaseName)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		components.closers = append(components.closers, db.Close)
		store = repository.NewMongoItemStore(db)
		log.Info().Str("database", cfg.Database.DatabaseName).Msg("Connected to MongoDB")

	case repository.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to Redis: %w", err)
		}
		components.closers = append(components.closers, func(context.Context) error {
			return client.Close()
		})
		store = repository.NewRedisItemStore(client, cfg.Redis.KeyPrefix)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

	case repository.BackendMySQL:
		db, err := repository.OpenMySQL(ctx, cfg.MySQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect to MySQL: %w", err)
		}
		components.closers = append(components.closers, func(context.Context) error {
			return db.Close()
		})
		mysqlStore := repository.NewMySQLItemStore(db)
		if err := mysqlStore.EnsureSchema(ctx); err != nil {
			_ = components.Close(ctx)
			return nil, fmt.Errorf("prepare MySQL schema: %w", err)
		}
		store = mysqlStore
		log.Info().Msg("Connected to MySQL")

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Store.Backend)
	}

	if cfg.Store.Backend != repository.BackendCSV {
		components.CircuitBreaker = newStoreCircuitBreaker(cfg.Database, cfg.Store.Backend+"-items")
		store = repository.NewItemStoreWithCircuitBreaker(store, components.CircuitBreaker)
	}

	components.Store = repository.NewInstrumentedItemStore(store, cfg.Store.Backend)
	return components, nil
}

func newStoreCircuitBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
	metrics.SetCircuitBreakerState(name, int(cb.State()))
	return cb
}
