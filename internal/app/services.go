// Package app provides service initialization.
package app

import (
	"github.com/guttosm/stock-service/config"
	"github.com/guttosm/stock-service/internal/repository"
	"github.com/guttosm/stock-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Catalog   *service.Catalog
	Persister *service.Persister
	Generator *service.Generator
}

// InitializeServices creates an empty catalog and the services that move data
// between it and store.
func InitializeServices(store repository.ItemStore, cfg config.GeneratorConfig) *ServiceComponents {
	return &ServiceComponents{
		Catalog:   service.NewCatalog(),
		Persister: service.NewPersister(store),
		Generator: service.NewGenerator(cfg.Seed),
	}
}
