// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guttosm/stock-service/config"
	"github.com/guttosm/stock-service/internal/metrics"
	"github.com/urfave/cli/v2"
)

const (
	flagBackend     = "backend"
	flagFile        = "file"
	flagSeed        = "seed"
	flagMetricsFile = "metrics-file"
	flagLogLevel    = "log-level"
	flagRecords     = "records"
	flagLine        = "line"
	flagCode        = "code"
	flagCount       = "count"
)

const closeTimeout = 5 * time.Second

// runner carries the configuration and lazily initialized components shared
// by the commands of one CLI run.
type runner struct {
	cfg      config.Config
	stores   *StoreComponents
	services *ServiceComponents
}

// NewCLI builds the command line application. Values in cfg are the flag
// defaults; flags given on the command line override them.
func NewCLI(cfg config.Config) *cli.App {
	r := &runner{cfg: cfg}

	return &cli.App{
		Name:  "stock-service",
		Usage: "manage a retail stock catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagBackend,
				Value: cfg.Store.Backend,
				Usage: "item store backend: csv, mongodb, redis or mysql",
			},
			&cli.StringFlag{
				Name:  flagFile,
				Value: cfg.Store.CSVPath,
				Usage: "CSV file used by the csv backend",
			},
			&cli.Uint64Flag{
				Name:  flagSeed,
				Value: cfg.Generator.Seed,
				Usage: "dummy data seed, 0 for random",
			},
			&cli.StringFlag{
				Name:  flagMetricsFile,
				Value: cfg.Metrics.TextfilePath,
				Usage: "write Prometheus metrics to this file on exit",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: cfg.Log.Level,
				Usage: "log level: debug, info, warn or error",
			},
		},
		Before: r.before,
		After:  r.after,
		Action: r.demo,
		Commands: []*cli.Command{
			{
				Name:   "demo",
				Usage:  "generate dummy data, reload it and print the stock value",
				Flags:  []cli.Flag{recordsFlag(cfg)},
				Action: r.demo,
			},
			{
				Name:   "generate",
				Usage:  "write dummy data to the store",
				Flags:  []cli.Flag{recordsFlag(cfg)},
				Action: r.generate,
			},
			{
				Name:   "value",
				Usage:  "print the item count and stock value",
				Action: r.value,
			},
			{
				Name:  "checkout",
				Usage: "sell the given lines and print the receipt",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     flagLine,
						Usage:    "cart line as code=count, repeatable",
						Required: true,
					},
				},
				Action: r.checkout,
			},
			{
				Name:  "restock",
				Usage: "add units to an item",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: flagCode, Usage: "item code", Required: true},
					&cli.IntFlag{Name: flagCount, Usage: "units to add", Required: true},
				},
				Action: r.restock,
			},
		},
	}
}

func recordsFlag(cfg config.Config) cli.Flag {
	return &cli.IntFlag{
		Name:  flagRecords,
		Value: cfg.Generator.Records,
		Usage: "number of items to generate",
	}
}

func (r *runner) before(c *cli.Context) error {
	r.cfg.Store.Backend = strings.ToLower(c.String(flagBackend))
	r.cfg.Store.CSVPath = c.String(flagFile)
	r.cfg.Generator.Seed = c.Uint64(flagSeed)
	r.cfg.Metrics.TextfilePath = c.String(flagMetricsFile)
	r.cfg.Log.Level = c.String(flagLogLevel)

	InitializeLogger(r.cfg.Log)
	return nil
}

// setup connects the store and creates the services on first use.
func (r *runner) setup(ctx context.Context) error {
	if r.services != nil {
		return nil
	}

	stores, err := InitializeStore(ctx, r.cfg)
	if err != nil {
		return err
	}
	r.stores = stores
	r.services = InitializeServices(stores.Store, r.cfg.Generator)
	return nil
}

func (r *runner) after(_ *cli.Context) error {
	var errs []error
	if r.stores != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		errs = append(errs, r.stores.Close(ctx))
		r.stores = nil
		r.services = nil
	}
	errs = append(errs, metrics.WriteTextfile(r.cfg.Metrics.TextfilePath))
	return errors.Join(errs...)
}
