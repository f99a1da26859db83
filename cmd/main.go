// Package main is the entry point for the stock-service command.
package main

import (
	"os"

	"github.com/guttosm/stock-service/config"
	"github.com/guttosm/stock-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	if err := app.NewCLI(cfg).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
