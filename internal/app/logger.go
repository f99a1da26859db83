// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/stock-service/config"
	"github.com/guttosm/stock-service/internal/logger"
)

// InitializeLogger initializes the global logger from the log configuration.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
