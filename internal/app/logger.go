package app

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/abdullharslan/ProductManager/internal/config"
)

// NewLogger returns a JSON logger in production and a text logger otherwise.
// An unknown level falls back to info.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
