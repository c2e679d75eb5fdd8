package main

import (
	"log"

	"github.com/abdullharslan/ProductManager/internal/app"
	"github.com/abdullharslan/ProductManager/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := app.NewLogger(cfg)
	if err := app.Run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("app stopped")
	}
}
