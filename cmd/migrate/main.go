package main

import (
	"log"

	"github.com/abdullharslan/ProductManager/internal/app"
	"github.com/abdullharslan/ProductManager/internal/config"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/auth"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/database"
)

// Creates the users, products and casbin_rule tables and seeds the default policies
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := app.NewLogger(cfg)

	db, err := database.Open(cfg.DSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.WithError(err).Fatal("failed to get sql.DB")
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	logger.Info("schema migrated")

	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		logger.WithError(err).Fatal("casbin initialization failed")
	}
	if err := cas.SeedDefaults(); err != nil {
		logger.WithError(err).Fatal("policy seeding failed")
	}

	policies, err := cas.E.GetPolicy()
	if err != nil {
		logger.WithError(err).Fatal("failed to read policies")
	}
	logger.WithField("policies", len(policies)).Info("default policies seeded")
}
