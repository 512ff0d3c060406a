package main

import (
	"guildbank/internal/config" // Custom import path (Config)
	"guildbank/internal/store"  // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Open the database; InitDB migrates the schema and seeds the bank account
	if _, err := store.InitDB(cfg.DBDriver, cfg.DSN()); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration complete")
}
