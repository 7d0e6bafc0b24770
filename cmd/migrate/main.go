// Command migrate applies the database schema. Production deployments run
// it before starting the server; in development Connect migrates on its own.
package main

import (
	"log"

	"chapel/internal/config"
	"chapel/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("schema migration complete")
}
