package main

import (
	"flag"
	"log"

	"wikiquiz/internal/config"
	"wikiquiz/internal/database"
)

// Applies pending schema migrations. The API server also migrates on
// startup; this command exists for operating on the schema without
// starting the server, including rolling the last migration back.
func main() {
	var (
		path = flag.String("path", "database/migrations", "directory holding migration files")
		down = flag.Bool("down", false, "roll back the most recent migration instead of applying")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *down {
		m, err := database.NewMigrator(db, *path)
		if err != nil {
			log.Fatalf("Failed to prepare migrator: %v", err)
		}
		if err := m.Steps(-1); err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		log.Println("Rolled back one migration")
		return
	}

	if err := database.RunMigrations(db, *path); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}
