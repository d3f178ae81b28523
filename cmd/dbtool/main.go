package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"day-planner-service/internal/adapters/repositories"
	"day-planner-service/internal/config"
	"day-planner-service/internal/platform/db"
)

// dbtool prepares databases for the planner: the local SQLite file (requests
// + caches, optionally seeded from CSV) and, when DATABASE_URL is set, the
// shared Postgres cache tables.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		log.Println("Initializing postgres cache schema...")
		if err := repositories.InitCacheSchemaPostgres(pg); err != nil {
			log.Fatalf("postgres schema initialization failed: %v", err)
		}
		log.Println("Postgres cache schema ready.")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	local, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("open sqlite database %q: %v", dbPath, err)
	}
	defer local.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(local); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/requests.csv")
	if _, err := os.Stat(seedPath); err != nil {
		log.Printf("No seed file at %q; skipping seeding.", seedPath)
		return
	}

	log.Println("Seeding database...")
	if err := repositories.SeedFromCSV(local, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
