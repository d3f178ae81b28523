package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"day-planner-service/internal/adapters/cache"
	"day-planner-service/internal/adapters/geoapify"
	"day-planner-service/internal/adapters/repositories"
	"day-planner-service/internal/api"
	"day-planner-service/internal/config"
	platformdb "day-planner-service/internal/platform/db"
	"day-planner-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Geoapify, optionally Redis) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := os.Getenv("SEED_PATH")
	port := config.Get("PORT", "8080")

	apiKey := os.Getenv("GEOAPIFY_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GEOAPIFY_API_KEY is required")
	}

	planner, err := config.Load(config.Get("PLANNER_CONFIG", "planner.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and optionally seed request data on startup for local runs.
	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}
	if seedPath != "" {
		if err := repositories.SeedFromCSV(db, seedPath); err != nil {
			log.Fatal(err)
		}
	}

	// Geoapify client uses persistent caches to avoid repeated geocode/matrix
	// calls. Caches move to shared Postgres when DATABASE_URL is set; geocode
	// results additionally move to Redis when REDIS_ADDR is set.
	var geocodeCache ports.GeocodeCache = cache.NewSqliteGeocodeCache(db)
	var travelCache ports.TravelTimeCache = cache.NewSqliteTravelCache(db)
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := platformdb.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		geocodeCache = cache.NewSQLGeocodeCache(pg)
		travelCache = cache.NewSQLTravelCache(pg)
		log.Println("Using postgres caches")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		geocodeCache = cache.NewRedisGeocodeCache(rdb, 30*24*time.Hour)
		log.Printf("Using redis geocode cache addr=%s", addr)
	}

	provider, err := geoapify.NewClient(apiKey, planner.Country, geocodeCache, travelCache)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteRequestRepository(db)
	router := api.NewRouter(repo, provider, provider, planner)

	// Timeouts are tuned for cold-cache planning runs (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
