package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"day-planner-service/internal/adapters/cache"
	"day-planner-service/internal/adapters/geoapify"
	"day-planner-service/internal/adapters/memory"
	"day-planner-service/internal/adapters/source"
	"day-planner-service/internal/config"
	"day-planner-service/internal/domain"
	"day-planner-service/internal/ports"
	"day-planner-service/internal/services"
)

// planner reads delivery requests from a CSV file, runs the planning pipeline
// and prints the day plans as a console report.
//
// Live mode geocodes postcodes and fetches drive times through Geoapify
// (GEOAPIFY_API_KEY required). Dry-run mode takes coordinates from the CSV's
// lat/lon columns and estimates drive times from straight-line distance, so
// no network access is needed.
func main() {
	csvPath := flag.String("csv", "", "path to the requests CSV file (required)")
	depot := flag.String("depot", "", "depot address or postcode (overrides config)")
	todayFlag := flag.String("today", "", "reference date YYYY-MM-DD (default: current date)")
	configPath := flag.String("config", "planner.yaml", "path to the planner YAML config")
	dryRun := flag.Bool("dry-run", false, "use CSV lat/lon columns and straight-line estimates instead of Geoapify")
	depotLat := flag.Float64("depot-lat", 0, "depot latitude (dry-run only)")
	depotLon := flag.Float64("depot-lon", 0, "depot longitude (dry-run only)")
	speed := flag.Float64("speed", 40, "average speed in km/h for dry-run estimates")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if *csvPath == "" {
		flag.Usage()
		log.Fatal("-csv is required")
	}

	planner, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *depot != "" {
		planner.Depot = *depot
	}
	if planner.Depot == "" {
		log.Fatal("depot is required (flag -depot, config or DEPOT_ADDRESS)")
	}

	today := time.Now().UTC()
	if *todayFlag != "" {
		today, err = time.Parse(time.DateOnly, *todayFlag)
		if err != nil {
			log.Fatalf("parse -today: %v", err)
		}
	}

	requests, err := source.ReadCSV(*csvPath)
	if err != nil {
		log.Fatal(err)
	}

	var (
		geocoder ports.Geocoder
		travel   ports.TravelTimeProvider
	)
	if *dryRun {
		geocoder, travel, err = dryRunAdapters(requests, planner.Depot, *depotLat, *depotLon, *speed)
	} else {
		geocoder, travel, err = liveAdapters(planner.Country)
	}
	if err != nil {
		log.Fatal(err)
	}

	outcome, err := services.PlanDeliveries(
		context.Background(),
		services.PlanDeliveriesRequest{
			Depot:          planner.Depot,
			Today:          today,
			ThresholdKm:    planner.ThresholdKm,
			ServiceMinutes: planner.ServiceMinutes,
			WorkdayMinutes: planner.WorkdayMinutes,
			TwoOpt:         planner.TwoOpt,
		},
		&memory.StaticRepository{Requests: requests},
		geocoder,
		travel,
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, plan := range outcome.Plans {
		fmt.Println(formatPlan(plan))
	}
	for _, f := range outcome.Failures {
		fmt.Printf("\n!!! could not plan %s: %v\n", strings.Join(f.Postcodes, ", "), f.Err)
	}
	if len(outcome.Failures) > 0 {
		os.Exit(1)
	}
}

// dryRunAdapters serves coordinates from the CSV itself and estimates travel
// times from straight-line distance.
func dryRunAdapters(requests []*domain.DeliveryRequest, depot string, depotLat, depotLon, speed float64) (ports.Geocoder, ports.TravelTimeProvider, error) {
	coords := map[string]domain.Coordinates{
		depot: {Lat: depotLat, Lon: depotLon},
	}
	for _, r := range requests {
		if !r.Geocoded() {
			return nil, nil, fmt.Errorf("dry-run: row %d has no lat/lon columns", r.Row)
		}
		coords[r.Postcode] = r.Coordinate
	}

	return memory.NewStaticGeocoder(coords), memory.NewHaversineTravel(speed), nil
}

func liveAdapters(country string) (ports.Geocoder, ports.TravelTimeProvider, error) {
	apiKey := os.Getenv("GEOAPIFY_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil, fmt.Errorf("GEOAPIFY_API_KEY is required (or use -dry-run)")
	}

	db, err := sql.Open("sqlite", config.Get("DB_PATH", "data/app.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open cache database: %w", err)
	}

	client, err := geoapify.NewClient(apiKey, country, cache.NewSqliteGeocodeCache(db), cache.NewSqliteTravelCache(db))
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

func formatPlan(plan domain.DayPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== %s ===\n", plan.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "Stops: %d\n", len(plan.Stops))

	order := make([]string, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		order = append(order, s.Request.Postcode)
	}
	fmt.Fprintf(&b, "Route: Depot -> %s -> Depot\n", strings.Join(order, " -> "))
	fmt.Fprintf(&b, "Drive time: %.1f min\n", plan.DriveMinutes)
	fmt.Fprintf(&b, "Service time: %.1f min\n", plan.ServiceMinutes)
	fmt.Fprintf(&b, "Total: %.1f min\n", plan.TotalMinutes())

	if plan.Feasible {
		b.WriteString("Feasible within workday.")
	} else {
		fmt.Fprintf(&b, "Not feasible: %s", plan.Reason)
	}

	return b.String()
}
