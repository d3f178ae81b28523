package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Planner holds the planning parameters. Defaults match the workday the
// system was built around: one driver, eight hours, ten minutes per stop.
type Planner struct {
	Depot          string  `yaml:"depot"`
	Country        string  `yaml:"country"`
	ThresholdKm    float64 `yaml:"threshold_km"`
	ServiceMinutes float64 `yaml:"service_minutes"`
	WorkdayMinutes float64 `yaml:"workday_minutes"`
	TwoOpt         bool    `yaml:"two_opt"`
}

func defaults() Planner {
	return Planner{
		ThresholdKm:    12.0,
		ServiceMinutes: 10.0,
		WorkdayMinutes: 8 * 60,
	}
}

// Load reads planner configuration: defaults, overlaid by the YAML file at
// path (if it exists), overlaid by environment variables. Secrets (API keys,
// connection strings) stay in the environment and are read by the composition
// roots directly.
func Load(path string) (Planner, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Planner{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Planner{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	if v := os.Getenv("DEPOT_ADDRESS"); v != "" {
		cfg.Depot = v
	}
	if v := os.Getenv("GEOCODE_COUNTRY"); v != "" {
		cfg.Country = v
	}
	if v, ok, err := envFloat("PROXIMITY_THRESHOLD_KM"); err != nil {
		return Planner{}, err
	} else if ok {
		cfg.ThresholdKm = v
	}
	if v, ok, err := envFloat("SERVICE_MINUTES"); err != nil {
		return Planner{}, err
	} else if ok {
		cfg.ServiceMinutes = v
	}
	if v, ok, err := envFloat("WORKDAY_MINUTES"); err != nil {
		return Planner{}, err
	} else if ok {
		cfg.WorkdayMinutes = v
	}
	if v := os.Getenv("TWO_OPT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Planner{}, fmt.Errorf("load config: TWO_OPT: %w", err)
		}
		cfg.TwoOpt = b
	}

	return cfg, nil
}

func envFloat(key string) (float64, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("load config: %s: %w", key, err)
	}
	return f, true, nil
}

// Get returns an environment variable or the fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
