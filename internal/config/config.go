package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"route-visualizer/internal/domain"

	"gopkg.in/yaml.v3"
)

// Default map palette; route i is drawn with palette[i mod len(palette)].
var DefaultPalette = []string{"#ef4444", "#3b82f6", "#10b981", "#f59e0b", "#8b5cf6"}

// Config is the resolved runtime configuration. Values come from, in order of
// precedence: environment, the optional YAML file at CONFIG_PATH, defaults.
type Config struct {
	Port             string
	OptimizerURL     string
	OptimizerTimeout time.Duration
	SamplePath       string
	RateLimitRPS     float64
	RateLimitBurst   int

	Depot   domain.GeoPoint
	Fleet   domain.FleetParams
	Palette []string
}

type fileConfig struct {
	Port         string `yaml:"port"`
	OptimizerURL string `yaml:"optimizer_url"`
	SamplePath   string `yaml:"sample_path"`
	// Block fields are pointers so that keys missing from a block keep
	// their defaults.
	Depot *struct {
		Name *string  `yaml:"name"`
		Lat  *float64 `yaml:"lat"`
		Lng  *float64 `yaml:"lng"`
	} `yaml:"depot"`
	Fleet *struct {
		VehicleCount *int     `yaml:"vehicle_count"`
		Capacity     *int     `yaml:"capacity"`
		CostPerKm    *float64 `yaml:"cost_per_km"`
		Strategy     *string  `yaml:"strategy"`
	} `yaml:"fleet"`
	Palette []string `yaml:"palette"`
}

func Defaults() Config {
	return Config{
		Port:         "8080",
		OptimizerURL: "http://localhost:5000",
		Depot:        domain.GeoPoint{Name: "Main Depot", Lat: -1.2921, Lng: 36.8219},
		Fleet: domain.FleetParams{
			VehicleCount: 3,
			Capacity:     300,
			CostPerKm:    0.5,
			Strategy:     domain.StrategyCostOptimized,
		},
		Palette:        append([]string(nil), DefaultPalette...),
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

// Load resolves the configuration from CONFIG_PATH (if set) and the environment.
// Callers load .env files beforehand.
func Load() (Config, error) {
	cfg := Defaults()

	if path := Get("CONFIG_PATH", ""); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Palette) == 0 {
		return Config{}, errors.New("load config: palette must not be empty")
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.OptimizerURL != "" {
		cfg.OptimizerURL = fc.OptimizerURL
	}
	if fc.SamplePath != "" {
		cfg.SamplePath = fc.SamplePath
	}
	if d := fc.Depot; d != nil {
		if d.Name != nil {
			cfg.Depot.Name = *d.Name
		}
		if d.Lat != nil {
			cfg.Depot.Lat = *d.Lat
		}
		if d.Lng != nil {
			cfg.Depot.Lng = *d.Lng
		}
	}
	if f := fc.Fleet; f != nil {
		if f.VehicleCount != nil {
			cfg.Fleet.VehicleCount = *f.VehicleCount
		}
		if f.Capacity != nil {
			cfg.Fleet.Capacity = *f.Capacity
		}
		if f.CostPerKm != nil {
			cfg.Fleet.CostPerKm = *f.CostPerKm
		}
		if f.Strategy != nil {
			cfg.Fleet.Strategy = domain.Strategy(*f.Strategy)
		}
	}
	if len(fc.Palette) > 0 {
		cfg.Palette = fc.Palette
	}

	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.OptimizerURL = strings.TrimRight(Get("OPTIMIZER_URL", cfg.OptimizerURL), "/")
	cfg.SamplePath = Get("SAMPLE_PATH", cfg.SamplePath)

	if v := Get("OPTIMIZER_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("OPTIMIZER_TIMEOUT %q: must be a non-negative duration", v)
		}
		cfg.OptimizerTimeout = d
	}

	if v := Get("RATE_LIMIT_RPS", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("RATE_LIMIT_RPS %q: must be a non-negative number", v)
		}
		cfg.RateLimitRPS = f
	}

	if v := Get("RATE_LIMIT_BURST", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("RATE_LIMIT_BURST %q: must be a positive integer", v)
		}
		cfg.RateLimitBurst = n
	}

	return nil
}
