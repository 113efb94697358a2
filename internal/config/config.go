package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig drives both the API and the worker. Values come from an
// optional YAML file named by KIDSBANK_CONFIG_FILE, with environment
// variables taking precedence.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StoreDriver     string        `yaml:"store_driver"` // postgres, sqlite or memory
	DatabaseURL     string        `yaml:"database_url"`
	SQLitePath      string        `yaml:"sqlite_path"`
	SupabaseURL     string        `yaml:"supabase_url"`
	SupabaseAnonKey string        `yaml:"supabase_anon_key"`
	TickEvery       time.Duration `yaml:"tick_every"`
	SpeedMultiplier float64       `yaml:"speed_multiplier"`
	ClockCatchUp    bool          `yaml:"clock_catch_up"`
	StartingBalance float64       `yaml:"starting_balance"` // currency units
	KafkaBrokers    []string      `yaml:"kafka_brokers"`
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadServerFromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		Addr:            ":8080",
		StoreDriver:     "sqlite",
		SQLitePath:      "kidsbank.db",
		TickEvery:       time.Minute,
		SpeedMultiplier: 720,
		StartingBalance: 1000,
	}

	if path := strings.TrimSpace(os.Getenv("KIDSBANK_CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	} else if addr := strings.TrimSpace(os.Getenv("KIDSBANK_API_ADDR")); addr != "" {
		cfg.Addr = addr
	}

	cfg.StoreDriver = strings.ToLower(envDefault("KIDSBANK_STORE", cfg.StoreDriver))
	cfg.DatabaseURL = envDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = envDefault("KIDSBANK_SQLITE_PATH", cfg.SQLitePath)
	cfg.SupabaseURL = strings.TrimRight(envDefault("SUPABASE_URL", cfg.SupabaseURL), "/")
	cfg.SupabaseAnonKey = envDefault("SUPABASE_ANON_KEY", cfg.SupabaseAnonKey)
	cfg.TickEvery = envDurationDefault("KIDSBANK_CLOCK_TICK_EVERY", cfg.TickEvery)
	cfg.SpeedMultiplier = envFloatDefault("KIDSBANK_SPEED_MULTIPLIER", cfg.SpeedMultiplier)
	cfg.ClockCatchUp = envBoolDefault("KIDSBANK_CLOCK_CATCH_UP", cfg.ClockCatchUp)
	cfg.StartingBalance = envFloatDefault("KIDSBANK_STARTING_BALANCE", cfg.StartingBalance)
	if brokers := strings.TrimSpace(os.Getenv("KIDSBANK_KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}

	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required with the postgres store")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			return cfg, fmt.Errorf("KIDSBANK_SQLITE_PATH is required with the sqlite store")
		}
	case "memory":
	default:
		return cfg, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if cfg.SupabaseURL == "" {
		return cfg, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return cfg, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if cfg.SpeedMultiplier <= 0 {
		return cfg, fmt.Errorf("speed multiplier must be positive")
	}
	if cfg.StartingBalance < 0 {
		return cfg, fmt.Errorf("starting balance must not be negative")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("KIDSBANK_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
