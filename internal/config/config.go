package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	DriverSqlite   = "sqlite"
	DriverMongo    = "mongo"
	DriverSupabase = "supabase"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	StoreDriver     string
	SqlitePath      string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	SupabaseURL     string
	SupabaseAnonKey string
	CORSOrigins     []string
	DefaultRadiusKm float64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		StoreDriver:     strings.ToLower(getEnvWithDefault("STORE_DRIVER", DriverSqlite)),
		SqlitePath:      getEnvWithDefault("SQLITE_PATH", "nearwork.db"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "nearwork"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),
		CORSOrigins:     splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
	}

	radius, err := strconv.ParseFloat(getEnvWithDefault("DEFAULT_RADIUS_KM", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_RADIUS_KM must be a number: %w", err)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("DEFAULT_RADIUS_KM must be positive")
	}
	cfg.DefaultRadiusKm = radius

	// Validate required fields
	switch cfg.StoreDriver {
	case DriverSqlite:
		if cfg.SqlitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required")
		}
	case DriverMongo:
		if cfg.MongoDBURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required")
		}
		if strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
			return nil, fmt.Errorf("MONGODB_PASSWORD is required")
		}
	case DriverSupabase:
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required")
		}
		if cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER: %s (expected sqlite, mongo, supabase)", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
