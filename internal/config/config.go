package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database; empty serves the dataset from memory
	DatabaseURL string

	// Redis; empty uses the in-process search cache
	RedisAddr      string
	RedisPassword  string
	SearchCacheTTL time.Duration

	// JWT; empty disables catalog import
	JWTSecret string

	// Dataset directory; empty uses the embedded dataset
	DataDir string

	// Remote dataset document fetched by catalog sync; empty disables sync
	CatalogSyncURL string

	// Calculation defaults
	DefaultTargetHealth  float64
	TargetArmor          float64
	TargetMagicResist    float64
	DefaultDuration      float64
	SearchWorkers        int
	MaxSearchEvaluations int
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		SearchCacheTTL:       time.Duration(getEnvInt("SEARCH_CACHE_TTL_SECONDS", 600)) * time.Second,
		JWTSecret:            getEnv("JWT_SECRET", ""),
		DataDir:              getEnv("DATA_DIR", ""),
		CatalogSyncURL:       getEnv("CATALOG_SYNC_URL", ""),
		DefaultTargetHealth:  getEnvFloat("DEFAULT_TARGET_HEALTH", 2000),
		TargetArmor:          getEnvFloat("TARGET_ARMOR", 0),
		TargetMagicResist:    getEnvFloat("TARGET_MAGIC_RESIST", 0),
		DefaultDuration:      getEnvFloat("DEFAULT_DURATION_SECONDS", 10),
		SearchWorkers:        getEnvInt("SEARCH_WORKERS", runtime.NumCPU()),
		MaxSearchEvaluations: getEnvInt("MAX_SEARCH_EVALUATIONS", 250000),
	}

	if cfg.DefaultTargetHealth < 0 {
		return nil, fmt.Errorf("DEFAULT_TARGET_HEALTH must not be negative")
	}
	if cfg.DefaultDuration <= 0 {
		return nil, fmt.Errorf("DEFAULT_DURATION_SECONDS must be positive")
	}
	if cfg.SearchWorkers <= 0 {
		cfg.SearchWorkers = runtime.NumCPU()
	}

	return cfg, nil
}

// ImportEnabled reports whether catalog import can be authorized.
func (c *Config) ImportEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}
