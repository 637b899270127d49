package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DefaultFixedPrices is the price table applied when fixed mode starts and
// FIXED_PRICES is not set in the environment.
var DefaultFixedPrices = map[string]float64{
	"Bira":   80,
	"Tekila": 130,
	"Vodka":  180,
	"Viski":  230,
}

type Config struct {
	HTTP_ADDR      string
	DB_DRIVER      string
	DB_PATH        string
	DATABASE_URL   string
	LOG_LEVEL      string
	JWT_SECRET     string
	ADMIN_USERNAME string
	ADMIN_PASSWORD string
	KAFKA_ADDRESS  string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string

	// FixedPrices maps product name to the price it is pinned at while
	// fixed mode is active. Injected data, not code: override with the
	// FIXED_PRICES env var (JSON object).
	FixedPrices map[string]float64
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:      getDefault("HTTP_ADDR", ":8080"),
		DB_DRIVER:      getDefault("DB_DRIVER", "sqlite"),
		DB_PATH:        getDefault("DB_PATH", "bar.db"),
		DATABASE_URL:   os.Getenv("DATABASE_URL"),
		LOG_LEVEL:      getDefault("LOG_LEVEL", "info"),
		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		ADMIN_USERNAME: getDefault("ADMIN_USERNAME", "admin"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		FixedPrices:    DefaultFixedPrices,
	}

	if raw := os.Getenv("FIXED_PRICES"); raw != "" {
		prices := map[string]float64{}
		if err := json.Unmarshal([]byte(raw), &prices); err != nil {
			return nil, fmt.Errorf("FIXED_PRICES is not a valid JSON object: %w", err)
		}
		config.FixedPrices = prices
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
