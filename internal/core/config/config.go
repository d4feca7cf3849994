package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

type Config struct {
	Port           string
	DatabaseURL    string
	Env            string
	WebhookURL     string
	WebhookSecret  string
	BalanceCeiling decimal.Decimal
}

// LoadConfig reads .env (if present) and returns a Config struct.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		// Not a crash: production usually runs on real env variables.
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Env:            getEnv("ENV", "development"),
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
		WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		BalanceCeiling: getCeiling(),
	}
}

// getCeiling parses BALANCE_CEILING, falling back to the product default
// when unset or unparseable.
func getCeiling() decimal.Decimal {
	raw := getEnv("BALANCE_CEILING", "")
	if raw == "" {
		return domain.DefaultCeiling
	}
	ceiling, err := decimal.NewFromString(raw)
	if err != nil || !ceiling.IsPositive() {
		slog.Warn("Invalid BALANCE_CEILING, using default", "value", raw, "default", domain.DefaultCeiling)
		return domain.DefaultCeiling
	}
	return ceiling
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
