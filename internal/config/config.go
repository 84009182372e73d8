package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	JWTSecret                string
	TokenTTLHours            int
	OrderPendingTimeoutMins  int
	OrderSweepIntervalMins   int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	MigrateOnBoot            bool
}

func Default() Config {
	return Config{
		JWTSecret:                "dev-secret-change-me",
		TokenTTLHours:            72,
		OrderPendingTimeoutMins:  20,
		OrderSweepIntervalMins:   10,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		MigrateOnBoot:            true,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("JWT_SECRET"); raw != "" {
		cfg.JWTSecret = raw
	}
	if raw := os.Getenv("TOKEN_TTL_HOURS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TokenTTLHours = value
		}
	}
	if raw := os.Getenv("ORDER_PENDING_TIMEOUT_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.OrderPendingTimeoutMins = value
		}
	}
	if raw := os.Getenv("ORDER_SWEEP_INTERVAL_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.OrderSweepIntervalMins = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("MIGRATE_ON_BOOT"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.MigrateOnBoot = value
		}
	}
	return cfg
}
