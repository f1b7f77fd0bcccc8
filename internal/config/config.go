package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath       string
	ServerAddr         string
	OverpassURL        string
	OverpassTimeoutSec int
	BcryptCost         int
}

func Load(path string) (Config, error) {
	cfg := Config{
		ServerAddr:         ":8080",
		OverpassTimeoutSec: 20,
		BcryptCost:         10,
	}

	if path != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg.DatabasePath = getenv("DATABASE_PATH", "arogyapath.db")
	cfg.ServerAddr = getenv("SERVER_ADDR", cfg.ServerAddr)
	cfg.OverpassURL = strings.TrimSpace(os.Getenv("OVERPASS_URL"))

	if v := os.Getenv("OVERPASS_TIMEOUT_SECONDS"); v != "" {
		if err := parsePositiveInt(&cfg.OverpassTimeoutSec, v); err != nil {
			return Config{}, fmt.Errorf("OVERPASS_TIMEOUT_SECONDS: %w", err)
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if err := parsePositiveInt(&cfg.BcryptCost, v); err != nil {
			return Config{}, fmt.Errorf("BCRYPT_COST: %w", err)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parsePositiveInt(target *int, value string) error {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if parsed <= 0 {
		return fmt.Errorf("must be positive, got %d", parsed)
	}
	*target = parsed
	return nil
}
