// Package config loads process settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the production Ramp developer API.
const DefaultAPIBaseURL = "https://api.ramp.com"

// Config holds everything the report tools read from the environment.
type Config struct {
	RampClientID     string
	RampClientSecret string
	APIBaseURL       string

	// ArchiveBucket, when set, receives a copy of every generated
	// artifact (reports and raw snapshots).
	ArchiveBucket string
}

// Load reads the .env file if one exists, then the environment.
// RAMP_CLIENT_ID and RAMP_CLIENT_SECRET are required.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		RampClientID:     os.Getenv("RAMP_CLIENT_ID"),
		RampClientSecret: os.Getenv("RAMP_CLIENT_SECRET"),
		APIBaseURL:       os.Getenv("RAMP_API_BASE_URL"),
		ArchiveBucket:    os.Getenv("AGING_ARCHIVE_BUCKET"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if cfg.RampClientID == "" || cfg.RampClientSecret == "" {
		return nil, fmt.Errorf("config: RAMP_CLIENT_ID and RAMP_CLIENT_SECRET must be set in the environment")
	}

	return cfg, nil
}
