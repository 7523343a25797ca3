package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr               string
	DatabaseURL            string
	BreakdownServiceURL    string
	BreakdownTimeout       time.Duration
	DefaultLanguage        string
	SummaryRefreshInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:               strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:            strings.TrimSpace(os.Getenv("DATABASE_URL")),
		BreakdownServiceURL:    strings.TrimSpace(os.Getenv("BREAKDOWN_SERVICE_URL")),
		BreakdownTimeout:       parseSeconds(strings.TrimSpace(os.Getenv("BREAKDOWN_TIMEOUT_SECONDS"))),
		DefaultLanguage:        strings.TrimSpace(os.Getenv("DEFAULT_LANGUAGE")),
		SummaryRefreshInterval: parseSeconds(strings.TrimSpace(os.Getenv("SUMMARY_REFRESH_SECONDS"))),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "goal_planner.db"
	}

	if cfg.BreakdownTimeout == 0 {
		cfg.BreakdownTimeout = 30 * time.Second
	}

	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "pt"
	}

	if cfg.SummaryRefreshInterval == 0 {
		cfg.SummaryRefreshInterval = time.Hour
	}

	if cfg.BreakdownServiceURL == "" {
		return cfg, fmt.Errorf("BREAKDOWN_SERVICE_URL is required")
	}

	return cfg, nil
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw + "s")
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
