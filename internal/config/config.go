package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL        = "http://localhost:1337"
	defaultHTTPTimeout    = "15s"
	defaultSessionDB      = "regeve-session.db"
	defaultSuccessDisplay = "5s"
)

// RuntimeConfig is everything the registration client reads from the
// environment.
type RuntimeConfig struct {
	APIBaseURL     string
	APIToken       string
	HTTPTimeout    time.Duration
	SessionDBPath  string
	SuccessDisplay time.Duration
}

// Load reads .env when present, then the environment, applying defaults.
func Load() (*RuntimeConfig, error) {
	_ = godotenv.Load()

	cfg := &RuntimeConfig{}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("REGEVE_API_BASE_URL", defaultBaseURL)), "/")
	cfg.APIToken = strings.TrimSpace(os.Getenv("REGEVE_API_TOKEN"))
	cfg.SessionDBPath = strings.TrimSpace(getEnv("REGEVE_SESSION_DB", defaultSessionDB))

	var err error
	cfg.HTTPTimeout, err = parseDurationEnv("REGEVE_HTTP_TIMEOUT", defaultHTTPTimeout)
	if err != nil {
		return nil, err
	}

	cfg.SuccessDisplay, err = parseDurationEnv("REGEVE_SUCCESS_DISPLAY", defaultSuccessDisplay)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *RuntimeConfig) error {
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("REGEVE_API_BASE_URL must not be empty")
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return fmt.Errorf("REGEVE_API_BASE_URL must start with http:// or https://")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("REGEVE_HTTP_TIMEOUT must be > 0")
	}
	if cfg.SuccessDisplay <= 0 {
		return fmt.Errorf("REGEVE_SUCCESS_DISPLAY must be > 0")
	}
	if cfg.SessionDBPath == "" {
		return fmt.Errorf("REGEVE_SESSION_DB must not be empty")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
