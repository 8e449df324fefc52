package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/marine-outlook/internal/database"
)

// Config holds all service settings, populated from environment variables
// and an optional YAML zones file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBPath string

	// Upstream forecast source.
	NOAABaseURL        string
	NOAAUserAgent      string
	FetchTimeout       time.Duration
	CacheTTL           time.Duration
	FetchRatePerMinute int

	RefreshSchedule string

	// Zones are the marine zones the refresher keeps warm and the UI lists.
	Zones []Zone
}

// Zone is a watched marine forecast zone.
type Zone struct {
	Code     string `yaml:"code"`
	Synopsis string `yaml:"synopsis"`
	Name     string `yaml:"name"`
}

type zonesFile struct {
	Zones []Zone `yaml:"zones"`
}

const defaultUserAgent = "marine-outlook/1.0 (github.com/ngmaloney/marine-outlook)"

var zoneCodeRe = regexp.MustCompile(`^[A-Z]{3}\d{3}$`)

// DefaultZones is used when no zones file is configured.
var DefaultZones = []Zone{
	{Code: "ANZ230", Synopsis: "ANZ200", Name: "Cape Cod Bay"},
	{Code: "ANZ231", Synopsis: "ANZ200", Name: "Nantucket Sound"},
	{Code: "ANZ232", Synopsis: "ANZ200", Name: "Vineyard Sound"},
	{Code: "ANZ254", Synopsis: "ANZ200", Name: "Coastal waters from Provincetown MA to Chatham MA to Nantucket MA out 20 nm"},
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}

	rate, err := strconv.Atoi(EnvOrDefault("FETCH_RATE_PER_MINUTE", "3"))
	if err != nil || rate <= 0 {
		return nil, errors.New("invalid FETCH_RATE_PER_MINUTE")
	}

	cfg := &Config{
		HTTPAddr:           EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		DBPath:             EnvOrDefault("DB_PATH", database.DBPath()),
		NOAABaseURL:        EnvOrDefault("NOAA_BASE_URL", "https://forecast.weather.gov"),
		NOAAUserAgent:      EnvOrDefault("NOAA_USER_AGENT", defaultUserAgent),
		FetchTimeout:       fetchTimeout,
		CacheTTL:           cacheTTL,
		FetchRatePerMinute: rate,
		RefreshSchedule:    EnvOrDefault("REFRESH_SCHEDULE", "@every 30m"),
		Zones:              DefaultZones,
	}

	if path := os.Getenv("MARINE_CONFIG"); path != "" {
		zones, err := LoadZones(path)
		if err != nil {
			return nil, err
		}
		cfg.Zones = zones
	}

	if cfg.NOAABaseURL == "" {
		return nil, errors.New("NOAA_BASE_URL is required")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}

	return cfg, nil
}

// LoadZones reads the zones file at path.
func LoadZones(path string) ([]Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zones file: %w", err)
	}
	return ParseZones(data)
}

// ParseZones decodes and validates a YAML zones document.
func ParseZones(data []byte) ([]Zone, error) {
	var f zonesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding zones file: %w", err)
	}
	if len(f.Zones) == 0 {
		return nil, errors.New("zones file lists no zones")
	}
	for _, z := range f.Zones {
		if !ValidZoneCode(z.Code) {
			return nil, fmt.Errorf("invalid zone code %q", z.Code)
		}
		if z.Synopsis != "" && !ValidZoneCode(z.Synopsis) {
			return nil, fmt.Errorf("invalid synopsis zone %q for %s", z.Synopsis, z.Code)
		}
	}
	return f.Zones, nil
}

// ValidZoneCode reports whether code looks like "ANZ230".
func ValidZoneCode(code string) bool {
	return zoneCodeRe.MatchString(code)
}

// EnvOrDefault returns the environment variable key, or def when unset or empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
