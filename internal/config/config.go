// Package config reads runtime settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDirectionsURL is the public OpenRouteService endpoint.
const DefaultDirectionsURL = "https://api.openrouteservice.org"

// DefaultOverpassURL is the public Overpass API interpreter.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// Config holds every environment-driven setting.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	DirectionsURL     string
	ORSAPIKey         string
	DirectionsTimeout time.Duration

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	OverpassURL string
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	c := &Config{
		Port:              3000,
		LogLevel:          getenv("LOG_LEVEL"),
		LogFormat:         getenv("LOG_FORMAT"),
		DirectionsURL:     DefaultDirectionsURL,
		ORSAPIKey:         getenv("ORS_API_KEY"),
		DirectionsTimeout: 10 * time.Second,
		RedisAddr:         getenv("REDIS_ADDR"),
		RedisPass:         getenv("REDIS_PASS"),
		CacheTTL:          24 * time.Hour,
		OverpassURL:       DefaultOverpassURL,
	}

	if v := getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("PORT %q is not a valid port", v)
		}
		c.Port = n
	}
	if v := getenv("DIRECTIONS_URL"); v != "" {
		c.DirectionsURL = v
	}
	if v := getenv("OVERPASS_URL"); v != "" {
		c.OverpassURL = v
	}
	if v := getenv("DIRECTIONS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("DIRECTIONS_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("DIRECTIONS_TIMEOUT %q must be positive", v)
		}
		c.DirectionsTimeout = d
	}
	if v := getenv("DIRECTIONS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("DIRECTIONS_CACHE_TTL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("DIRECTIONS_CACHE_TTL %q must be positive", v)
		}
		c.CacheTTL = d
	}
	if v := getenv("REDIS_DB"); v != "" {
		// unparsable values fall back to 0
		if n, _ := strconv.Atoi(v); n >= 0 {
			c.RedisDB = n
		}
	}
	return c, nil
}
