package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session storage backends.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// Config holds the loaded configuration
type Config struct {
	Env            string        `yaml:"env"`
	APIBaseURL     string        `yaml:"api_base_url"`
	AssetBaseURL   string        `yaml:"asset_base_url"`
	FallbackImage  string        `yaml:"fallback_image"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	SessionBackend string        `yaml:"session_backend"`
	SessionFile    string        `yaml:"session_file"`
	SessionProfile string        `yaml:"session_profile"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	RedisURL       string        `yaml:"redis_url"`

	// Zero disables pacing of search-as-you-type requests.
	SearchRatePerSecond float64 `yaml:"search_rate_per_second"`
	LogFile             string  `yaml:"log_file"`

	MockAPIAddr    string   `yaml:"mock_api_addr"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AdminEmail     string   `yaml:"admin_email"`
	AdminPassword  string   `yaml:"admin_password"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads .env (if any), the process environment and finally the YAML
// profile named by STOREFRONT_CONFIG. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	searchRate, err := strconv.ParseFloat(getEnv("SEARCH_RATE_PER_SECOND", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_RATE_PER_SECOND: %w", err)
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		APIBaseURL:          getEnv("API_BASE_URL", "http://localhost:5000/api"),
		AssetBaseURL:        getEnv("ASSET_BASE_URL", "http://localhost:5000"),
		FallbackImage:       getEnv("FALLBACK_IMAGE", "/images/no-image.png"),
		RequestTimeout:      timeout,
		SessionBackend:      getEnv("SESSION_BACKEND", SessionBackendFile),
		SessionFile:         getEnv("SESSION_FILE", defaultSessionFile()),
		SessionProfile:      getEnv("SESSION_PROFILE", "default"),
		SessionTTL:          ttl,
		RedisURL:            getEnv("REDIS_URL", ""),
		SearchRatePerSecond: searchRate,
		LogFile:             getEnv("LOG_FILE", ""),
		MockAPIAddr:         getEnv("MOCK_API_ADDR", ":5000"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "admin123"),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the non-zero fields of a YAML profile onto cfg.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// Decoding into the populated struct keeps every field the file omits.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.SearchRatePerSecond < 0 {
		return fmt.Errorf("SEARCH_RATE_PER_SECOND must not be negative")
	}
	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SESSION_FILE is required for the file session backend")
		}
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(dir, "storefront", "session.json")
}
