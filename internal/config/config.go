package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Backend     BackendConfig     `yaml:"backend"`
	Geocoder    GeocoderConfig    `yaml:"geocoder"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Search      SearchConfig      `yaml:"search"`
	Storage     StorageConfig     `yaml:"storage"`
	JWT         JWTConfig         `yaml:"jwt"`
	Log         LogConfig         `yaml:"log"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

// ServerConfig contains local workflow API settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig points at the marketplace REST API
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GeocoderConfig contains address lookup settings
type GeocoderConfig struct {
	BaseURL       string  `yaml:"base_url"`
	Country       string  `yaml:"country"`
	UserAgent     string  `yaml:"user_agent"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// GeolocationConfig stands in for the device location API. Without a fixed
// position configured, device lookups fail and the search stays idle.
type GeolocationConfig struct {
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Latitude       *float64 `yaml:"latitude"`
	Longitude      *float64 `yaml:"longitude"`
}

// RadiusPolicyConfig describes one normal-phase radius schedule
type RadiusPolicyConfig struct {
	StartKm         float64 `yaml:"start_km"`
	StepKm          float64 `yaml:"step_km"`
	MaxKm           float64 `yaml:"max_km"`
	IntervalSeconds int     `yaml:"interval_seconds"`
}

// SearchConfig contains collector discovery settings. Mode picks which
// policy the booking page runs: "booking" or "discovery".
type SearchConfig struct {
	Mode                  string             `yaml:"mode"`
	PriorityWindowSeconds int                `yaml:"priority_window_seconds"`
	BookingPolicy         RadiusPolicyConfig `yaml:"booking_policy"`
	DiscoveryPolicy       RadiusPolicyConfig `yaml:"discovery_policy"`
}

// StorageConfig selects where the session is persisted
type StorageConfig struct {
	Type string `yaml:"type"` // "memory", "file", "sqlite" or "postgres"
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
}

// JWTConfig contains token settings. Secret is optional: when empty, backend
// tokens are decoded without signature verification.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RefreshKCoins string `yaml:"refresh_kcoins"`
	PollBookings  string `yaml:"poll_bookings"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadDotEnv exports the variables of an env file into the process
// environment. Variables already set win; a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Parse builds a configuration from YAML bytes, applying env overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()
	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Backend
	if val := os.Getenv("BACKEND_BASE_URL"); val != "" {
		c.Backend.BaseURL = val
	}
	if val := os.Getenv("GEOCODER_BASE_URL"); val != "" {
		c.Geocoder.BaseURL = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}
	if val := os.Getenv("STORAGE_PATH"); val != "" {
		c.Storage.Path = val
	}
	if val := os.Getenv("STORAGE_DSN"); val != "" {
		c.Storage.DSN = val
	}

	// Search
	if val := os.Getenv("SEARCH_MODE"); val != "" {
		c.Search.Mode = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 15
	}

	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocoder.Country == "" {
		c.Geocoder.Country = "India"
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = "kabadi-client/1.0"
	}
	if c.Geocoder.RatePerSecond == 0 {
		c.Geocoder.RatePerSecond = 1 // Nominatim usage policy
	}
	if c.Geolocation.TimeoutSeconds == 0 {
		c.Geolocation.TimeoutSeconds = 8
	}

	if c.Search.Mode == "" {
		c.Search.Mode = "booking"
	}
	if c.Search.PriorityWindowSeconds == 0 {
		c.Search.PriorityWindowSeconds = 30
	}
	if c.Search.BookingPolicy == (RadiusPolicyConfig{}) {
		c.Search.BookingPolicy = RadiusPolicyConfig{StartKm: 5, MaxKm: 5}
	}
	if c.Search.DiscoveryPolicy == (RadiusPolicyConfig{}) {
		c.Search.DiscoveryPolicy = RadiusPolicyConfig{StartKm: 1, StepKm: 1, MaxKm: 5, IntervalSeconds: 30}
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Scheduler defaults
	if c.Scheduler.RefreshKCoins == "" {
		c.Scheduler.RefreshKCoins = "0 */5 * * * *" // Every 5 minutes
	}
	if c.Scheduler.PollBookings == "" {
		c.Scheduler.PollBookings = "*/30 * * * * *" // Every 30 seconds
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Backend validation
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base URL: %w", err)
	}
	if _, err := url.ParseRequestURI(c.Geocoder.BaseURL); err != nil {
		return fmt.Errorf("invalid geocoder base URL: %w", err)
	}
	if c.Geocoder.RatePerSecond < 0 {
		return fmt.Errorf("geocoder rate must not be negative")
	}

	// Geolocation validation
	if (c.Geolocation.Latitude == nil) != (c.Geolocation.Longitude == nil) {
		return fmt.Errorf("geolocation latitude and longitude must be set together")
	}

	// Search validation
	if c.Search.PriorityWindowSeconds < 0 {
		return fmt.Errorf("priority window must not be negative")
	}
	if c.Search.Mode != "booking" && c.Search.Mode != "discovery" {
		return fmt.Errorf("unsupported search mode: %s", c.Search.Mode)
	}
	if err := c.Search.BookingPolicy.validate(); err != nil {
		return fmt.Errorf("booking policy: %w", err)
	}
	if err := c.Search.DiscoveryPolicy.validate(); err != nil {
		return fmt.Errorf("discovery policy: %w", err)
	}

	// Storage validation
	switch c.Storage.Type {
	case "memory":
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for %s storage", c.Storage.Type)
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage DSN is required for postgres storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	// JWT validation
	if c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	return nil
}

func (p RadiusPolicyConfig) validate() error {
	if p.StartKm <= 0 {
		return fmt.Errorf("start radius must be positive")
	}
	if p.MaxKm < p.StartKm {
		return fmt.Errorf("max radius %.1f is below start radius %.1f", p.MaxKm, p.StartKm)
	}
	if p.MaxKm > p.StartKm && (p.StepKm <= 0 || p.IntervalSeconds <= 0) {
		return fmt.Errorf("an expanding policy needs a positive step and interval")
	}
	return nil
}

// Interval returns the expansion interval as a duration
func (p RadiusPolicyConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// ActivePolicy returns the radius policy selected by the search mode
func (c *Config) ActivePolicy() RadiusPolicyConfig {
	if c.Search.Mode == "discovery" {
		return c.Search.DiscoveryPolicy
	}
	return c.Search.BookingPolicy
}

// GetServerAddress returns the local API listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BackendTimeout returns the REST client timeout
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// GeolocationTimeout bounds the one-shot device location request
func (c *Config) GeolocationTimeout() time.Duration {
	return time.Duration(c.Geolocation.TimeoutSeconds) * time.Second
}

// PriorityWindow is the countdown length of the priority phase
func (c *Config) PriorityWindow() time.Duration {
	return time.Duration(c.Search.PriorityWindowSeconds) * time.Second
}
