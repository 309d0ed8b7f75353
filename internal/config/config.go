package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the locator service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the HTTP API and monitoring endpoints.
// - Provider: Which geocoding provider to use and how to reach it.
// - Resolver: Batch resolver tuning.
// - Cache: Where the geocode cache slot lives.
type Config struct {
	Env      string         `mapstructure:"env"`       // Env is the current environment: local, development, production.
	Port     int            `mapstructure:"http_port"` // Port is the HTTP server port.
	Provider ProviderConfig `mapstructure:",squash"`   // Provider holds the geocoding provider configuration.
	Resolver ResolverConfig `mapstructure:",squash"`   // Resolver holds the batch resolver configuration.
	Cache    CacheConfig    `mapstructure:",squash"`   // Cache holds the cache slot configuration.
}

// ProviderConfig selects the geocoding provider.
type ProviderConfig struct {
	Type      string `mapstructure:"provider_type"`       // nominatim or google
	APIKey    string `mapstructure:"provider_key"`        // Required for google
	RateLimit int    `mapstructure:"provider_rate_limit"` // Requests per second, 0 disables client-side limiting
	BaseURL   string `mapstructure:"provider_url"`        // Override for a self-hosted Nominatim
}

// ResolverConfig tunes the batch resolver.
type ResolverConfig struct {
	GroupSize  int           `mapstructure:"group_size"`
	GroupDelay time.Duration `mapstructure:"group_delay"`
	MaxPoints  int           `mapstructure:"max_points"`
}

// CacheConfig describes the persistent cache slot.
type CacheConfig struct {
	Backend  string         `mapstructure:"cache_backend"` // file, redis or postgres
	Slot     string         `mapstructure:"cache_slot"`
	Dir      string         `mapstructure:"cache_dir"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Database PostgresConfig `mapstructure:",squash"`
}

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"db_host"`     // Host is the database server address.
	Port     string `mapstructure:"db_port"`     // Port is the database server port.
	User     string `mapstructure:"db_username"` // User is the database user.
	Password string `mapstructure:"db_password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`     // Name is the name of the database.
}

const envPrefix = "PAKKETPUNT"

// Database settings are shared with other services and keep their unprefixed names.
var sharedKeys = []string{"db_host", "db_port", "db_username", "db_password", "db_name"}

var defaults = map[string]any{
	"env":                 "production",
	"http_port":           8080,
	"provider_type":       "nominatim",
	"provider_key":        "",
	"provider_rate_limit": 0,
	"provider_url":        "",
	"group_size":          8,
	"group_delay":         "500ms",
	"max_points":          120,
	"cache_backend":       "file",
	"cache_slot":          "packagePointsGeocoded",
	"cache_dir":           "./data",
	"redis_addr":          "127.0.0.1:6379",
	"redis_password":      "",
	"redis_db":            0,
	"db_host":             "",
	"db_port":             "5432",
	"db_username":         "",
	"db_password":         "",
	"db_name":             "",
}

// MustLoad reads an optional .env file and the environment, and returns the Config.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range sharedKeys {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("failed to parse configuration: " + err.Error())
	}

	if cfg.Resolver.GroupDelay < 0 {
		panic("failed to parse group delay from configuration, must not be negative")
	}
	if cfg.Port <= 0 {
		panic("failed to parse port for http server from configuration")
	}
	if cfg.Resolver.GroupSize <= 0 {
		panic("failed to parse group size from configuration, must be a positive integer")
	}

	return &cfg
}
