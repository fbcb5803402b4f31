package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values of TASK_STORE.
const (
	StoreSQLite = "sqlite"
	StoreNeo4j  = "neo4j"
)

// Config holds all settings, read from a .env file and the environment.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// Backend selection
	TaskStore string `mapstructure:"TASK_STORE"`

	SQLitePath string `mapstructure:"SQLITE_PATH"`

	Neo4jURI      string `mapstructure:"NEO4J_URI"`
	Neo4jUsername string `mapstructure:"NEO4J_USERNAME"`
	Neo4jPassword string `mapstructure:"NEO4J_PASSWORD"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	// Views
	Timezone           string `mapstructure:"TIMEZONE"`
	UpcomingWindowDays int    `mapstructure:"UPCOMING_WINDOW_DAYS"`
}

var defaults = map[string]any{
	"ENVIRONMENT":          "development",
	"SERVER_PORT":          "8080",
	"TASK_STORE":           StoreSQLite,
	"SQLITE_PATH":          "taskmaster.db",
	"NEO4J_URI":            "neo4j://localhost:7687",
	"NEO4J_USERNAME":       "neo4j",
	"NEO4J_PASSWORD":       "password",
	"LOG_LEVEL":            "info",
	"LOG_FILE":             "",
	"TIMEZONE":             "UTC",
	"UPCOMING_WINDOW_DAYS": 7,
}

// LoadConfig reads path/.env if present, then the environment. Environment
// variables win over the file; every key has a default.
func LoadConfig(path string) (Config, error) {
	var config Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, the environment alone is enough.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decoding config: %w", err)
	}
	config.TaskStore = strings.ToLower(strings.TrimSpace(config.TaskStore))
	return config, config.Validate()
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.TaskStore {
	case StoreSQLite, StoreNeo4j:
	default:
		return fmt.Errorf("TASK_STORE must be %q or %q, got %q", StoreSQLite, StoreNeo4j, c.TaskStore)
	}
	if c.UpcomingWindowDays < 1 {
		return fmt.Errorf("UPCOMING_WINDOW_DAYS must be positive, got %d", c.UpcomingWindowDays)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured time zone for date views.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.ServerPort
}
