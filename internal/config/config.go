package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"instantload/domain/listing"
	"instantload/internal/errors"

	"github.com/joho/godotenv"
)

// Backends a run can write to
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// DefaultEnvFiles are loaded, when present, before reading the environment
var DefaultEnvFiles = []string{".env.local", ".env"}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the complete application configuration
type Config struct {
	Backend  string
	REST     RESTConfig
	Database DatabaseConfig
	Listing  ListingConfig
	LogLevel string
}

// RESTConfig holds the hosted REST endpoint settings
type RESTConfig struct {
	URL    string
	APIKey string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ListingConfig describes the input sheet and the partition it replaces
type ListingConfig struct {
	File        string
	Sheet       string
	SheetURL    string
	SheetRange  string
	Credentials string
	Source      string
	Table       string
	BatchSize   int
}

// LoadEnvFiles loads dotenv files that exist. Variables already set in the
// environment win. It returns the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, errors.Wrapf(err, "failed to load env file %s", path)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// Load reads configuration from environment variables. Call Validate once
// command line overrides are applied.
func Load() *Config {
	return &Config{
		Backend: strings.ToLower(getEnvOrDefault("LOADER_BACKEND", BackendREST)),
		REST: RESTConfig{
			URL:    firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"),
			APIKey: firstEnv("SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Listing: ListingConfig{
			File:        os.Getenv("LISTING_FILE"),
			Sheet:       os.Getenv("LISTING_SHEET"),
			SheetURL:    os.Getenv("LISTING_SHEET_URL"),
			SheetRange:  os.Getenv("LISTING_SHEET_RANGE"),
			Credentials: os.Getenv("GOOGLE_CREDENTIALS"),
			Source:      getEnvOrDefault("LISTING_SOURCE", listing.DefaultSource),
			Table:       getEnvOrDefault("LISTING_TABLE", listing.DefaultTable),
			BatchSize:   getEnvIntOrDefault("LISTING_BATCH_SIZE", listing.DefaultBatchSize),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// Validate checks the settings every command needs
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listing.Source) == "" {
		return errors.ConfigInvalid("source tag is required")
	}
	if !identifier.MatchString(c.Listing.Table) {
		return errors.ConfigInvalid(fmt.Sprintf("table name %q is not a plain identifier", c.Listing.Table))
	}
	if c.Listing.BatchSize < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("batch size must be at least 1, got %d", c.Listing.BatchSize))
	}
	return nil
}

// ValidateInput checks that exactly one listing input is configured
func (c *Config) ValidateInput() error {
	hasFile := c.Listing.File != ""
	hasSheet := c.Listing.SheetURL != ""
	switch {
	case hasFile && hasSheet:
		return errors.ConfigInvalid("use either a listing file or a spreadsheet URL, not both")
	case !hasFile && !hasSheet:
		return errors.ConfigInvalid("a listing file or spreadsheet URL is required")
	case hasSheet && c.Listing.SheetRange == "":
		return errors.ConfigInvalid("a spreadsheet range is required with a spreadsheet URL")
	}
	return nil
}

// ValidateBackend checks the credentials of the selected backend
func (c *Config) ValidateBackend() error {
	switch c.Backend {
	case BackendREST:
		if c.REST.URL == "" {
			return errors.ConfigInvalid("SUPABASE_URL is required for the rest backend")
		}
		if c.REST.APIKey == "" {
			return errors.ConfigInvalid("SUPABASE_SERVICE_ROLE_KEY is required for the rest backend")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres backend")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown backend %q (must be rest or postgres)", c.Backend))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
