package config

import (
	"os"
	"path/filepath"
	"testing"

	"instantload/domain/listing"
	"instantload/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOADER_BACKEND", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL",
		"SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY",
		"DATABASE_URL", "LISTING_FILE", "LISTING_SHEET", "LISTING_SHEET_URL", "LISTING_SHEET_RANGE",
		"GOOGLE_CREDENTIALS", "LISTING_SOURCE", "LISTING_TABLE", "LISTING_BATCH_SIZE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, listing.DefaultSource, cfg.Listing.Source)
	assert.Equal(t, listing.DefaultTable, cfg.Listing.Table)
	assert.Equal(t, listing.DefaultBatchSize, cfg.Listing.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOADER_BACKEND", "Postgres")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://public.supabase.co")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "anon")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
	t.Setenv("DATABASE_URL", "postgres://localhost/cars")
	t.Setenv("LISTING_SOURCE", "KB캐피탈")
	t.Setenv("LISTING_BATCH_SIZE", "25")

	cfg := Load()
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "https://public.supabase.co", cfg.REST.URL)
	assert.Equal(t, "service", cfg.REST.APIKey)
	assert.Equal(t, "postgres://localhost/cars", cfg.Database.URL)
	assert.Equal(t, "KB캐피탈", cfg.Listing.Source)
	assert.Equal(t, 25, cfg.Listing.BatchSize)
}

func TestLoad_InvalidBatchSizeFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTING_BATCH_SIZE", "many")

	assert.Equal(t, listing.DefaultBatchSize, Load().Listing.BatchSize)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty source", mutate: func(c *Config) { c.Listing.Source = "  " }},
		{name: "quoted table", mutate: func(c *Config) { c.Listing.Table = `vehicles"; drop table x; --` }},
		{name: "zero batch", mutate: func(c *Config) { c.Listing.BatchSize = 0 }},
	}

	for _, tc := range cases {
		cfg := Load()
		tc.mutate(cfg)
		err := cfg.Validate()
		assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid), tc.name)
	}
}

func TestValidateInput(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateInput())

	cfg.Listing.File = "bnkcar.xlsx"
	assert.NoError(t, cfg.ValidateInput())

	cfg.Listing.SheetURL = "https://docs.google.com/spreadsheets/d/abc"
	assert.Error(t, cfg.ValidateInput())

	cfg.Listing.File = ""
	assert.Error(t, cfg.ValidateInput())

	cfg.Listing.SheetRange = "Sheet1!A1:J"
	assert.NoError(t, cfg.ValidateInput())
}

func TestValidateBackend(t *testing.T) {
	cfg := &Config{Backend: BackendREST}
	assert.Error(t, cfg.ValidateBackend())

	cfg.REST = RESTConfig{URL: "https://x.supabase.co", APIKey: "key"}
	assert.NoError(t, cfg.ValidateBackend())

	cfg.Backend = BackendPostgres
	assert.Error(t, cfg.ValidateBackend())
	cfg.Database.URL = "postgres://localhost/cars"
	assert.NoError(t, cfg.ValidateBackend())

	cfg.Backend = "mysql"
	assert.Error(t, cfg.ValidateBackend())
}

func TestLoadEnvFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("LISTING_SOURCE=현대캐피탈\n"), 0o600))
	require.NoError(t, os.WriteFile(shared, []byte("LISTING_SOURCE=ignored\nLISTING_TABLE=stock_vehicles\n"), 0o600))

	// godotenv.Load never overrides, so unset the placeholders from clearEnv
	os.Unsetenv("LISTING_SOURCE")
	os.Unsetenv("LISTING_TABLE")

	loaded, err := LoadEnvFiles(local, filepath.Join(dir, "missing.env"), shared)
	require.NoError(t, err)
	assert.Equal(t, []string{local, shared}, loaded)

	cfg := Load()
	assert.Equal(t, "현대캐피탈", cfg.Listing.Source)
	assert.Equal(t, "stock_vehicles", cfg.Listing.Table)
}
