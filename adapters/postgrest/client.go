package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"instantload/domain/listing"
	"instantload/ports"

	pgrst "github.com/supabase-community/postgrest-go"
)

// DefaultSchema is the exposed schema the listing table lives in
const DefaultSchema = "public"

// Config holds the hosted REST endpoint settings
type Config struct {
	BaseURL string // project URL, e.g. https://<ref>.supabase.co
	APIKey  string
	Table   string
	Schema  string
}

// client implements ports.VehicleTable over a PostgREST endpoint
type client struct {
	rest    *pgrst.Client
	table   string
	columns []string
}

// NewClient validates cfg and creates the table client
func NewClient(cfg Config) (ports.VehicleTable, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("rest base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("rest API key is required")
	}
	if cfg.Table == "" {
		cfg.Table = listing.DefaultTable
	}
	if cfg.Schema == "" {
		cfg.Schema = DefaultSchema
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid rest base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid rest base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	rest := pgrst.NewClient(base.JoinPath("rest", "v1").String(), cfg.Schema, map[string]string{
		"apikey":        cfg.APIKey,
		"Authorization": "Bearer " + cfg.APIKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("failed to create rest client: %w", rest.ClientError)
	}

	return &client{
		rest:    rest,
		table:   cfg.Table,
		columns: listing.CanonicalColumns,
	}, nil
}

// DeleteBySource deletes the source partition and counts the returned rows
func (c *client) DeleteBySource(ctx context.Context, source string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	body, _, err := c.rest.From(c.table).
		Delete("representation", "").
		Eq(listing.FieldSource, source).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to delete vehicles: %w", err)
	}
	return countRows(body)
}

// InsertMany posts rows as one JSON array
func (c *client) InsertMany(ctx context.Context, rows []listing.Row) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		records[i] = row.Record(c.columns)
	}
	if err := c.insert(ctx, records); err != nil {
		return fmt.Errorf("failed to insert %d vehicles: %w", len(rows), err)
	}
	return nil
}

// Insert posts a single row
func (c *client) Insert(ctx context.Context, row listing.Row) error {
	if err := c.insert(ctx, row.Record(c.columns)); err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

// CountBySource asks for an exact count of the source partition
func (c *client) CountBySource(ctx context.Context, source string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	_, count, err := c.rest.From(c.table).
		Select(listing.FieldSource, "exact", true).
		Eq(listing.FieldSource, source).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return int(count), nil
}

// Close is a no-op; the REST client holds no connection
func (c *client) Close() error {
	return nil
}

// insert sends one object or array; the library issues requests without a
// context, so cancellation is checked before each call
func (c *client) insert(ctx context.Context, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := c.rest.From(c.table).
		Insert(payload, false, "", "minimal", "").
		Execute()
	return err
}

// countRows returns the length of a returned JSON array; an empty body is zero
func countRows(body []byte) (int, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return 0, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return len(rows), nil
}
