package container

import (
	"context"
	"fmt"

	"instantload/adapters/excel"
	"instantload/adapters/gsheets"
	"instantload/adapters/postgres"
	"instantload/adapters/postgrest"
	"instantload/app"
	"instantload/internal/config"
	"instantload/internal/errors"
	"instantload/ports"

	"github.com/jmoiron/sqlx"
	"google.golang.org/api/option"
)

// Container holds the dependencies of a run and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Input and output
	Loader ports.ListingLoader
	Table  ports.VehicleTable

	// Extra client options for the Sheets reader
	SheetsOptions []option.ClientOption
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// InitLoader selects the listing input: a spreadsheet URL wins over a file
func (c *Container) InitLoader(ctx context.Context) error {
	listingCfg := c.Config.Listing
	if listingCfg.SheetURL != "" {
		reader, err := gsheets.NewReader(ctx, listingCfg.SheetURL, listingCfg.SheetRange, listingCfg.Credentials, c.SheetsOptions...)
		if err != nil {
			return err
		}
		c.Loader = reader
		return nil
	}

	c.Loader = excel.NewDataReader(listingCfg.File, listingCfg.Sheet)
	return nil
}

// InitTable opens the configured table backend
func (c *Container) InitTable(ctx context.Context) error {
	switch c.Config.Backend {
	case config.BackendPostgres:
		db, err := c.OpenDatabase(ctx)
		if err != nil {
			return err
		}
		c.Table = postgres.NewVehicleRepository(db, c.Config.Listing.Table)
	default:
		table, err := postgrest.NewClient(postgrest.Config{
			BaseURL: c.Config.REST.URL,
			APIKey:  c.Config.REST.APIKey,
			Table:   c.Config.Listing.Table,
		})
		if err != nil {
			return errors.ConnectionError(c.Config.Backend, err)
		}
		c.Table = table
	}
	return nil
}

// OpenDatabase connects to DATABASE_URL once and reuses the connection
func (c *Container) OpenDatabase(ctx context.Context) (*sqlx.DB, error) {
	if c.DB != nil {
		return c.DB, nil
	}
	db, err := postgres.Connect(ctx, c.Config.Database.URL)
	if err != nil {
		return nil, errors.ConnectionError(config.BackendPostgres, err)
	}
	c.DB = db
	return db, nil
}

// Pipeline builds the run pipeline from the initialised components. Table may
// be nil for a dry run.
func (c *Container) Pipeline() (*app.Pipeline, error) {
	if c.Loader == nil {
		return nil, errors.New(errors.CodeInternalError, "loader not initialized")
	}
	return app.NewPipeline(c.Loader, c.Table, c.Config.Listing.Source, c.Config.Listing.BatchSize), nil
}

// Shutdown releases the table and the database connection
func (c *Container) Shutdown() error {
	if c.Table != nil {
		// the repository owns the database connection
		if err := c.Table.Close(); err != nil {
			return err
		}
		c.DB = nil
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
