package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"instantload/app"
	"instantload/domain/listing"
	"instantload/internal/config"
	"instantload/internal/container"
	"instantload/internal/errors"
	"instantload/internal/logger"
	"instantload/internal/migration"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOptions are flags shared by every command
type globalOptions struct {
	envFiles []string
	logLevel string
	backend  string
	table    string
	source   string
}

// runtime is the state PersistentPreRunE prepares for a command
type runtime struct {
	cfg   *config.Config
	log   zerolog.Logger
	runID string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "instantload",
		Short: "Replace a source partition of the instant delivery vehicle table from a listing sheet",
		Long: `instantload reads a capital company's vehicle listing spreadsheet, maps its
columns onto the instant_delivery_vehicles table, deletes the rows previously
uploaded for the same source and inserts the new rows in batches.

Configuration is read from the environment, after loading .env.local and .env
when present:
- SUPABASE_URL, SUPABASE_SERVICE_ROLE_KEY (rest backend)
- DATABASE_URL (postgres backend)
- LOADER_BACKEND=rest|postgres (default: rest)
- LISTING_FILE, LISTING_SHEET, LISTING_SOURCE, LISTING_TABLE, LISTING_BATCH_SIZE
- LISTING_SHEET_URL, LISTING_SHEET_RANGE, GOOGLE_CREDENTIALS
- LOG_LEVEL (default: info)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.prepare(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&opts.envFiles, "env-file", config.DefaultEnvFiles, "Dotenv files to load when present")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.backend, "backend", "", "Table backend: rest|postgres")
	flags.StringVar(&opts.table, "table", "", "Remote table name (default instant_delivery_vehicles)")
	flags.StringVar(&opts.source, "source", "", "Source tag identifying the partition (default BNK캐피탈)")

	rootCmd.AddCommand(
		newUploadCmd(rt),
		newStatusCmd(rt),
		newMigrateCmd(rt),
	)

	return rootCmd
}

func (rt *runtime) prepare(cmd *cobra.Command, opts *globalOptions) error {
	if _, err := config.LoadEnvFiles(opts.envFiles...); err != nil {
		return err
	}

	cfg := config.Load()
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.backend != "" {
		cfg.Backend = strings.ToLower(opts.backend)
	}
	if opts.table != "" {
		cfg.Listing.Table = opts.table
	}
	if opts.source != "" {
		cfg.Listing.Source = opts.source
	}

	rt.cfg = cfg
	rt.runID = uuid.NewString()
	rt.log = logger.New(cfg.LogLevel).With().Str("run_id", rt.runID).Logger()
	cmd.SetContext(logger.WithContext(cmd.Context(), rt.log))
	return nil
}

func newUploadCmd(rt *runtime) *cobra.Command {
	var (
		sheet       string
		sheetURL    string
		sheetRange  string
		credentials string
		batchSize   int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "upload [listing.xlsx]",
		Short: "Load a listing sheet and replace its source partition",
		Long: `Load a listing sheet and replace its source partition.

The sheet must have at least 10 columns; columns 1,3,4,5,6,7,8,9 (0-indexed)
are read as promotion, product type, vehicle name, options, exterior colour,
interior colour, price and note.

Examples:
  instantload upload bnkcar.xlsx
  instantload upload --source "BNK캐피탈" --batch-size 50 bnkcar.xlsx
  instantload upload --sheet-url "https://docs.google.com/spreadsheets/d/<id>" --sheet-range "Sheet1!A1:J" --credentials sa.json
  instantload upload --dry-run bnkcar.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if len(args) == 1 {
				cfg.Listing.File = args[0]
			}
			if cmd.Flags().Changed("sheet") {
				cfg.Listing.Sheet = sheet
			}
			if cmd.Flags().Changed("sheet-url") {
				cfg.Listing.SheetURL = sheetURL
			}
			if cmd.Flags().Changed("sheet-range") {
				cfg.Listing.SheetRange = sheetRange
			}
			if cmd.Flags().Changed("credentials") {
				cfg.Listing.Credentials = credentials
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Listing.BatchSize = batchSize
			}
			return rt.fatal(runUpload(cmd.Context(), cmd.OutOrStdout(), rt, dryRun))
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default: first worksheet)")
	cmd.Flags().StringVar(&sheetURL, "sheet-url", "", "Google Sheets URL to read instead of a file")
	cmd.Flags().StringVar(&sheetRange, "sheet-range", "", "Google Sheets range e.g. 'Sheet1!A1:J'")
	cmd.Flags().StringVar(&credentials, "credentials", "", "Google service account credentials file")
	cmd.Flags().IntVar(&batchSize, "batch-size", listing.DefaultBatchSize, "Rows per bulk insert")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Load and transform only; print the rows instead of uploading")

	return cmd
}

func runUpload(ctx context.Context, out io.Writer, rt *runtime, dryRun bool) error {
	cfg := rt.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ValidateInput(); err != nil {
		return err
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer rt.shutdown(c)

	if err := c.InitLoader(ctx); err != nil {
		return err
	}

	if dryRun {
		pipeline, err := c.Pipeline()
		if err != nil {
			return err
		}
		ds, err := pipeline.Prepare(ctx)
		if err != nil {
			return err
		}
		printDataset(out, ds)
		report := &app.Report{
			RunID:  rt.runID,
			Source: cfg.Listing.Source,
			Input:  c.Loader.Source(),
			Loaded: ds.Len(),
			DryRun: true,
			Prices: app.SummarizePrices(ds),
			Remote: -1,
		}
		report.Log(rt.log)
		return nil
	}

	if err := cfg.ValidateBackend(); err != nil {
		return err
	}
	if err := c.InitTable(ctx); err != nil {
		return err
	}

	pipeline, err := c.Pipeline()
	if err != nil {
		return err
	}
	report, err := pipeline.Run(ctx, rt.runID)
	if report != nil && report.Upload != nil {
		report.Log(rt.log)
	}
	if err != nil {
		return err
	}
	rt.log.Info().Msg("done")
	return nil
}

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Count the rows stored for the source tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if err := cfg.Validate(); err != nil {
				return rt.fatal(err)
			}
			if err := cfg.ValidateBackend(); err != nil {
				return rt.fatal(err)
			}

			c, err := container.New(cfg)
			if err != nil {
				return rt.fatal(err)
			}
			defer rt.shutdown(c)

			if err := c.InitTable(cmd.Context()); err != nil {
				return rt.fatal(err)
			}

			count, err := c.Table.CountBySource(cmd.Context(), cfg.Listing.Source)
			if err != nil {
				return rt.fatal(errors.ExternalServiceError(cfg.Backend, err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s | source=%s | %d rows\n", cfg.Listing.Table, cfg.Listing.Source, count)
			return nil
		},
	}
}

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the listing table on a Postgres database",
		Long: `Create the listing table and its source index on the database named by
DATABASE_URL. Existing tables are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			cfg.Backend = config.BackendPostgres
			if err := cfg.Validate(); err != nil {
				return rt.fatal(err)
			}
			if err := cfg.ValidateBackend(); err != nil {
				return rt.fatal(err)
			}

			c, err := container.New(cfg)
			if err != nil {
				return rt.fatal(err)
			}
			defer rt.shutdown(c)

			db, err := c.OpenDatabase(cmd.Context())
			if err != nil {
				return rt.fatal(err)
			}

			runner := migration.NewRunner(cfg.Listing.Table)
			if err := runner.Run(cmd.Context(), db); err != nil {
				return rt.fatal(err)
			}
			rt.log.Info().Str("table", cfg.Listing.Table).Str("version", runner.Version()).Msg("migration applied")
			return nil
		},
	}
}

// shutdown releases the container, logging a close failure
func (rt *runtime) shutdown(c *container.Container) {
	if err := c.Shutdown(); err != nil {
		rt.log.Warn().Err(err).Msg("failed to close table backend")
	}
}

// fatal logs err with its code before main prints it
func (rt *runtime) fatal(err error) error {
	if err == nil {
		return nil
	}
	rt.log.Error().Err(err).Str("code", errors.GetCode(err)).Msg("run aborted")
	return err
}

func printDataset(w io.Writer, ds *listing.Dataset) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(ds.Columns, "\t"))
	for _, row := range ds.Rows {
		cells := make([]string, len(ds.Columns))
		for i, c := range ds.Columns {
			cells[i] = row.Get(c).String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}
