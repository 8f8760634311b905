package app

import (
	"context"

	"instantload/domain/listing"
	"instantload/internal/errors"
	"instantload/internal/logger"
	"instantload/ports"
)

// Pipeline runs load, transform, replace and upload in that order
type Pipeline struct {
	loader      ports.ListingLoader
	transformer *Transformer
	table       ports.VehicleTable
	source      string
	batchSize   int
}

// NewPipeline wires the stages for one source partition. table may be nil
// when only Prepare is used.
func NewPipeline(loader ports.ListingLoader, table ports.VehicleTable, source string, batchSize int) *Pipeline {
	return &Pipeline{
		loader:      loader,
		transformer: NewTransformer(source),
		table:       table,
		source:      source,
		batchSize:   batchSize,
	}
}

// Prepare loads and transforms the listing sheet
func (p *Pipeline) Prepare(ctx context.Context) (*listing.Dataset, error) {
	raw, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	ds := p.transformer.Transform(raw)
	log := logger.Component(ctx, "transformer")
	log.Info().
		Int("rows", ds.Len()).
		Strs("columns", ds.Columns).
		Str("source", p.source).
		Msg("rows transformed")
	return ds, nil
}

// Run executes the whole pipeline. Load, delete and setup failures are
// returned; row and batch failures are reported in the Report only.
func (p *Pipeline) Run(ctx context.Context, runID string) (*Report, error) {
	if p.table == nil {
		return nil, errors.ConnectionError("table", errors.New(errors.CodeInternalError, "no table configured"))
	}

	report := &Report{RunID: runID, Source: p.source, Input: p.loader.Source(), Remote: -1}

	ds, err := p.Prepare(ctx)
	if err != nil {
		return report, err
	}
	report.Loaded = ds.Len()
	report.Prices = SummarizePrices(ds)

	deleted, err := NewReplacer(p.table).Replace(ctx, p.source)
	if err != nil {
		return report, err
	}
	report.Deleted = deleted

	result, err := NewBatchUploader(p.table, p.batchSize).Upload(ctx, ds)
	report.Upload = result
	if err != nil {
		return report, err
	}

	if n, err := p.table.CountBySource(ctx, p.source); err == nil {
		report.Remote = n
	} else {
		log := logger.Component(ctx, "pipeline")
		log.Warn().Err(err).Msg("could not count remote rows")
	}

	return report, nil
}
