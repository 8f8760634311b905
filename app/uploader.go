package app

import (
	"context"

	"instantload/domain/listing"
	"instantload/internal/errors"
	"instantload/internal/logger"
	"instantload/ports"
)

// RowFailure is a row that could not be inserted even on its own
type RowFailure struct {
	Index int // position in the uploaded dataset
	Row   listing.Row
	Err   error
}

// UploadResult summarizes a batch upload
type UploadResult struct {
	Total         int
	Uploaded      int
	BulkCalls     int
	FailedBatches int
	SingleCalls   int
	Failures      []RowFailure
}

// BatchUploader inserts a dataset in fixed-size batches, falling back to
// single-row inserts for a batch whose bulk insert fails
type BatchUploader struct {
	table     ports.VehicleTable
	batchSize int
}

// NewBatchUploader creates an uploader. A batch size below 1 uses the default.
func NewBatchUploader(table ports.VehicleTable, batchSize int) *BatchUploader {
	if batchSize < 1 {
		batchSize = listing.DefaultBatchSize
	}
	return &BatchUploader{table: table, batchSize: batchSize}
}

// BatchSize returns the number of rows per bulk insert
func (u *BatchUploader) BatchSize() int {
	return u.batchSize
}

// Upload inserts every row of ds. Row failures are recorded and skipped; only
// cancellation of ctx stops the upload early.
func (u *BatchUploader) Upload(ctx context.Context, ds *listing.Dataset) (*UploadResult, error) {
	log := logger.Component(ctx, "uploader")
	result := &UploadResult{Total: ds.Len()}
	if result.Total == 0 {
		log.Warn().Msg("no rows to upload")
		return result, nil
	}

	fb := fallback[listing.Row]{
		coarse: func(ctx context.Context, batch []listing.Row) error {
			result.BulkCalls++
			return u.table.InsertMany(ctx, batch)
		},
		fine: u.table.Insert,
	}

	for start := 0; start < len(ds.Rows); start += u.batchSize {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrapf(err, "upload interrupted at row %d", start)
		}

		end := start + u.batchSize
		if end > len(ds.Rows) {
			end = len(ds.Rows)
		}
		batch := ds.Rows[start:end]

		outcome := fb.run(ctx, batch)
		result.Uploaded += outcome.Succeeded
		result.SingleCalls += outcome.FineCalls

		if outcome.CoarseErr != nil && !outcome.Interrupted {
			result.FailedBatches++
			log.Error().
				Err(errors.BatchInsertError(start, len(batch), outcome.CoarseErr)).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("batch upload failed, retrying rows individually")
		}

		for i, row := range batch {
			err, failed := outcome.FineErrors[i]
			if !failed {
				continue
			}
			idx := start + i
			result.Failures = append(result.Failures, RowFailure{Index: idx, Row: row, Err: err})
			log.Error().
				Err(errors.RowInsertError(idx, err)).
				Int("row", idx).
				Interface("data", row.Record(ds.Columns)).
				Msg("row upload failed")
		}

		if outcome.Interrupted {
			log.Warn().
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("upload cancelled")
			return result, errors.Wrapf(ctx.Err(), "upload interrupted at row %d", start)
		}

		log.Info().Msgf("progress: %d/%d rows uploaded", result.Uploaded, result.Total)
	}

	return result, nil
}
