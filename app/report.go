package app

import (
	"instantload/domain/listing"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
)

// PriceSummary holds order statistics of the numeric prices in a dataset
type PriceSummary struct {
	Count    int
	NonPrice int // rows whose price is missing or text
	Min      float64
	Median   float64
	Max      float64
}

// SummarizePrices computes the price summary of ds
func SummarizePrices(ds *listing.Dataset) PriceSummary {
	var summary PriceSummary
	var prices stats.Float64Data
	if ds != nil {
		for _, row := range ds.Rows {
			v := row.Get(listing.FieldPrice)
			if !v.IsNumeric() {
				summary.NonPrice++
				continue
			}
			prices = append(prices, v.AsFloat64())
		}
	}

	summary.Count = len(prices)
	if summary.Count == 0 {
		return summary
	}
	summary.Min, _ = prices.Min()
	summary.Median, _ = prices.Median()
	summary.Max, _ = prices.Max()
	return summary
}

// Report is the outcome of one run
type Report struct {
	RunID   string
	Source  string
	Input   string
	Loaded  int
	Deleted int
	DryRun  bool
	Upload  *UploadResult
	Prices  PriceSummary
	Remote  int // rows stored for the source after the run, -1 when unknown
}

// Failed returns the number of rows that could not be uploaded
func (r *Report) Failed() int {
	if r.Upload == nil {
		return 0
	}
	return len(r.Upload.Failures)
}

// Log writes the report as one summary line. The run ID is expected on log.
func (r *Report) Log(log zerolog.Logger) {
	event := log.Info().
		Str("source", r.Source).
		Str("input", r.Input).
		Int("loaded", r.Loaded).
		Int("deleted", r.Deleted).
		Bool("dry_run", r.DryRun).
		Int("price_rows", r.Prices.Count).
		Int("no_price_rows", r.Prices.NonPrice)
	if r.Prices.Count > 0 {
		event = event.
			Float64("price_min", r.Prices.Min).
			Float64("price_median", r.Prices.Median).
			Float64("price_max", r.Prices.Max)
	}
	if r.Upload != nil {
		event = event.
			Int("uploaded", r.Upload.Uploaded).
			Int("failed", r.Failed()).
			Int("bulk_calls", r.Upload.BulkCalls).
			Int("failed_batches", r.Upload.FailedBatches)
	}
	if r.Remote >= 0 {
		event = event.Int("remote_rows", r.Remote)
	}
	if r.Upload != nil {
		event.Msgf("total %d rows uploaded", r.Upload.Uploaded)
		return
	}
	event.Msg("run finished")
}
