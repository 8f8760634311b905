package app

import (
	"math"
	"testing"

	"instantload/domain/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformer_CanonicalColumnsForEveryRow(t *testing.T) {
	raw := rawRows(3)
	raw.Rows[1]["unrelated"] = listing.NewStringValue("dropped")
	delete(raw.Rows[2], listing.HeaderOptions)

	out := NewTransformer(listing.DefaultSource).Transform(raw)

	assert.Equal(t, listing.CanonicalColumns, out.Columns)
	require.Len(t, out.Rows, 3)
	for _, row := range out.Rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		assert.ElementsMatch(t, listing.CanonicalColumns, keys)
		assert.Equal(t, listing.DefaultSource, row.Get(listing.FieldSource).AsString())
	}
	assert.True(t, out.Rows[2].Get(listing.FieldOptions).IsMissing())
}

func TestTransformer_RenamesColumns(t *testing.T) {
	out := NewTransformer("BNK캐피탈").Transform(rawRows(1))
	row := out.Rows[0]

	assert.Equal(t, "특별할인", row.Get(listing.FieldPromotion).AsString())
	assert.Equal(t, "리스", row.Get(listing.FieldProductType).AsString())
	assert.Equal(t, "K5 0", row.Get(listing.FieldVehicleName).AsString())
	assert.Equal(t, "오로라 블랙 펄", row.Get(listing.FieldExteriorColor).AsString())
	assert.Equal(t, "블랙", row.Get(listing.FieldInteriorColor).AsString())
	assert.Equal(t, 28000000.0, row.Get(listing.FieldPrice).AsFloat64())
}

func TestTransformer_SourceOverridesSheetColumn(t *testing.T) {
	raw := rawRows(1)
	raw.Rows[0][listing.HeaderSource] = listing.NewStringValue("다른캐피탈")

	out := NewTransformer("BNK캐피탈").Transform(raw)
	assert.Equal(t, "BNK캐피탈", out.Rows[0].Get(listing.FieldSource).AsString())
}

func TestTransformer_NormalizesMissingValues(t *testing.T) {
	nan := math.NaN()
	raw := rawRows(1)
	raw.Rows[0][listing.HeaderPrice] = listing.Value{Type: listing.ValueTypeNumeric, NumericVal: &nan}
	raw.Rows[0][listing.HeaderOptions] = listing.NewStringValue("None")

	out := NewTransformer(listing.DefaultSource).Transform(raw)
	row := out.Rows[0]

	for _, c := range []string{listing.FieldPrice, listing.FieldOptions, listing.FieldNote} {
		v := row.Get(c)
		assert.True(t, v.IsMissing(), c)
		assert.Equal(t, listing.ValueTypeMissing, v.Type, c)
		assert.Nil(t, v.Interface(), c)
	}
}

func TestNormalizeNulls_Idempotent(t *testing.T) {
	out := NewTransformer(listing.DefaultSource).Transform(rawRows(4))

	snapshot := make([]map[string]interface{}, len(out.Rows))
	for i, row := range out.Rows {
		snapshot[i] = row.Record(out.Columns)
	}

	NormalizeNulls(out)
	NormalizeNulls(out)

	for i, row := range out.Rows {
		assert.Equal(t, snapshot[i], row.Record(out.Columns))
	}
}

func TestTransformer_NilDataset(t *testing.T) {
	out := NewTransformer(listing.DefaultSource).Transform(nil)
	assert.Equal(t, listing.CanonicalColumns, out.Columns)
	assert.Zero(t, out.Len())
}

func TestSummarizePrices(t *testing.T) {
	ds := canonicalRows(3)
	ds.Rows = append(ds.Rows, listing.Row{listing.FieldPrice: listing.NewStringValue("문의")})

	summary := SummarizePrices(ds)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 1, summary.NonPrice)
	assert.Equal(t, 35000000.0, summary.Min)
	assert.Equal(t, 35000001.0, summary.Median)
	assert.Equal(t, 35000002.0, summary.Max)

	assert.Zero(t, SummarizePrices(nil).Count)
}
