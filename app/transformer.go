package app

import (
	"instantload/adapters/coercer"
	"instantload/domain/listing"
)

// ColumnMapping renames spreadsheet headers to remote table columns
var ColumnMapping = map[string]string{
	listing.HeaderSource:        listing.FieldSource,
	listing.HeaderVehicleName:   listing.FieldVehicleName,
	listing.HeaderOptions:       listing.FieldOptions,
	listing.HeaderExteriorColor: listing.FieldExteriorColor,
	listing.HeaderInteriorColor: listing.FieldInteriorColor,
	listing.HeaderPrice:         listing.FieldPrice,
	listing.HeaderPromotion:     listing.FieldPromotion,
	listing.HeaderProductType:   listing.FieldProductType,
	listing.HeaderNote:          listing.FieldNote,
}

// Transformer maps a raw listing Dataset onto the remote table's vocabulary
type Transformer struct {
	source  string
	mapping map[string]string
	columns []string
}

// NewTransformer creates a transformer that tags every row with source
func NewTransformer(source string) *Transformer {
	return &Transformer{
		source:  source,
		mapping: ColumnMapping,
		columns: listing.CanonicalColumns,
	}
}

// Transform renames, reorders and tags raw, then normalizes missing values.
// Columns outside the mapping are dropped and absent columns become null, so
// every output row carries exactly the canonical columns.
func (t *Transformer) Transform(raw *listing.Dataset) *listing.Dataset {
	out := &listing.Dataset{Columns: append([]string(nil), t.columns...)}
	if raw == nil {
		return out
	}

	out.Rows = make([]listing.Row, 0, len(raw.Rows))
	for _, src := range raw.Rows {
		renamed := make(listing.Row, len(t.columns))
		for header, v := range src {
			if field, ok := t.mapping[header]; ok {
				renamed[field] = v
			}
		}

		row := make(listing.Row, len(t.columns))
		for _, c := range t.columns {
			row[c] = renamed.Get(c)
		}
		row[listing.FieldSource] = listing.NewStringValue(t.source)

		out.Rows = append(out.Rows, row)
	}

	NormalizeNulls(out)
	return out
}

// NormalizeNulls replaces every NaN-like cell of ds with the canonical null.
// It is idempotent.
func NormalizeNulls(ds *listing.Dataset) {
	if ds == nil {
		return
	}
	for _, row := range ds.Rows {
		for c, v := range row {
			row[c] = coercer.Normalize(v)
		}
	}
}
