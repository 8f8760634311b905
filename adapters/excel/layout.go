package excel

import (
	"fmt"
	"strings"

	"instantload/adapters/coercer"
	"instantload/domain/listing"
	"instantload/internal/errors"
)

// MinColumns is the narrowest header row a listing sheet may have
const MinColumns = 10

// Column binds a 0-indexed sheet position to the header it is loaded under
type Column struct {
	Index  int
	Header string
}

// ListingColumns are the positions read from a listing sheet
var ListingColumns = []Column{
	{Index: 1, Header: listing.HeaderPromotion},
	{Index: 3, Header: listing.HeaderProductType},
	{Index: 4, Header: listing.HeaderVehicleName},
	{Index: 5, Header: listing.HeaderOptions},
	{Index: 6, Header: listing.HeaderExteriorColor},
	{Index: 7, Header: listing.HeaderInteriorColor},
	{Index: 8, Header: listing.HeaderPrice},
	{Index: 9, Header: listing.HeaderNote},
}

// Layout turns raw sheet rows into a raw Dataset
type Layout struct {
	Columns    []Column
	MinColumns int
	coercer    *coercer.TypeCoercer
}

// DefaultLayout returns the listing sheet layout
func DefaultLayout() Layout {
	return Layout{
		Columns:    ListingColumns,
		MinColumns: MinColumns,
		coercer:    coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
	}
}

// Build converts rows, the first being the header, into a Dataset. It returns
// the dataset and the number of blank rows it skipped.
func (l Layout) Build(rows [][]interface{}) (*listing.Dataset, int, error) {
	if len(rows) == 0 {
		return nil, 0, errors.FormatError("sheet is empty, expected a header row")
	}

	width := len(rows[0])
	if width < l.MinColumns {
		return nil, 0, errors.FormatError(fmt.Sprintf("header row has %d columns, expected at least %d", width, l.MinColumns))
	}

	c := l.coercer
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}

	headers := make([]string, len(l.Columns))
	for i, col := range l.Columns {
		headers[i] = col.Header
	}

	ds := &listing.Dataset{Columns: headers}
	skipped := 0
	for _, raw := range rows[1:] {
		row := make(listing.Row, len(l.Columns))
		blank := true
		for _, col := range l.Columns {
			var cell interface{}
			if col.Index < len(raw) {
				cell = raw[col.Index]
			}
			v := c.CoerceCell(col.Header, cell)
			if !v.IsMissing() {
				blank = false
			}
			row[col.Header] = v
		}
		if blank {
			skipped++
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, skipped, nil
}

// StringRows widens string rows for Build
func StringRows(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}

// trimBOM removes a UTF-8 byte order mark from the first header cell
func trimBOM(rows [][]string) {
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
}
