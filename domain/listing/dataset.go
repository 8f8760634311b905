package listing

// Remote table columns, in canonical order.
const (
	FieldSource        = "source"
	FieldVehicleName   = "vehicle_name"
	FieldOptions       = "options"
	FieldExteriorColor = "exterior_color"
	FieldInteriorColor = "interior_color"
	FieldPrice         = "price"
	FieldPromotion     = "promotion"
	FieldProductType   = "product_type"
	FieldNote          = "note"
)

// Spreadsheet headers the loader assigns to the columns it reads.
const (
	HeaderSource        = "출처"
	HeaderVehicleName   = "차량명"
	HeaderOptions       = "옵션"
	HeaderExteriorColor = "외장"
	HeaderInteriorColor = "내장"
	HeaderPrice         = "차량가"
	HeaderPromotion     = "프로모션"
	HeaderProductType   = "상품구분"
	HeaderNote          = "비고"
)

const (
	DefaultSource    = "BNK캐피탈"
	DefaultTable     = "instant_delivery_vehicles"
	DefaultBatchSize = 50
)

// CanonicalColumns is the column order of every transformed row.
var CanonicalColumns = []string{
	FieldSource,
	FieldVehicleName,
	FieldOptions,
	FieldExteriorColor,
	FieldInteriorColor,
	FieldPrice,
	FieldPromotion,
	FieldProductType,
	FieldNote,
}

// Row maps a column name to its cell value
type Row map[string]Value

// Get returns the value of column, missing when the column is absent
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return NewMissingValue()
}

// Record converts the row to plain values for the given column order
func (r Row) Record(columns []string) map[string]interface{} {
	out := make(map[string]interface{}, len(columns))
	for _, c := range columns {
		out[c] = r.Get(c).Interface()
	}
	return out
}

// Values returns the row's plain values in the given column order
func (r Row) Values(columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = r.Get(c).Interface()
	}
	return out
}

// Dataset is an ordered set of rows sharing one column list
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
