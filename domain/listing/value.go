package listing

import (
	"math"
	"strconv"
)

// ValueType defines the storage type for a cell
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// Value represents a typed spreadsheet cell. A missing Value is the canonical
// null: it encodes to SQL NULL and JSON null.
type Value struct {
	Type       ValueType
	StringVal  *string
	NumericVal *float64
}

// NewStringValue creates a string value
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value. NaN and infinities are missing.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether the value is the canonical null.
// The zero Value counts as missing.
func (v Value) IsMissing() bool {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal == nil
	case ValueTypeNumeric:
		return v.NumericVal == nil || math.IsNaN(*v.NumericVal) || math.IsInf(*v.NumericVal, 0)
	}
	return true
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && !v.IsMissing()
}

// IsString returns true if the value represents a valid string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && v.StringVal != nil
}

// AsFloat64 returns the numeric value as float64, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.IsNumeric() {
		return *v.NumericVal
	}
	return 0.0
}

// AsString returns the string value, or empty string if not a string
func (v Value) AsString() string {
	if v.StringVal != nil {
		return *v.StringVal
	}
	return ""
}

// Interface returns the value as nil, string or float64. Integral numbers are
// returned as int64 so they print and encode without an exponent.
func (v Value) Interface() interface{} {
	if v.IsMissing() {
		return nil
	}
	if v.Type == ValueTypeNumeric {
		n := *v.NumericVal
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	}
	return *v.StringVal
}

// String returns the string representation of the value
func (v Value) String() string {
	switch {
	case v.IsMissing():
		return "<null>"
	case v.Type == ValueTypeNumeric:
		return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
	default:
		return *v.StringVal
	}
}
