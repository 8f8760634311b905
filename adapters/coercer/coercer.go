package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"instantload/domain/listing"
)

// naTokens are the cell texts read as missing. Mirrors the default NA set of
// common dataframe readers so sheets exported from them round-trip.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"NaT":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

var whitespace = regexp.MustCompile(`\s+`)

// currencyMarkers are stripped before numeric parsing
var currencyMarkers = []string{"₩", "￦", "KRW", "원", "$", "€", "£", "¥"}

// TypeCoercer turns raw spreadsheet cells into typed values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	NumericColumns   []string // columns parsed as numbers when possible
	CollapseSpaces   bool     // collapse runs of whitespace inside text
	StripControlRune bool     // remove control characters from text
}

// DefaultCoercionConfig treats the price column as numeric
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericColumns:   []string{listing.HeaderPrice, listing.FieldPrice},
		CollapseSpaces:   false,
		StripControlRune: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// IsNumericColumn reports whether column is coerced to numbers
func (c *TypeCoercer) IsNumericColumn(column string) bool {
	for _, n := range c.config.NumericColumns {
		if n == column {
			return true
		}
	}
	return false
}

// CoerceCell converts a raw cell of column into a Value. Numeric columns keep
// unparseable text as a string so the remote side decides whether to accept it.
func (c *TypeCoercer) CoerceCell(column string, raw interface{}) listing.Value {
	if raw == nil {
		return listing.NewMissingValue()
	}

	switch v := raw.(type) {
	case float64:
		return listing.NewNumericValue(v)
	case float32:
		return listing.NewNumericValue(float64(v))
	case int:
		return listing.NewNumericValue(float64(v))
	case int64:
		return listing.NewNumericValue(float64(v))
	case bool:
		return listing.NewStringValue(strconv.FormatBool(v))
	case listing.Value:
		return Normalize(v)
	}

	text := c.cleanText(toString(raw))
	if IsNAToken(text) {
		return listing.NewMissingValue()
	}

	if c.IsNumericColumn(column) {
		if n, ok := ParseNumeric(text); ok {
			return listing.NewNumericValue(n)
		}
	}

	return listing.NewStringValue(text)
}

// Normalize maps every NaN-like value to the canonical missing value and
// leaves the rest untouched. Normalize(Normalize(v)) == Normalize(v).
func Normalize(v listing.Value) listing.Value {
	if v.IsMissing() {
		return listing.NewMissingValue()
	}
	if v.Type == listing.ValueTypeString && IsNAToken(strings.TrimSpace(v.AsString())) {
		return listing.NewMissingValue()
	}
	return v
}

// IsNAToken reports whether text denotes a missing cell
func IsNAToken(text string) bool {
	_, ok := naTokens[text]
	return ok
}

// ParseNumeric parses numbers written with thousands separators, currency
// markers or parentheses for negatives. Scientific notation is accepted.
func ParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, marker := range currencyMarkers {
		cleanVal = strings.ReplaceAll(cleanVal, marker, "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	if cleanVal == "" {
		return 0, false
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func (c *TypeCoercer) cleanText(s string) string {
	s = strings.TrimSpace(s)
	if c.config.CollapseSpaces {
		s = whitespace.ReplaceAllString(s, " ")
	}
	if c.config.StripControlRune {
		s = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\t' {
				return r
			}
			if r < 32 || r == 127 {
				return -1
			}
			return r
		}, s)
	}
	return s
}

// toString converts interface{} to string safely
func toString(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
