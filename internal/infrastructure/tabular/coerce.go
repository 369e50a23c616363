package tabular

import (
	"strings"

	"github.com/shopspring/decimal"
)

// truthy holds the tokens accepted as boolean true in import cells, in both
// English and Russian as found in real supplier files.
var truthy = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"да":   {},
	"д":    {},
	"y":    {},
	"+":    {},
	"on":   {},
	"вкл":  {},
}

var decimalCleaner = strings.NewReplacer(
	"₽", "",
	"$", "",
	" ", "",
	" ", "",
	",", ".",
)

// ToDecimal parses a money or quantity cell. Currency signs and spaces are
// stripped and a comma decimal separator is accepted. Returns nil when the
// cell does not hold a number.
func ToDecimal(value string) *decimal.Decimal {
	cleaned := decimalCleaner.Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}

// ToInt parses an integer cell. Fractional values are truncated toward zero
// so "5.0" and "5.7" both read as 5. Returns nil when not a number.
func ToInt(value string) *int {
	d := ToDecimal(value)
	if d == nil {
		return nil
	}
	n := int(d.IntPart())
	return &n
}

// ToBool reads a flag cell. Any token outside the truthy set is false.
func ToBool(value string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
