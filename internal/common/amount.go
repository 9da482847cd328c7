package common

import "github.com/shopspring/decimal"

// Amount renders an exact decimal as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON writes the decimal digits without quotes.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
