package utils

import "github.com/shopspring/decimal"

// RoundMoney rounds to the currency's minor unit. Applied only at the point
// of storage; intermediate amounts stay unrounded so errors never compound.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
