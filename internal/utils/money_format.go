package utils

import "github.com/shopspring/decimal"

// FormatMoney renders a currency amount at the two-decimal display boundary.
// Internal computation stays at full precision; rounding happens only here.
// Example: 12.3456 returns "12.35"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatHours renders an hours figure, trimming to at most two decimals.
func FormatHours(hours decimal.Decimal) string {
	return hours.Round(2).String()
}
