package investment

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency every holding is valued in.
const Currency = money.INR

// FormatINR renders an amount in rupees with the currency's grapheme and
// thousands separators.
func FormatINR(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatPct renders a percentage with two decimals and a sign.
func FormatPct(pct decimal.Decimal) string {
	s := pct.StringFixed(2) + "%"
	if pct.IsPositive() {
		return "+" + s
	}
	return s
}
