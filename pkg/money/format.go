// Package money renders rupee amounts for display.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var indiaPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Paise rounds half away from zero to two decimals.
func Paise(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatGrouped renders the amount with en-IN digit grouping and two decimals, e.g. 1,23,456.70.
// Rupees and paise are formatted as integers, so no float conversion happens. Rupee
// parts beyond the int64 range are printed ungrouped.
func FormatGrouped(d decimal.Decimal) string {
	p := Paise(d)
	sign := ""
	if p.IsNegative() {
		sign = "-"
		p = p.Neg()
	}
	rupees := p.Truncate(0)
	paise := p.Sub(rupees).Shift(2).IntPart()

	whole := rupees.BigInt()
	grouped := whole.String()
	if whole.IsInt64() {
		grouped = indiaPrinter.Sprint(number.Decimal(whole.Int64()))
	}
	return fmt.Sprintf("%s%s.%02d", sign, grouped, paise)
}

// FormatINR prefixes FormatGrouped with the rupee sign.
func FormatINR(d decimal.Decimal) string {
	return "₹" + FormatGrouped(d)
}
