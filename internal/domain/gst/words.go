package gst

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

var croreInt = big.NewInt(crore)

const (
	// MaxWordsDigits is the longest integer part WordsAmountInRange accepts,
	// i.e. up to 99,99,99,99,99,99,999 rupees.
	MaxWordsDigits = 15
	// MaxWordsScale is the most decimal places WordsAmountInRange accepts.
	MaxWordsScale = 18
)

// WordsAmountInRange reports whether amount is small enough to spell out.
// It inspects only the coefficient length and exponent, so oversized input
// such as "1e2000000" is rejected without being expanded.
func WordsAmountInRange(amount decimal.Decimal) bool {
	if amount.IsZero() {
		return true
	}
	if amount.Exponent() < -MaxWordsScale {
		return false
	}
	return amount.NumDigits()+int(amount.Exponent()) <= MaxWordsDigits
}

// NumberToWords renders an amount in Indian English for printing on invoices, e.g.
// 150000 → "One Lakh Fifty Thousand Rupees Only".
// Paise are rounded half up; 0.995 and above carries into the next rupee.
func NumberToWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "Minus " + NumberToWords(amount.Neg())
	}
	if amount.IsZero() {
		return "Zero Rupees Only"
	}

	rupees := amount.Floor()
	paise := amount.Sub(rupees).Mul(hundred).Round(0).IntPart()
	if paise >= 100 {
		rupees = rupees.Add(decimal.NewFromInt(1))
		paise -= 100
	}

	intWords := rupeesToWords(rupees.BigInt())
	if intWords == "" {
		intWords = "Zero"
	}

	var sb strings.Builder
	sb.WriteString(intWords)
	sb.WriteString(" Rupees")
	if paise > 0 {
		sb.WriteString(" and ")
		sb.WriteString(belowThousand(paise))
		sb.WriteString(" Paise")
	}
	sb.WriteString(" Only")
	return sb.String()
}

// rupeesToWords splits off crores with big.Int so values past int64 stay exact.
func rupeesToWords(n *big.Int) string {
	if n.IsInt64() {
		return integerToWords(n.Int64())
	}
	q, r := new(big.Int).QuoRem(n, croreInt, new(big.Int))
	head := rupeesToWords(q) + " Crore"
	if rest := integerToWords(r.Int64()); rest != "" {
		return head + " " + rest
	}
	return head
}

// integerToWords returns "" for 0.
func integerToWords(n int64) string {
	if n < thousand {
		return belowThousand(n)
	}

	parts := make([]string, 0, 4)
	if c := n / crore; c > 0 {
		parts = append(parts, integerToWords(c)+" Crore")
		n %= crore
	}
	if l := n / lakh; l > 0 {
		parts = append(parts, belowThousand(l)+" Lakh")
		n %= lakh
	}
	if t := n / thousand; t > 0 {
		parts = append(parts, belowThousand(t)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 20:
		return onesWords[n]
	case n < 100:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " " + onesWords[n%10]
	default:
		rest := belowThousand(n % 100)
		if rest == "" {
			return onesWords[n/100] + " Hundred"
		}
		return onesWords[n/100] + " Hundred " + rest
	}
}
