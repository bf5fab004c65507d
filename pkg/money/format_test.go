package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaise(t *testing.T) {
	assert.Equal(t, "97.98", Paise(decimal.RequireFromString("97.9755")).StringFixed(2))
	assert.Equal(t, "2.33", Paise(decimal.RequireFromString("2.33275")).StringFixed(2))
}

func TestFormatINR(t *testing.T) {
	out := FormatINR(decimal.RequireFromString("1180"))
	assert.True(t, strings.HasPrefix(out, "₹"), out)
	assert.True(t, strings.HasSuffix(out, "180.00"), out)
	assert.False(t, strings.HasPrefix(FormatGrouped(decimal.RequireFromString("5")), "₹"))
}

func TestFormatGrouped_ExactDigits(t *testing.T) {
	cases := map[string]string{
		"0":                         "0.00",
		"5":                         "5.00",
		"123456.7":                  "1,23,456.70",
		"1234567.891":               "12,34,567.89",
		"-0.5":                      "-0.50",
		"-1180.005":                 "-1,180.01",
		"92233720368547758.07":      "92,23,37,20,36,85,47,758.07",
		"100000000000000000000.005": "100000000000000000000.01",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatGrouped(decimal.RequireFromString(in)), in)
	}
}
