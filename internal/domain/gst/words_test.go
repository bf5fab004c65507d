package gst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
)

func TestNumberToWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"0.00", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"19", "Nineteen Rupees Only"},
		{"40", "Forty Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"101", "One Hundred One Rupees Only"},
		{"999", "Nine Hundred Ninety Nine Rupees Only"},
		{"1000", "One Thousand Rupees Only"},
		{"1180", "One Thousand One Hundred Eighty Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"150000", "One Lakh Fifty Thousand Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
		{"10000001", "One Crore One Rupees Only"},
		{"1000000000", "One Hundred Crore Rupees Only"},
		{"0.50", "Zero Rupees and Fifty Paise Only"},
		{"1234567.89", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only"},
		{"99.999", "One Hundred Rupees Only"},
		{"12.345", "Twelve Rupees and Thirty Five Paise Only"},
		{"9223372036854775807", "Ninety Two Thousand Two Hundred Thirty Three Crore Seventy Two Lakh Three Thousand Six Hundred Eighty Five Crore Forty Seven Lakh Seventy Five Thousand Eight Hundred Seven Rupees Only"},
		{"9223372036854775808", "Ninety Two Thousand Two Hundred Thirty Three Crore Seventy Two Lakh Three Thousand Six Hundred Eighty Five Crore Forty Seven Lakh Seventy Five Thousand Eight Hundred Eight Rupees Only"},
		{"100000000000000000000", "Ten Lakh Crore Crore Rupees Only"},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, gst.NumberToWords(d(tc.amount)))
		})
	}
}

func TestNumberToWords_Negative(t *testing.T) {
	assert.Equal(t, "Minus One Hundred Rupees Only", gst.NumberToWords(d("-100")))
}

func TestWordsAmountInRange(t *testing.T) {
	for _, v := range []string{"0", "1180.50", "999999999999999", "999999999999999.99", "-999999999999999", "0.000000000000000001"} {
		assert.True(t, gst.WordsAmountInRange(d(v)), v)
	}
	for _, v := range []string{"1000000000000000", "9223372036854775808", "1e2000000", "1e-2000000", "0.0000000000000000001"} {
		assert.False(t, gst.WordsAmountInRange(d(v)), v)
	}
}
