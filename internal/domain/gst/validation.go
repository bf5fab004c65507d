package gst

import (
	"regexp"
	"strings"
)

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// NormalizeTaxID trims and upper-cases a GSTIN or PAN before validation or storage.
func NormalizeTaxID(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateGSTNumber checks the GSTIN shape: 2 digits, 5 letters, 4 digits, 1 letter,
// 1 alphanumeric, "Z", 1 alphanumeric. Lower-case input is accepted.
func ValidateGSTNumber(code string) bool {
	return gstinPattern.MatchString(NormalizeTaxID(code))
}

// ValidatePAN checks the PAN shape: 5 letters, 4 digits, 1 letter.
func ValidatePAN(code string) bool {
	return panPattern.MatchString(NormalizeTaxID(code))
}

// ValidatePhone checks a 10 digit Indian mobile number starting with 6-9.
func ValidatePhone(number string) bool {
	return phonePattern.MatchString(strings.TrimSpace(number))
}
