package gst

import "strings"

// SupplyType tells which GST components apply to an invoice.
type SupplyType string

const (
	SupplyInterState SupplyType = "inter" // IGST
	SupplyIntraState SupplyType = "intra" // CGST + SGST
)

// IsInterState reports whether IGST applies.
func (s SupplyType) IsInterState() bool { return s == SupplyInterState }

// ParseSupplyType accepts "inter" or "intra" (any case); ok is false otherwise.
func ParseSupplyType(s string) (SupplyType, bool) {
	switch SupplyType(normalizeState(s)) {
	case SupplyInterState:
		return SupplyInterState, true
	case SupplyIntraState:
		return SupplyIntraState, true
	}
	return "", false
}

// GetGstType compares seller and buyer states ignoring case and surrounding spaces.
func GetGstType(sellerState, buyerState string) SupplyType {
	if normalizeState(sellerState) == normalizeState(buyerState) {
		return SupplyIntraState
	}
	return SupplyInterState
}

func normalizeState(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stateCodes maps the first two digits of a GSTIN to the state or union territory.
var stateCodes = map[string]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"97": "Other Territory",
}

// StateName returns the state for a two-digit GST state code.
func StateName(code string) (string, bool) {
	name, ok := stateCodes[strings.TrimSpace(code)]
	return name, ok
}

// StateCodeFromGSTIN returns the two-digit state code of a well-formed GSTIN.
func StateCodeFromGSTIN(gstin string) (string, bool) {
	gstin = NormalizeTaxID(gstin)
	if !ValidateGSTNumber(gstin) {
		return "", false
	}
	code := gstin[:2]
	if _, ok := stateCodes[code]; !ok {
		return "", false
	}
	return code, true
}

// StateFromGSTIN returns the state name encoded in a GSTIN.
func StateFromGSTIN(gstin string) (string, bool) {
	code, ok := StateCodeFromGSTIN(gstin)
	if !ok {
		return "", false
	}
	return StateName(code)
}
