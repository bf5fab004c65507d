package dto

import "github.com/shopspring/decimal"

// CalculateRequest is the body of POST /api/gst/calculate.
type CalculateRequest struct {
	IsInterState bool                 `json:"is_inter_state"`
	Items        []InvoiceItemRequest `json:"items"`
}

// ValidateRequest is the body of POST /api/gst/validate. Empty fields are skipped.
type ValidateRequest struct {
	GSTIN string `json:"gstin"`
	PAN   string `json:"pan"`
	Phone string `json:"phone"`
}

// ValidateResponse reports per-field validity. Nil means the field was not sent.
type ValidateResponse struct {
	GSTIN      *bool  `json:"gstin,omitempty"`
	GSTINState string `json:"gstin_state,omitempty"`
	PAN        *bool  `json:"pan,omitempty"`
	Phone      *bool  `json:"phone,omitempty"`
}

// WordsResponse is the body of GET /api/gst/words.
type WordsResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Words  string          `json:"words"`
}

// SupplyTypeResponse is the body of GET /api/gst/supply-type.
type SupplyTypeResponse struct {
	SupplyType   string `json:"supply_type"`
	IsInterState bool   `json:"is_inter_state"`
}
