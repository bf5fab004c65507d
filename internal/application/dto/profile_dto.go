package dto

import "time"

// UpsertProfileRequest is the body of PUT /api/profile.
type UpsertProfileRequest struct {
	BusinessName  string `json:"business_name"`
	GSTIN         string `json:"gstin"`
	PAN           string `json:"pan"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	InvoicePrefix string `json:"invoice_prefix"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	UPIID         string `json:"upi_id"`
	Terms         string `json:"terms"`
}

// ProfileResponse is the seller profile.
type ProfileResponse struct {
	ID            string    `json:"id"`
	BusinessName  string    `json:"business_name"`
	GSTIN         string    `json:"gstin,omitempty"`
	PAN           string    `json:"pan,omitempty"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	StateCode     string    `json:"state_code,omitempty"`
	Pincode       string    `json:"pincode"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	HasLogo       bool      `json:"has_logo"`
	InvoicePrefix string    `json:"invoice_prefix"`
	BankName      string    `json:"bank_name,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	IFSC          string    `json:"ifsc,omitempty"`
	UPIID         string    `json:"upi_id,omitempty"`
	Terms         string    `json:"terms,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
