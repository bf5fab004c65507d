package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest is the body of POST and PUT /api/customers.
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// CustomerResponse is a customer.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	GSTIN     string    `json:"gstin,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Pincode   string    `json:"pincode,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerListResponse is a page of customers.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InvoiceItemRequest is one line of an invoice request.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
}

// InvoiceRequest is the body of POST /api/invoices, PUT /api/invoices/:id and
// POST /api/invoices/calculate. PlaceOfSupply overrides the customer state.
type InvoiceRequest struct {
	CustomerID    string               `json:"customer_id"`
	InvoiceDate   string               `json:"invoice_date"` // YYYY-MM-DD, defaults to today
	DueDate       string               `json:"due_date"`
	PlaceOfSupply string               `json:"place_of_supply"`
	Notes         string               `json:"notes"`
	Items         []InvoiceItemRequest `json:"items"`
}

// UpdateStatusRequest is the body of PATCH /api/invoices/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceItemResponse is a computed invoice line. Amounts are rounded to paise.
type InvoiceItemResponse struct {
	Description string          `json:"description,omitempty"`
	HSNCode     string          `json:"hsn_code,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Amount      decimal.Decimal `json:"amount"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	Total       decimal.Decimal `json:"total"`
}

// TotalsResponse is the tax summary of an invoice or a preview.
type TotalsResponse struct {
	SupplyType     string                `json:"supply_type"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TotalCGST      decimal.Decimal       `json:"total_cgst"`
	TotalSGST      decimal.Decimal       `json:"total_sgst"`
	TotalIGST      decimal.Decimal       `json:"total_igst"`
	TotalTax       decimal.Decimal       `json:"total_tax"`
	GrandTotal     decimal.Decimal       `json:"grand_total"`
	GrandTotalText string                `json:"grand_total_display"` // en-IN formatted
	AmountInWords  string                `json:"amount_in_words"`
}

// InvoiceResponse is a stored invoice with its lines.
type InvoiceResponse struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	InvoiceDate   string            `json:"invoice_date"`
	DueDate       string            `json:"due_date,omitempty"`
	Status        string            `json:"status"`
	PlaceOfSupply string            `json:"place_of_supply"`
	Notes         string            `json:"notes,omitempty"`
	Customer      *CustomerResponse `json:"customer,omitempty"`
	TotalsResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceSummaryResponse is one row of an invoice listing.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	Status        string          `json:"status"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// InvoiceListResponse is a page of invoices.
type InvoiceListResponse struct {
	Items []InvoiceSummaryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
